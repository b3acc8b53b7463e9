// Command dpe3cl evaluates dwelling records with the 3CL-DPE method.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/dpe3cl/internal/cli"
	"github.com/rshade/dpe3cl/pkg/version"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

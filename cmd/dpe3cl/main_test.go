package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/cli"
	"github.com/rshade/dpe3cl/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "dpe3cl", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "failed records", err: &cli.ExitError{ExitCode: cli.ExitCodeFailedRecords, Reason: "1 of 3 records failed"}, want: 2},
		{name: "wrapped", err: fmt.Errorf("outer: %w", &cli.ExitError{ExitCode: 3, Reason: "x"}), want: 3},
		{name: "joined", err: errors.Join(errors.New("outer"), &cli.ExitError{ExitCode: 2}), want: 2},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

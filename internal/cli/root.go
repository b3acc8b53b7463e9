// Package cli implements the dpe3cl command line.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/dpe3cl/internal/config"
	"github.com/rshade/dpe3cl/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root command for the dpe3cl CLI.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "dpe3cl",
		Short:   "3CL-DPE energy performance calculation",
		Long:    "dpe3cl evaluates dwelling records with the 3CL-DPE method and reports energy use, emissions and labels.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding a .dpe3cl configuration overlay")
	cmd.AddCommand(newCalcCmd(), newBatchCmd(), newTablesCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Evaluate one dwelling record
  dpe3cl calc dwelling.json

  # Evaluate a directory of records on 8 workers, failing on missing table values
  dpe3cl batch records/ --concurrency 8 --missing-policy fail

  # Reproduce the reference engine, defects included
  dpe3cl calc dwelling.json --compat

  # Inspect the reference tables
  dpe3cl tables list
  dpe3cl tables resolve ug enum_type_vitrage_id=2 vitrage_vir=0 enum_type_gaz_lame_id=1 epaisseur_lame~=12

  # Initialize configuration
  dpe3cl config init`

// loadConfig resolves the project overlay and publishes the merged
// configuration globally for the rest of the invocation.
func loadConfig(cmd *cobra.Command) error {
	flagDir, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	projectDir := config.ResolveProjectDir(cmd.Context(), flagDir, wd)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(cmd.Context(), projectDir)
	config.SetGlobalConfig(cfg)
	return nil
}

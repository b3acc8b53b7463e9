package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/dpe3cl/internal/config"
	"github.com/rshade/dpe3cl/internal/engine"
	"github.com/rshade/dpe3cl/internal/logging"
	"github.com/rshade/dpe3cl/internal/tables"
)

// ExitError carries a process exit code for outcomes that are not plain
// failures, such as a batch with failed records.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ExitCodeFailedRecords is returned when a batch completes with at least
// one failed record.
const ExitCodeFailedRecords = 2

// ExitCode extracts the exit code carried by err: 0 for nil, the
// ExitError code when err wraps one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}

// engineFlags are the flags shared by the commands that evaluate records.
type engineFlags struct {
	compat        bool
	missingPolicy string
	tablesDir     string
	output        string
	precision     int
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.compat, "compat", false, "reproduce the documented defects of the reference engine")
	cmd.Flags().StringVar(&f.missingPolicy, "missing-policy", "", "missing reference value policy: warn or fail")
	cmd.Flags().StringVar(&f.tablesDir, "tables-dir", "", "load reference tables from this directory")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format: json, ndjson or table")
	cmd.Flags().IntVar(&f.precision, "precision", -1, "decimals in table output")
}

// settings merges the flags explicitly set on cmd over the configuration.
func (f *engineFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	base := config.GetGlobalConfig()
	cfg := *base
	if cmd.Flags().Changed("compat") {
		cfg.Engine.CompatMode = f.compat
	}
	if cmd.Flags().Changed("missing-policy") {
		cfg.Engine.MissingPolicy = f.missingPolicy
	}
	if cmd.Flags().Changed("tables-dir") {
		cfg.Engine.TablesDir = f.tablesDir
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.DefaultFormat = f.output
	}
	if cmd.Flags().Changed("precision") {
		cfg.Output.Precision = f.precision
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadTables returns the configured table set, checked against the
// minimum version constraint.
func loadTables(ctx context.Context, ec config.EngineConfig) (*tables.Store, error) {
	log := logging.FromContext(ctx)

	var (
		store *tables.Store
		err   error
	)
	if ec.TablesDir != "" {
		store, err = tables.LoadDir(ec.TablesDir)
	} else {
		store, err = tables.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	if err = store.CheckVersion(ec.MinTablesVersion); err != nil {
		return nil, err
	}

	log.Debug().
		Str(logging.FieldComponent, "cli").
		Str("tables_version", store.Manifest().Version).
		Str("tables_dir", ec.TablesDir).
		Int("tables", len(store.Names())).
		Msg("reference tables loaded")
	return store, nil
}

// buildEngine loads the reference tables and creates the engine.
func buildEngine(ctx context.Context, ec config.EngineConfig) (*engine.Engine, error) {
	store, err := loadTables(ctx, ec)
	if err != nil {
		return nil, err
	}
	policy, err := engine.ParseMissingPolicy(ec.MissingPolicy)
	if err != nil {
		return nil, err
	}
	return engine.New(store, engine.WithCompatMode(ec.CompatMode), engine.WithMissingPolicy(policy))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/dpe3cl/internal/ingest"
)

func newCalcCmd() *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "calc FILE|-",
		Short: "Evaluate dwelling records",
		Long: `Evaluate the dwelling records of one file, or of stdin when FILE is "-".

The file may hold a single JSON document, a JSON array or NDJSON. Records
are evaluated in order and the outputs are written to stdout.`,
		Example: `  dpe3cl calc dwelling.json
  cat dwellings.ndjson | dpe3cl calc - -o ndjson
  dpe3cl calc dwelling.json -o table --missing-policy fail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, &flags, args[0])
		},
	}
	flags.register(cmd)

	return cmd
}

func runCalc(cmd *cobra.Command, flags *engineFlags, path string) error {
	ctx := cmd.Context()

	cfg, err := flags.settings(cmd)
	if err != nil {
		return err
	}
	eng, err := buildEngine(ctx, cfg.Engine)
	if err != nil {
		return err
	}
	records, err := ingest.Read(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	results := make([]recordResult, len(records))
	failed := 0
	for i, rec := range records {
		if err = ctx.Err(); err != nil {
			return err
		}
		out, runErr := eng.Run(ctx, rec.Dwelling)
		results[i] = recordResult{Label: rec.Label(), Source: rec.Source, Outputs: out, Err: runErr}
		if runErr != nil {
			failed++
			logger.Warn().Ctx(ctx).Err(runErr).Str("record", rec.Label()).Msg("record failed")
		}
	}

	if err = renderResults(cmd.OutOrStdout(), cfg.Output.DefaultFormat, cfg.Output.Precision, results); err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}
	if failed > 0 {
		if len(records) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d records failed", failed, len(records))
	}
	return nil
}

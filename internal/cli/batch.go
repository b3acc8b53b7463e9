package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/dpe3cl/internal/config"
	"github.com/rshade/dpe3cl/internal/engine/batch"
	"github.com/rshade/dpe3cl/internal/ingest"
)

type batchFlags struct {
	engineFlags

	concurrency int
	batchSize   int
}

func newBatchCmd() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "batch DIR|FILE",
		Short: "Evaluate many dwelling records concurrently",
		Long: `Evaluate every record of a directory or file concurrently.

A directory is walked for *.json, *.ndjson and *.jsonl files. One status
line per record is written to stdout (NDJSON unless --output says
otherwise) and a summary to stderr. The command exits with code 2 when at
least one record failed.`,
		Example: `  dpe3cl batch records/
  dpe3cl batch records/ --concurrency 8 --batch-size 500 -o table
  dpe3cl batch dump.ndjson --missing-policy fail > results.ndjson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &flags, args[0])
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "parallel runs (0 uses the configuration, then one per CPU)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "records per chunk (0 uses the configuration)")

	return cmd
}

func runBatch(cmd *cobra.Command, flags *batchFlags, path string) error {
	ctx := cmd.Context()

	cfg, err := flags.settings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Batch.Concurrency = flags.concurrency
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Batch.BatchSize = flags.batchSize
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	format := cfg.Output.DefaultFormat
	if !cmd.Flags().Changed("output") && format == config.FormatJSON {
		format = config.FormatNDJSON
	}

	eng, err := buildEngine(ctx, cfg.Engine)
	if err != nil {
		return err
	}
	records, err := ingest.Read(ctx, path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := []batch.Option{
		batch.WithConcurrency(cfg.Batch.Concurrency),
		batch.WithBatchSize(cfg.Batch.BatchSize),
	}
	if isTerminal(os.Stderr) {
		opts = append(opts, batch.WithProgressCallback(func(p *batch.Progress) {
			s := p.Snapshot()
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d records (%.0f%%), %d failed",
				s.ProcessedItems, s.TotalItems, s.PercentComplete, s.FailedItems)
			if p.IsComplete() {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr())
			}
		}))
	}
	runner, err := batch.NewRunner(eng, opts...)
	if err != nil {
		return err
	}

	logger.Info().Ctx(ctx).
		Int("records", len(records)).
		Int("concurrency", runner.Concurrency()).
		Int("batch_size", cfg.Batch.BatchSize).
		Msg("batch started")

	runs := runner.Run(ctx, ingest.Dwellings(records))
	results := make([]recordResult, len(runs))
	for i, run := range runs {
		results[i] = recordResult{
			Label:   records[i].Label(),
			Source:  records[i].Source,
			Outputs: run.Outputs,
			Err:     run.Err,
		}
	}

	if err = renderResults(cmd.OutOrStdout(), format, cfg.Output.Precision, results); err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}

	summary := batch.Summarize(runs)
	writeSummary(cmd.ErrOrStderr(), results)
	logger.Info().Ctx(ctx).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("batch complete")

	if summary.Failed > 0 {
		return &ExitError{
			ExitCode: ExitCodeFailedRecords,
			Reason:   fmt.Sprintf("%d of %d records failed", summary.Failed, summary.Total),
		}
	}
	return nil
}

package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/logging"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors of the batch runner. Compare with errors.Is.
var (
	// ErrNilEngine is returned by NewRunner when no engine is supplied.
	ErrNilEngine = constError("batch runner requires an engine")

	// ErrPanic wraps a panic recovered from one record's run.
	ErrPanic = constError("run panicked")
)

// Evaluator runs one dwelling record. *engine.Engine implements it.
type Evaluator interface {
	Run(ctx context.Context, d *dpe.Dwelling) (*dpe.Outputs, error)
}

// ProgressCallback is invoked after each chunk of records completes.
type ProgressCallback func(progress *Progress)

// Result is the outcome of one record.
type Result struct {
	// Index is the position of the record in the input.
	Index int

	// Number is the record's DPE number, possibly empty.
	Number string

	// Outputs is nil only when the run could not start. Under the fail
	// policy it holds the partial outputs next to Err.
	Outputs *dpe.Outputs

	Err error
}

// OK reports whether the record evaluated without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner evaluates many dwelling records concurrently against one engine.
// Records share nothing but the read-only table store, so a failure or a
// panic in one run never affects another.
type Runner struct {
	engine      Evaluator
	concurrency int
	batchSize   int
	onProgress  ProgressCallback
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency caps the number of parallel runs. Zero or less means one
// per CPU.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

// WithBatchSize sets how many records are evaluated per chunk. Zero or less
// runs all records as a single chunk.
func WithBatchSize(n int) Option {
	return func(r *Runner) { r.batchSize = n }
}

// WithProgressCallback registers a callback run after each chunk.
func WithProgressCallback(cb ProgressCallback) Option {
	return func(r *Runner) { r.onProgress = cb }
}

// NewRunner returns a Runner over e.
func NewRunner(e Evaluator, opts ...Option) (*Runner, error) {
	if e == nil {
		return nil, ErrNilEngine
	}
	r := &Runner{engine: e}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency <= 0 {
		r.concurrency = runtime.NumCPU()
	}
	return r, nil
}

// Concurrency returns the effective parallelism.
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Run evaluates every record and returns one Result per record, in input
// order. Cancelling ctx stops scheduling new records; records not started
// report the context error.
func (r *Runner) Run(ctx context.Context, records []*dpe.Dwelling) []Result {
	results := make([]Result, len(records))
	if len(records) == 0 {
		return results
	}

	log := logging.FromContext(ctx)
	chunks := Chunks(len(records), r.batchSize)
	progress := NewProgress(len(records), len(chunks), r.chunkSize(len(records)))

	for ci, bounds := range chunks {
		if err := ctx.Err(); err != nil {
			for i := bounds[0]; i < len(records); i++ {
				results[i] = Result{Index: i, Number: numberOf(records[i]), Err: err}
			}
			break
		}

		// Siblings are never cancelled: every goroutine returns nil and
		// reports its failure through its own Result slot.
		var g errgroup.Group
		g.SetLimit(r.concurrency)
		for i := bounds[0]; i < bounds[1]; i++ {
			g.Go(func() error {
				results[i] = r.runOne(ctx, i, records[i])
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for i := bounds[0]; i < bounds[1]; i++ {
			if results[i].Err != nil {
				failed++
			}
		}
		progress.AddProcessed(bounds[1]-bounds[0], failed)
		log.Debug().
			Str(logging.FieldComponent, "batch").
			Int("chunk", ci).
			Int("processed", progress.Snapshot().ProcessedItems).
			Int("failed", failed).
			Msg("chunk complete")
		if r.onProgress != nil {
			r.onProgress(progress)
		}
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, i int, d *dpe.Dwelling) (res Result) {
	res = Result{Index: i, Number: numberOf(d)}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("record %d: %w: %v", i, ErrPanic, p)
			logging.FromContext(ctx).Error().
				Str(logging.FieldComponent, "batch").
				Str(logging.FieldDwelling, res.Number).
				Int("index", i).
				Interface("panic", p).
				Msg("run panicked")
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Outputs, res.Err = r.engine.Run(ctx, d)
	return res
}

func (r *Runner) chunkSize(total int) int {
	if r.batchSize <= 0 || r.batchSize > total {
		return total
	}
	return r.batchSize
}

func numberOf(d *dpe.Dwelling) string {
	if d == nil {
		return ""
	}
	return d.Number
}

// Chunks returns the [start, end) bounds of consecutive chunks of size
// items covering total records. A size of zero or less yields one chunk.
func Chunks(total, size int) [][2]int {
	if total <= 0 {
		return nil
	}
	if size <= 0 || size > total {
		size = total
	}
	n := (total + size - 1) / size
	bounds := make([][2]int, n)
	for i := range n {
		start := i * size
		bounds[i] = [2]int{start, min(start+size, total)}
	}
	return bounds
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts successes and failures in results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		if res.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/engine"
	"github.com/rshade/dpe3cl/internal/tables"
)

// fakeEvaluator fails records numbered "bad", panics on "boom" and
// records the peak number of concurrent runs.
type fakeEvaluator struct {
	mu      sync.Mutex
	running int
	peak    int
	calls   atomic.Int32
}

var errBad = errors.New("bad record")

func (f *fakeEvaluator) Run(_ context.Context, d *dpe.Dwelling) (*dpe.Outputs, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.running++
	f.peak = max(f.peak, f.running)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()

	switch d.Number {
	case "bad":
		return &dpe.Outputs{}, errBad
	case "boom":
		panic("corrupt record")
	}
	return &dpe.Outputs{TablesVersion: d.Number}, nil
}

func records(numbers ...string) []*dpe.Dwelling {
	out := make([]*dpe.Dwelling, len(numbers))
	for i, n := range numbers {
		out[i] = &dpe.Dwelling{Number: n}
	}
	return out
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(nil)
	require.ErrorIs(t, err, ErrNilEngine)

	r, err := NewRunner(&fakeEvaluator{})
	require.NoError(t, err)
	assert.Positive(t, r.Concurrency())

	r, err = NewRunner(&fakeEvaluator{}, WithConcurrency(3))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Concurrency())
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		text string
	}{
		{name: "nil engine", err: ErrNilEngine, text: "batch runner requires an engine"},
		{name: "panic", err: ErrPanic, text: "run panicked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, constError(""), tt.err)
			assert.EqualError(t, tt.err, tt.text)
			wrapped := fmt.Errorf("record 3: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestRunner_Run(t *testing.T) {
	t.Run("results keep input order", func(t *testing.T) {
		numbers := make([]string, 25)
		for i := range numbers {
			numbers[i] = fmt.Sprintf("dpe-%02d", i)
		}
		r, err := NewRunner(&fakeEvaluator{}, WithConcurrency(4), WithBatchSize(10))
		require.NoError(t, err)

		results := r.Run(context.Background(), records(numbers...))
		require.Len(t, results, 25)
		for i, res := range results {
			assert.Equal(t, i, res.Index)
			assert.Equal(t, numbers[i], res.Number)
			require.NoError(t, res.Err)
			assert.Equal(t, numbers[i], res.Outputs.TablesVersion)
		}
	})

	t.Run("failures do not stop siblings", func(t *testing.T) {
		fake := &fakeEvaluator{}
		r, err := NewRunner(fake, WithConcurrency(2))
		require.NoError(t, err)

		results := r.Run(context.Background(), records("a", "bad", "boom", "b"))
		require.Len(t, results, 4)
		assert.Equal(t, int32(4), fake.calls.Load())

		assert.NoError(t, results[0].Err)
		require.ErrorIs(t, results[1].Err, errBad)
		assert.NotNil(t, results[1].Outputs)
		require.ErrorIs(t, results[2].Err, ErrPanic)
		assert.Contains(t, results[2].Err.Error(), "corrupt record")
		assert.NoError(t, results[3].Err)

		assert.Equal(t, Summary{Total: 4, Succeeded: 2, Failed: 2}, Summarize(results))
	})

	t.Run("concurrency is bounded", func(t *testing.T) {
		fake := &fakeEvaluator{}
		r, err := NewRunner(fake, WithConcurrency(2))
		require.NoError(t, err)

		r.Run(context.Background(), records("1", "2", "3", "4", "5", "6", "7", "8"))
		assert.LessOrEqual(t, fake.peak, 2)
	})

	t.Run("progress per chunk", func(t *testing.T) {
		var snaps []ProgressSnapshot
		r, err := NewRunner(&fakeEvaluator{}, WithBatchSize(2), WithProgressCallback(func(p *Progress) {
			snaps = append(snaps, p.Snapshot())
		}))
		require.NoError(t, err)

		r.Run(context.Background(), records("1", "bad", "3", "4", "5"))
		require.Len(t, snaps, 3)
		last := snaps[2]
		assert.Equal(t, 5, last.ProcessedItems)
		assert.Equal(t, 1, last.FailedItems)
		assert.Equal(t, 3, last.ProcessedBatches)
		assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
	})

	t.Run("cancelled context", func(t *testing.T) {
		fake := &fakeEvaluator{}
		r, err := NewRunner(fake)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		results := r.Run(ctx, records("1", "2"))
		require.Len(t, results, 2)
		for _, res := range results {
			require.ErrorIs(t, res.Err, context.Canceled)
		}
		assert.Zero(t, fake.calls.Load())
	})

	t.Run("empty input", func(t *testing.T) {
		r, err := NewRunner(&fakeEvaluator{})
		require.NoError(t, err)
		assert.Empty(t, r.Run(context.Background(), nil))
	})
}

func TestRunner_WithEngine(t *testing.T) {
	store, err := tables.Default()
	require.NoError(t, err)
	e, err := engine.New(store)
	require.NoError(t, err)

	r, err := NewRunner(e, WithConcurrency(2))
	require.NoError(t, err)

	results := r.Run(context.Background(), []*dpe.Dwelling{nil, {Number: "sans-surface"}})
	require.Len(t, results, 2)
	require.ErrorIs(t, results[0].Err, engine.ErrNilDwelling)
	require.ErrorIs(t, results[1].Err, engine.ErrStructural)
	assert.Equal(t, "sans-surface", results[1].Number)
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  [][2]int
	}{
		{name: "even", total: 4, size: 2, want: [][2]int{{0, 2}, {2, 4}}},
		{name: "remainder", total: 5, size: 2, want: [][2]int{{0, 2}, {2, 4}, {4, 5}}},
		{name: "unbounded", total: 3, size: 0, want: [][2]int{{0, 3}}},
		{name: "oversized", total: 3, size: 10, want: [][2]int{{0, 3}}},
		{name: "empty", total: 0, size: 2, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunks(tt.total, tt.size))
		})
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress(10, 2, 5)
	assert.Zero(t, p.PercentComplete())
	assert.Zero(t, p.EstimatedTimeRemaining())
	assert.False(t, p.IsComplete())

	p.AddProcessed(5, 1)
	assert.InDelta(t, 50.0, p.PercentComplete(), 1e-9)

	p.AddProcessed(5, 0)
	assert.True(t, p.IsComplete())
	snap := p.Snapshot()
	assert.Equal(t, 1, snap.FailedItems)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.Zero(t, p.EstimatedTimeRemaining())
}

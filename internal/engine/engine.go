// Package engine runs the 3CL-DPE calculation chapters over one dwelling
// record: context, envelope losses, free gains and needs, cooling, heating
// and hot water generation, then final and primary consumption and labels.
//
// An Engine is immutable once built and may be shared by many goroutines;
// every call to Run works on its own state.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/logging"
	"github.com/rshade/dpe3cl/internal/tables"
)

// MissingPolicy decides what a run does when a reference value is missing.
type MissingPolicy int

const (
	// MissingWarn records a diagnostic and continues with an undefined value.
	MissingWarn MissingPolicy = iota

	// MissingFail aborts the run at the end of the stage that hit the gap.
	MissingFail
)

// String returns the configuration spelling of the policy.
func (p MissingPolicy) String() string {
	if p == MissingFail {
		return "fail"
	}
	return "warn"
}

// ParseMissingPolicy parses "warn" or "fail". An empty string means warn.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return MissingWarn, nil
	case "fail":
		return MissingFail, nil
	default:
		return MissingWarn, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithCompatMode reproduces the reference engine's documented defects.
func WithCompatMode(on bool) Option {
	return func(e *Engine) { e.compat = on }
}

// WithMissingPolicy sets the missing reference value policy.
func WithMissingPolicy(p MissingPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// Engine evaluates dwelling records against one reference table set.
type Engine struct {
	store  *tables.Store
	compat bool
	policy MissingPolicy
}

// requiredTables lists every table a run may consult.
//
//nolint:gochecknoglobals // read-only list
var requiredTables = []string{
	tblMethod, tblZone, tblClimate, tblTbase,
	tblB, tblUvue, tblBLnc, tblBEts, tblEtsTransparency,
	tblUmur0, tblUpb0, tblUph0, tblUForfait, tblUe, tblUporte, tblInsulationType,
	tblUg, tblUw, tblUjn, tblClosure, tblSw, tblNearMask, tblFarMask, tblC1,
	tblBridge, tblVentilation, tblQ4Pa, tblInertia,
	tblGenCh, tblGenEcs, tblGenFr, tblScop, tblCopEcs, tblEer, tblCombustion,
	tblTfonc, tblLoadShare, tblFlatEfficiency, tblEmitter, tblIntermittence,
	tblBackupCoverage, tblAuxGeneration, tblCirculator, tblDhwDistribution, tblEnergy,
}

// New returns an Engine over store. Every table the chapters consult must
// be present, so a swapped table set is rejected here rather than during
// a run.
func New(store *tables.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	for _, name := range requiredTables {
		if _, err := store.Table(name); err != nil {
			return nil, err
		}
	}
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// CompatMode reports whether the engine reproduces reference defects.
func (e *Engine) CompatMode() bool {
	return e.compat
}

// Policy returns the missing reference value policy.
func (e *Engine) Policy() MissingPolicy {
	return e.policy
}

// Store returns the reference table store.
func (e *Engine) Store() *tables.Store {
	return e.store
}

// Run evaluates d and attaches the result to d.Outputs. Any previous
// Outputs are discarded first, so running twice on the same input yields
// identical results. Under MissingFail the partial outputs are returned
// together with an error wrapping ErrMissingReferenceValue.
func (e *Engine) Run(ctx context.Context, d *dpe.Dwelling) (*dpe.Outputs, error) {
	if d == nil {
		return nil, ErrNilDwelling
	}

	base := logging.FromContext(ctx)
	logger := base.With().
		Str(logging.FieldComponent, "engine").
		Str(logging.FieldRunID, logging.NewID()).
		Str(logging.FieldDwelling, d.Number).
		Logger()
	start := time.Now()

	r := newRun(e, d, &logger)
	for _, st := range stages {
		r.stage = st.name
		logger.Debug().
			Str(logging.FieldOperation, "run").
			Str(logging.FieldStage, st.name).
			Msg("stage start")

		if err := st.fn(r); err != nil {
			d.Outputs = r.out
			logger.Error().Err(err).Str(logging.FieldStage, st.name).Msg("run failed")
			return r.out, fmt.Errorf("dwelling %q, stage %s: %w", d.Number, st.name, err)
		}
		if e.policy == MissingFail && r.missingCount > 0 {
			d.Outputs = r.out
			return r.out, fmt.Errorf("dwelling %q, stage %s: %w (%d values)",
				d.Number, st.name, ErrMissingReferenceValue, r.missingCount)
		}
	}

	d.Outputs = r.out
	logger.Info().
		Str(logging.FieldOperation, "run").
		Float64("gv", float64(r.out.Losses.GV)).
		Float64("cep_m2", float64(r.out.Labels.PrimaryPerM2)).
		Str("classe", r.out.Labels.Class).
		Int("diagnostics", len(r.out.Diagnostics)).
		Int64(logging.FieldDuration, time.Since(start).Milliseconds()).
		Msg("run complete")
	return r.out, nil
}

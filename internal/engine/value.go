package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
)

// Value is a computed coefficient that may be missing. A missing value
// carries the diagnostic explaining why; its float is NaN so arithmetic
// that ignores the marker still propagates an undefined result.
type Value struct {
	Float   float64
	Missing *dpe.Diagnostic
}

// Known wraps a computed float.
func Known(v float64) Value {
	return Value{Float: v}
}

func missing(d *dpe.Diagnostic) Value {
	return Value{Float: math.NaN(), Missing: d}
}

// OK reports whether the value is present and finite.
func (v Value) OK() bool {
	return v.Missing == nil && !math.IsNaN(v.Float) && !math.IsInf(v.Float, 0)
}

// Get returns the float, NaN when missing.
func (v Value) Get() float64 {
	if v.Missing != nil {
		return math.NaN()
	}
	return v.Float
}

// Or returns the float, or def when the value is not OK.
func (v Value) Or(def float64) float64 {
	if !v.OK() {
		return def
	}
	return v.Float
}

// Map applies f to a present value and keeps the marker otherwise.
func (v Value) Map(f func(float64) float64) Value {
	if v.Missing != nil {
		return v
	}
	return Known(f(v.Float))
}

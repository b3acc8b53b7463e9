package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/dpe"
)

func TestNadeqIndividual(t *testing.T) {
	tests := []struct {
		sh   float64
		want float64
	}{
		{sh: 8, want: 1},
		{sh: 45, want: 1.28125},
		{sh: 70, want: 1.75},
		{sh: 75, want: 1.7875},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, nadeqIndividual(tt.sh), 1e-9, "sh=%v", tt.sh)
	}
}

func TestNadeqCollective(t *testing.T) {
	// Ten apartments of 80 m2: 2.8 adults each before the cap.
	assert.InDelta(t, 10*(1.75+0.3*(2.8-1.75)), nadeqCollective(800, 10), 1e-9)
	assert.InDelta(t, 4.0, nadeqCollective(20, 4), 1e-9)
}

func TestGainUtilisation(t *testing.T) {
	t.Run("no degree hours", func(t *testing.T) {
		assert.Zero(t, gainUtilisation(500, 200, 0, 2.5))
	})

	t.Run("balanced month uses the limit", func(t *testing.T) {
		assert.InDelta(t, 1.5/2.5, utilisation(1, 2.5), 1e-12)
		assert.InDelta(t, 1.5/2.5, gainUtilisation(1000, 10, 100, 2.5), 1e-12)
	})

	for _, a := range []float64{2.5, 2.9, 3.6} {
		t.Run(fmt.Sprintf("continuous around one with a=%.1f", a), func(t *testing.T) {
			assert.InDelta(t, (a-1)/a, utilisation(1, a), 1e-12)
			assert.InDelta(t, utilisation(1, a), utilisation(1+1e-6, a), 1e-5)
			assert.InDelta(t, utilisation(1, a), utilisation(1-1e-6, a), 1e-5)
		})
	}

	t.Run("bounded", func(t *testing.T) {
		for _, x := range []float64{0.1, 0.5, 2, 10} {
			f := utilisation(x, 2.5)
			assert.Greater(t, f, 0.0)
			assert.LessOrEqual(t, f, 1.0)
		}
	})
}

func TestHeatingNeed(t *testing.T) {
	assert.Zero(t, heatingNeed(200, 0.2, 0))
	assert.InDelta(t, 200*0.8*10000/1000, heatingNeed(200, 0.2, 10000), 1e-9)
}

func TestStorageLoss(t *testing.T) {
	assert.Zero(t, storageLoss(0))
	want := 67.662 * math.Pow(200, 0.55) * 365 / 1000
	assert.InDelta(t, want, storageLoss(200), 1e-9)
}

func TestSurfaceShares(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{name: "by surface", in: []float64{60, 20, 20}, want: []float64{0.6, 0.2, 0.2}},
		{name: "equal when unknown", in: []float64{0, 0}, want: []float64{0.5, 0.5}},
		{name: "single", in: []float64{0}, want: []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := surfaceShares(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestWeightedEmitters(t *testing.T) {
	ems := []emitterData{
		{reference: "a", re: 0.9, rd: 0.9, rr: 0.9, i0: 1, surface: 30, category: "basse_temperature"},
		{reference: "b", re: 0.95, rd: 0.95, rr: 0.95, i0: 0.9, surface: 70, category: "haute_temperature"},
	}
	eff := weightedEmitters(ems)
	assert.InDelta(t, 0.3*0.9+0.7*0.95, eff.re, 1e-12)
	assert.InDelta(t, 0.3*1+0.7*0.9, eff.i0, 1e-12)
	assert.InDelta(t, 100.0, eff.surface, 1e-12)
	assert.Equal(t, "haute_temperature", eff.category)

	all, linked := servedBy(ems, "nobody")
	assert.Len(t, all, 2)
	assert.False(t, linked)
	ems[1].generator = "g1"
	linkedOnly, linked := servedBy(ems, "g1")
	require.Len(t, linkedOnly, 1)
	assert.True(t, linked)
	assert.Equal(t, "b", linkedOnly[0].reference)
}

func TestCombustionLoss(t *testing.T) {
	p := combustionPerf{pn: 20, rpn: 0.9, rpint: 0.95, qp0: 0.2}
	assert.InDelta(t, 0.2, p.loss(0), 1e-12)
	assert.InDelta(t, intermediateLoad*20*(0.05/0.95), p.loss(intermediateLoad), 1e-12)
	assert.InDelta(t, 20*(0.1/0.9), p.loss(1), 1e-12)
}

func TestValue(t *testing.T) {
	known := Known(2)
	assert.True(t, known.OK())
	assert.InDelta(t, 4.0, known.Map(func(v float64) float64 { return v * 2 }).Get(), 1e-12)

	gap := missing(&dpe.Diagnostic{Kind: dpe.MissingReferenceValue, Table: "ug"})
	assert.False(t, gap.OK())
	assert.True(t, math.IsNaN(gap.Get()))
	assert.InDelta(t, 1.0, gap.Or(1), 1e-12)
	assert.Same(t, gap.Missing, gap.Map(math.Sqrt).Missing)
}

func TestBackupCoverage(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	_, err := e.Run(t.Context(), d)
	require.NoError(t, err)

	r := newRun(e, d, nopLogger())
	require.NoError(t, r.reset())
	require.NoError(t, r.buildContext())
	require.NoError(t, r.envelope())

	assert.InDelta(t, 1.0, r.backupCoverage("ch-1", 0, 1), 1e-9)
	assert.InDelta(t, 0.0, r.backupCoverage("ch-1", 1e6, 1), 1e-9)

	mid := r.backupCoverage("ch-1", r.designPower(1)/2, 1)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)
	assert.Empty(t, r.out.Diagnostics)
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestGenerationAuxiliary(t *testing.T) {
	e := newTestEngine(t)
	r := newRun(e, houseFixture(), nopLogger())
	require.NoError(t, r.reset())

	const need = 1000.0
	tests := []struct {
		name     string
		kind     generatorKind
		pn       float64
		external bool
		want     float64
	}{
		{name: "standard boiler", kind: generatorKind{familyCombustion, subStandard}, pn: 10, want: (20 + 1.6*10) * (need / 10) / 1000},
		{name: "boiler keeps its own row with a circulator", kind: generatorKind{familyCombustion, subStandard}, pn: 10, external: true, want: (20 + 1.6*10) * (need / 10) / 1000},
		{name: "warm air generator", kind: generatorKind{familyCombustion, subWarmAir}, pn: 10, want: (30 + 1*10) * (need / 10) / 1000},
		{name: "air to air heat pump", kind: generatorKind{familyHeatPump, subAirToAir}, pn: 10, want: 0},
		{name: "air to air heat pump with circulator", kind: generatorKind{familyHeatPump, subAirToAir}, pn: 10, external: true, want: 30 * (need / 10) / 1000},
		{name: "stove", kind: generatorKind{familyOther, subStove}, pn: 8, want: 0},
		{name: "stove with circulator", kind: generatorKind{familyOther, subStove}, pn: 8, external: true, want: 30 * (need / 8) / 1000},
		{name: "gas radiator", kind: generatorKind{familyCombustion, subGasRadiator}, pn: 5, want: 0},
		{name: "joule effect", kind: generatorKind{familyDirectElectric, subJoule}, pn: 5, want: 0},
		{name: "joule effect with circulator", kind: generatorKind{familyDirectElectric, subJoule}, pn: 5, external: true, want: 30 * (need / 5) / 1000},
		{name: "no nominal power", kind: generatorKind{familyCombustion, subStandard}, pn: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := &generatorPlan{
				g:    &dpe.HeatingGenerator{ExternalCirculator: tt.external},
				ref:  "gen",
				kind: tt.kind,
				pn:   tt.pn,
			}
			assert.InDelta(t, tt.want, r.generationAuxiliary(gp, need), 1e-12)
		})
	}
	assert.Empty(t, r.out.Diagnostics)
}

package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

const (
	airHeatCapacity = 0.34 // Wh/m3.K
	hoursPerYear    = 8760

	// Wind exposure coefficients e and f of the infiltration model.
	exposureSeveralE = 0.07
	exposureSeveralF = 15
	exposureSingleE  = 0.02
	exposureSingleF  = 20
)

// ventilation computes the renewal losses of every ventilation system and
// returns their sums.
func (r *run) ventilation() (hvent, hperm, aux float64) {
	vents := r.d.Ventilations
	r.out.Envelope.Ventilations = make([]dpe.VentOutput, len(vents))
	sdep := r.exposedSurface()

	for i := range vents {
		v := &vents[i]
		out := r.ventilationSystem(v, sdep)
		r.out.Envelope.Ventilations[i] = out
		hvent += float64(out.Hvent)
		hperm += float64(out.Hperm)
		aux += float64(out.Auxiliary)
	}
	return hvent, hperm, aux
}

func (r *run) ventilationSystem(v *dpe.Ventilation, sdep float64) dpe.VentOutput {
	sh := r.ctx.Sh
	hsp := r.ctx.Hsp
	sv := v.Surface
	if sv <= 0 {
		sv = sh
	}

	row, diag := r.row(v.Reference, tblVentilation, tables.Where("enum_type_ventilation_id", v.VentilationType))
	col := func(name string) float64 {
		if diag != nil {
			return math.NaN()
		}
		return r.column(v.Reference, tblVentilation, row, name).Get()
	}
	qvarep := col("qvarep_conv")
	qvasouf := col("qvasouf_conv")
	smea := col("smea_conv")
	pvent := col("pvent")
	eta := col("rendement_echangeur")

	q4paConv := v.Q4PaConvEntered
	if q4paConv <= 0 {
		c := tables.Where("type_habitation", r.ctx.HabitationType).
			And("enum_periode_construction_id", r.ctx.Period)
		q4paConv = r.lookup(v.Reference, tblQ4Pa, c, "q4pa_conv").Get()
	}

	hvent := airHeatCapacity * qvarep * sv * (1 - eta)
	q4pa := q4paConv*sdep*sv/sh + 0.45*smea*sv
	n50 := q4pa / (math.Pow(4.0/50, 2.0/3) * hsp * sv)

	e, f := exposureSingleE, float64(exposureSingleF)
	if v.SeveralFacades {
		e, f = exposureSeveralE, exposureSeveralF
	}
	var qvinf float64
	if n50 > 0 {
		d := (qvasouf - qvarep) / (hsp * n50)
		qvinf = hsp * sv * n50 * e / (1 + f/e*d*d)
	} else if math.IsNaN(n50) {
		qvinf = math.NaN()
	}
	hperm := airHeatCapacity * qvinf
	aux := pvent * qvarep * sv * hoursPerYear / 1000

	return dpe.VentOutput{
		Reference: v.Reference,
		Hvent:     dpe.Float(hvent),
		Hperm:     dpe.Float(hperm),
		Q4Pa:      dpe.Float(q4pa),
		N50:       dpe.Float(n50),
		Auxiliary: dpe.Float(aux),
	}
}

// exposedSurface is the loss surface used by the air permeability model:
// walls, roofs, windows and doors. Lower floors are excluded.
func (r *run) exposedSurface() float64 {
	env := &r.d.Envelope
	var s float64
	for i := range env.Walls {
		s += env.Walls[i].Surface
	}
	for i := range env.UpperFloors {
		s += env.UpperFloors[i].Surface
	}
	for i := range env.Windows {
		s += env.Windows[i].Surface
	}
	for i := range env.Doors {
		s += env.Doors[i].Surface
	}
	return s
}

package engine

import (
	"fmt"
	"math"

	"github.com/rshade/dpe3cl/internal/tables"
)

// Boiler model constants.
const (
	// sizingFactor is the oversizing applied to the design heat loss when
	// a generator's nominal power is not entered.
	sizingFactor = 1.2

	// sizingEfficiency is the cube of the emission, distribution and
	// regulation efficiencies assumed for sizing.
	sizingEfficiency = 0.95 * 0.95 * 0.95

	heatingSetpoint    = 19.0
	defaultDhwPn       = 24.0 // kW
	defaultTempClassID = "1"

	intermediateLoad = 0.3
)

// combustionPerf is the part-load performance of a boiler, at nominal
// power Pn in kW. Efficiencies are fractions on net calorific value.
type combustionPerf struct {
	pn    float64
	rpn   float64
	rpint float64
	qp0   float64 // kW
	pveil float64 // W
}

// loadPoints are the load ratios of the repartition_charge columns.
//
//nolint:gochecknoglobals // read-only load ratios
var loadPoints = [...]float64{0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95}

type enteredPerf struct {
	rpn, rpint, qp0, pveil float64
}

// combustion resolves the boiler characteristics of sub-model sub
// installed in year, overridden by the entered values.
func (r *run) combustion(ref, sub string, year int, pn float64, in enteredPerf) (combustionPerf, bool) {
	p := combustionPerf{pn: pn}
	c := tables.Where("sous_type", sub).Near("annee_installation", float64(year))
	row, diag := r.row(ref, tblCombustion, c)
	if diag != nil {
		return p, false
	}
	ok := true
	col := func(name string) float64 {
		v := r.column(ref, tblCombustion, row, name)
		if !v.OK() {
			ok = false
		}
		return v.Get()
	}
	lp := math.Log10(pn)
	p.rpn = (col("rpn_a") + col("rpn_b")*lp) / 100
	p.rpint = (col("rpint_a") + col("rpint_b")*lp) / 100
	p.qp0 = pn * (col("qp0_e") + col("qp0_f")*lp) / 100
	p.pveil = col("pveil")

	if in.rpn > 0 {
		p.rpn = in.rpn / 100
	}
	if in.rpint > 0 {
		p.rpint = in.rpint / 100
	}
	if in.qp0 > 0 {
		p.qp0 = in.qp0
	}
	if in.pveil > 0 {
		p.pveil = in.pveil
	}
	return p, ok
}

// correctForTemperature adjusts the full and intermediate load
// efficiencies to the operating temperatures of the emitters.
func (r *run) correctForTemperature(ref, sub, tempClass string, p *combustionPerf) {
	if tempClass == "" {
		tempClass = defaultTempClassID
	}
	switch sub {
	case subStandard, subLowTemp, subCondensing:
	default:
		return
	}
	row, diag := r.row(ref, tblTfonc, tables.Where("enum_temp_distribution_ch_id", tempClass))
	if diag != nil {
		return
	}
	t100 := r.column(ref, tblTfonc, row, "tfonc100")
	t30 := r.column(ref, tblTfonc, row, "tfonc30")
	if !t100.OK() || !t30.OK() {
		return
	}
	p.rpn += 0.001 * (70 - t100.Float)
	if sub == subCondensing {
		p.rpint += 0.002 * (33 - t30.Float)
		return
	}
	p.rpint += 0.001 * (50 - t30.Float)
}

// loss is the boiler loss at load ratio x, kW, interpolated between the
// standby, intermediate and full load points.
func (p *combustionPerf) loss(x float64) float64 {
	lossInt := intermediateLoad * p.pn * (1 - p.rpint) / p.rpint
	lossFull := p.pn * (1 - p.rpn) / p.rpn
	if x <= intermediateLoad {
		return p.qp0 + (lossInt-p.qp0)*x/intermediateLoad
	}
	return lossInt + (lossFull-lossInt)*(x-intermediateLoad)/(1-intermediateLoad)
}

// seasonalEfficiency is the generation efficiency on net calorific value,
// averaged over the load distribution of the climate group.
func (r *run) seasonalEfficiency(ref string, p *combustionPerf) Value {
	row, diag := r.row(ref, tblLoadShare, tables.Where("groupe", r.ctx.Group))
	if diag != nil {
		return missing(diag)
	}
	var useful, input float64
	for _, x := range loadPoints {
		col := fmt.Sprintf("x%02d", int(math.Round(x*100)))
		w := r.column(ref, tblLoadShare, row, col)
		if !w.OK() {
			return w
		}
		useful += w.Float * x
		input += w.Float * (x + p.loss(x)/p.pn)
	}
	if input <= 0 {
		return Known(0)
	}
	return Known(useful / input)
}

// designPower is the default nominal power, kW, sized on the design loss
// of a share of the dwelling.
func (r *run) designPower(share float64) float64 {
	return sizingFactor * r.gv * (heatingSetpoint - r.ctx.Tbase) / (1000 * sizingEfficiency) * share
}

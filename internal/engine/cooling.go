package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

const (
	coolingSetpoint      = 28.0
	coolingSetpointSpend = 26.0

	// coolingRatioFloor is the gain-to-loss ratio below which no cooling
	// is needed.
	coolingRatioFloor = 0.5

	// coolingConsumptionFactor corrects the cooling need for the share
	// effectively met by the system.
	coolingConsumptionFactor = 0.9
)

// coolingNeed is the monthly cooling need, kWh, for an indoor setpoint and
// its reference hours.
func (r *run) coolingNeed(tint float64, nref dpe.Monthly, sse dpe.Monthly) dpe.Monthly {
	var b dpe.Monthly
	cl := &r.ctx.Climate
	ai := r.internalGains(nref)
	tau := r.inertia.cm * r.ctx.Sh / (3600 * r.gv)
	a := 1 + tau/15

	for j := range b {
		if nref[j] == 0 {
			continue
		}
		gains := ai[j] + 1000*sse[j]*cl.E[j]
		loss := r.gv * (tint - cl.TextFr[j]) * nref[j]
		if loss <= 0 {
			b[j] = (gains - loss) / 1000
			continue
		}
		ratio := gains / loss
		if ratio < coolingRatioFloor {
			continue
		}
		b[j] = math.Max(0, (gains-coolingUtilisation(ratio, a)*loss)/1000)
	}
	return b
}

// coolingUtilisation is the utilisation factor of losses in summer.
func coolingUtilisation(ratio, a float64) float64 {
	if ratio == 1 {
		return a / (a + 1)
	}
	return (1 - math.Pow(ratio, -a)) / (1 - math.Pow(ratio, -(a+1)))
}

// cooling computes the consumption of every cooling generator.
func (r *run) cooling() error {
	installs := r.d.Cooling
	r.out.Installations.Cooling = make([]dpe.CoolingOutput, 0, len(installs))
	need := r.needs.cooling.Sum()
	needSpend := r.needs.coolingSpend.Sum()

	for i := range installs {
		inst := &installs[i]
		if len(inst.Generators) == 0 {
			continue
		}
		n := float64(len(inst.Generators))
		surface := inst.Surface
		if surface <= 0 {
			surface = r.ctx.Sh
		}
		share := math.Min(1, surface/r.ctx.Sh) / n

		for j := range inst.Generators {
			g := &inst.Generators[j]
			ref := g.Reference
			if ref == "" {
				ref = inst.Reference
			}
			r.coolingFamily(ref, g.GeneratorType)
			eer := Known(g.EEREntered)
			if g.EEREntered <= 0 {
				c := tables.Where("groupe", r.ctx.Group).Near("annee_installation", float64(g.InstallationYear))
				eer = r.lookup(ref, tblEer, c, "eer")
			}
			cons := coolingConsumptionFactor * need * share / eer.Get()
			consSpend := coolingConsumptionFactor * needSpend * share / eer.Get()
			r.addConsumption(ref, useCooling, g.Energy, cons, consSpend)
			r.out.Installations.Cooling = append(r.out.Installations.Cooling, dpe.CoolingOutput{
				Reference:        ref,
				Share:            dpe.Float(share),
				EER:              dpe.Float(eer.Get()),
				Energy:           g.Energy,
				Consumption:      dpe.Float(cons),
				ConsumptionSpend: dpe.Float(consSpend),
			})
		}
	}
	return nil
}

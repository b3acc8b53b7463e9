package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Hot water generator constants.
const (
	// storageLossCoefficient and storageLossExponent give the daily
	// standby loss of a storage tank, Wh, from its volume in litres.
	storageLossCoefficient = 67.662
	storageLossExponent    = 0.55

	daysPerYear = 365.0

	// Combustion hot water losses: hours of standby per year and the
	// pilot light running hours.
	dhwStandbyHours = 1790.0
	dhwPilotHours   = 6970.0
)

// hotWater computes every hot water installation's consumption and returns
// the storage losses recovered as heating gains, kWh.
func (r *run) hotWater() (float64, float64) {
	installs := r.d.HotWater
	r.out.Installations.HotWater = make([]dpe.DHWOutput, len(installs))
	if len(installs) == 0 {
		return 0, 0
	}

	surfaces := make([]float64, len(installs))
	for i := range installs {
		surfaces[i] = installs[i].Surface
	}
	shares := surfaceShares(surfaces)

	var rec, recSpend float64
	for i := range installs {
		out, q, qSpend := r.hotWaterInstallation(&installs[i], shares[i])
		r.out.Installations.HotWater[i] = out
		rec += q
		recSpend += qSpend
	}
	return rec, recSpend
}

func (r *run) hotWaterInstallation(inst *dpe.DHWInstallation, share float64) (dpe.DHWOutput, float64, float64) {
	ref := inst.Reference
	instType := inst.InstallationType
	if instType == "" {
		instType = dpe.InstallationIndividual
	}
	c := tables.Where("enum_type_installation_id", instType).
		And("production_volume_habitable", boolID(inst.InHeatedVolume)).
		And("pieces_alimentees_contigues", boolID(inst.ContiguousRooms))
	rd := r.lookup(ref, tblDhwDistribution, c, "rd").Get()

	out := dpe.DHWOutput{
		Reference:  ref,
		Share:      dpe.Float(share),
		Rd:         dpe.Float(rd),
		Generators: make([]dpe.DHWGeneratorOutput, len(inst.Generators)),
	}
	if len(inst.Generators) == 0 {
		return out, 0, 0
	}

	n := float64(len(inst.Generators))
	need := r.needs.dhw.Sum() * share / n
	needSpend := r.needs.dhwSpend.Sum() * share / n
	cl := &r.ctx.Climate

	var rec, recSpend float64
	for j := range inst.Generators {
		g := &inst.Generators[j]
		gref := g.Reference
		if gref == "" {
			gref = ref
		}
		kind := r.generatorKind(gref, tblGenEcs, "enum_type_generateur_ecs_id", g.GeneratorType)
		rg := r.hotWaterEfficiency(gref, kind, g, need).Get()
		rgSpend := rg
		if kind.family == familyCombustion {
			rgSpend = r.hotWaterEfficiency(gref, kind, g, needSpend).Get()
		}

		loss := storageLoss(g.StorageVolume)
		rs, rsSpend := 1.0, 1.0
		if loss > 0 {
			rs = need / (need + loss)
			rsSpend = needSpend / (needSpend + loss)
			if g.InHeatedVolume || inst.InHeatedVolume {
				rec += recoveredFraction * loss * cl.Nref19.Sum() / hoursPerYear
				recSpend += recoveredFraction * loss * cl.Nref21.Sum() / hoursPerYear
			}
		}

		cons := need / (rg * rd * rs)
		consSpend := needSpend / (rgSpend * rd * rsSpend)
		r.addConsumption(gref, useHotWater, g.Energy, cons, consSpend)

		out.Generators[j] = dpe.DHWGeneratorOutput{
			Reference:        gref,
			Family:           string(kind.family),
			SubType:          kind.subType,
			Energy:           g.Energy,
			Rg:               dpe.Float(rg),
			RgSpend:          dpe.Float(rgSpend),
			Rs:               dpe.Float(rs),
			RsSpend:          dpe.Float(rsSpend),
			StorageLoss:      dpe.Float(loss),
			Consumption:      dpe.Float(cons),
			ConsumptionSpend: dpe.Float(consSpend),
		}
		out.Consumption += dpe.Float(cons)
		out.ConsumptionSpend += dpe.Float(consSpend)
	}
	return out, rec, recSpend
}

// hotWaterEfficiency is the generation efficiency on gross calorific
// value for a yearly need, kWh.
func (r *run) hotWaterEfficiency(ref string, kind generatorKind, g *dpe.DHWGenerator, need float64) Value {
	switch kind.family {
	case familyHeatPump:
		if g.CopEntered > 0 {
			return Known(g.CopEntered)
		}
		c := tables.Where("groupe", r.ctx.Group).
			And("sous_type", kind.subType).
			Near("annee_installation", float64(g.InstallationYear))
		return r.lookup(ref, tblCopEcs, c, "cop")
	case familyCombustion:
		pn := g.Pn
		if pn <= 0 {
			pn = defaultDhwPn
		}
		perf, ok := r.combustion(ref, kind.subType, g.InstallationYear, pn, enteredPerf{
			rpn: g.RpnEntered, qp0: g.QP0Entered, pveil: g.PveilEntered,
		})
		if !ok {
			return Value{Float: math.NaN()}
		}
		rg := perf.rpn
		if need > 0 {
			rg = 1 / (1/perf.rpn + (dhwStandbyHours*perf.qp0+dhwPilotHours*perf.pveil/1000)/need)
		}
		ratio := r.calorificRatio(ref, g.Energy)
		return Known(rg).Map(func(v float64) float64 { return v / ratio.Get() })
	default:
		return r.flatEfficiency(ref, usageHotWater, g.GeneratorType)
	}
}

// storageLoss is the yearly standby loss of a tank, kWh.
func storageLoss(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return storageLossCoefficient * math.Pow(volume, storageLossExponent) * daysPerYear / 1000
}

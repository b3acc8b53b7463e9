package engine

import (
	"math"
	"sort"
	"strconv"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/greenops"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Uses of final energy, keyed like the emission factor columns.
const (
	useHeating         = "ch"
	useHotWater        = "ecs"
	useCooling         = "fr"
	useLighting        = "ecl"
	useAuxGeneration   = "aux_generation"
	useAuxDistribution = "aux_distribution"
	useAuxVentilation  = "aux_ventilation"

	electricityID = "1"
)

// Lighting: the share of dark hours lit and the installed power, W/m2.
const (
	lightingUsage = 0.9
	lightingPower = 1.4
)

// consumption is the final energy of one use by one element, kWh.
type consumption struct {
	source     string
	use        string
	energy     string
	final      float64
	finalSpend float64
}

// useTotals accumulates the final consumptions in the order they arise.
type useTotals struct {
	entries []consumption
}

func (r *run) addConsumption(source, use, energy string, std, spend float64) {
	r.use.entries = append(r.use.entries, consumption{
		source:     source,
		use:        use,
		energy:     energy,
		final:      std,
		finalSpend: spend,
	})
}

// emissionColumn is the energie column holding the emission factor of use.
func emissionColumn(use string) string {
	switch use {
	case useHeating, useHotWater, useCooling, useLighting:
		return "fe_" + use
	default:
		return "fe_aux"
	}
}

// energyFactors are the conversion factors of one energy carrier.
type energyFactors struct {
	label   string
	primary Value
	row     tables.Row
	ok      bool
}

// finalize converts final consumption to primary energy and emissions,
// totals them by use and by energy and grades the dwelling.
func (r *run) finalize() error {
	cl := &r.ctx.Climate
	lighting := lightingUsage * lightingPower * r.ctx.Sh * cl.Nhecl.Sum() / 1000
	r.addConsumption("eclairage", useLighting, electricityID, lighting, lighting)

	factors := make(map[string]*energyFactors)
	energyOf := func(ref, id string) *energyFactors {
		if f, ok := factors[id]; ok {
			return f
		}
		f := &energyFactors{}
		row, diag := r.row(ref, tblEnergy, tables.Where("enum_type_energie_id", id))
		if diag == nil {
			f.row, f.ok = row, true
			f.label, _ = row.Label("libelle")
			f.primary = r.column(ref, tblEnergy, row, "coef_ep")
		} else {
			f.primary = missing(diag)
		}
		factors[id] = f
		return f
	}

	var final, primary, emissions breakdown
	byEnergy := make(map[string]*dpe.EnergyOutput)
	for _, c := range r.use.entries {
		f := energyOf(c.source, c.energy)
		ep := f.primary.Get()
		fe := math.NaN()
		if f.ok {
			fe = r.column(c.source, tblEnergy, f.row, emissionColumn(c.use)).Get()
		}

		final.add(c.use, c.final, c.finalSpend)
		primary.add(c.use, c.final*ep, c.finalSpend*ep)
		emissions.add(c.use, c.final*fe, c.finalSpend*fe)

		e, ok := byEnergy[c.energy]
		if !ok {
			e = &dpe.EnergyOutput{Energy: c.energy, Label: f.label}
			byEnergy[c.energy] = e
		}
		e.Final += dpe.Float(c.final)
		e.Primary += dpe.Float(c.final * ep)
		e.Emission += dpe.Float(c.final * fe)
	}

	r.out.Final = final.output(r.ctx.Sh)
	r.out.Primary = primary.output(r.ctx.Sh)
	r.out.Emissions = emissions.output(r.ctx.Sh)
	r.out.ByEnergy = sortedEnergies(byEnergy)

	rating := greenops.Rate(float64(r.out.Primary.PerSquareMeter), float64(r.out.Emissions.PerSquareMeter))
	r.out.Labels = dpe.LabelOutput{
		PrimaryPerM2:  dpe.Float(rating.PrimaryEnergy),
		EmissionPerM2: dpe.Float(rating.Emissions),
		EnergyClass:   rating.EnergyClass.String(),
		EmissionClass: rating.EmissionClass.String(),
		Class:         rating.Class.String(),
	}
	return nil
}

func sortedEnergies(m map[string]*dpe.EnergyOutput) []dpe.EnergyOutput {
	out := make([]dpe.EnergyOutput, 0, len(m))
	for _, e := range m {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].Energy)
		b, errB := strconv.Atoi(out[j].Energy)
		if errA != nil || errB != nil {
			return out[i].Energy < out[j].Energy
		}
		return a < b
	})
	return out
}

// breakdown sums one quantity by use.
type breakdown struct {
	std   map[string]float64
	spend map[string]float64
}

func (b *breakdown) add(use string, std, spend float64) {
	if b.std == nil {
		b.std = make(map[string]float64)
		b.spend = make(map[string]float64)
	}
	b.std[use] += std
	b.spend[use] += spend
}

func (b *breakdown) output(sh float64) dpe.UseBreakdown {
	aux := b.std[useAuxGeneration] + b.std[useAuxDistribution] + b.std[useAuxVentilation]
	auxSpend := b.spend[useAuxGeneration] + b.spend[useAuxDistribution] + b.spend[useAuxVentilation]
	total := b.std[useHeating] + b.std[useHotWater] + b.std[useCooling] + b.std[useLighting] + aux
	totalSpend := b.spend[useHeating] + b.spend[useHotWater] + b.spend[useCooling] + b.spend[useLighting] + auxSpend
	return dpe.UseBreakdown{
		Heating:        dpe.Float(b.std[useHeating]),
		HeatingSpend:   dpe.Float(b.spend[useHeating]),
		HotWater:       dpe.Float(b.std[useHotWater]),
		HotWaterSpend:  dpe.Float(b.spend[useHotWater]),
		Cooling:        dpe.Float(b.std[useCooling]),
		CoolingSpend:   dpe.Float(b.spend[useCooling]),
		Lighting:       dpe.Float(b.std[useLighting]),
		AuxGeneration:  dpe.Float(b.std[useAuxGeneration]),
		AuxDistrib:     dpe.Float(b.std[useAuxDistribution]),
		AuxVentilation: dpe.Float(b.std[useAuxVentilation]),
		Auxiliary:      dpe.Float(aux),
		Total:          dpe.Float(total),
		TotalSpend:     dpe.Float(totalSpend),
		PerSquareMeter: dpe.Float(total / sh),
	}
}

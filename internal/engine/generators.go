package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// family is the generator family of the generateur_* tables.
type family string

const (
	familyHeatPump       family = "pac"
	familyCombustion     family = "combustion"
	familyDirectElectric family = "electrique_direct"
	familyOther          family = "autre"
)

// generatorKind is the family and sub-model of one generator.
type generatorKind struct {
	family  family
	subType string
}

// Sub-models that change the calculation.
const (
	subGasRadiator  = "radiateur_gaz"
	subWarmAir      = "generateur_air_chaud"
	subStandard     = "chaudiere_standard"
	subLowTemp      = "chaudiere_basse_temperature"
	subCondensing   = "chaudiere_condensation"
	subAirToAir     = "pac_air_air"
	subStove        = "poele"
	subJoule        = "effet_joule"
	subCirculator   = "circulateur_externe"
	usageHeating    = "ch"
	usageHotWater   = "ecs"
	defaultInterval = "1"
)

// generatorKind classifies a generator type id from a family table. An
// unknown id is diagnosed and handled as another system.
func (r *run) generatorKind(ref, table, column, id string) generatorKind {
	row, ok := r.store.Resolve(table, tables.Where(column, id))
	if !ok {
		r.unknownEnum(ref, column, id, string(familyOther))
		return generatorKind{family: familyOther, subType: string(familyOther)}
	}
	fam, _ := row.Label("famille")
	sub, _ := row.Label("sous_type")
	switch family(fam) {
	case familyHeatPump, familyCombustion, familyDirectElectric, familyOther:
	default:
		r.unknownEnum(ref, "famille", fam, string(familyOther))
		fam = string(familyOther)
	}
	return generatorKind{family: family(fam), subType: sub}
}

func (r *run) coolingFamily(ref, id string) generatorKind {
	return r.generatorKind(ref, tblGenFr, "enum_type_generateur_fr_id", id)
}

// emitterData holds the efficiencies of one heat emitter.
type emitterData struct {
	reference string
	generator string
	category  string
	tempClass string
	surface   float64
	re        float64
	rd        float64
	rr        float64
	i0        float64
}

// hydronic reports whether the emitter is fed by a water loop.
func (e *emitterData) hydronic() bool {
	return e.category == "basse_temperature" || e.category == "haute_temperature"
}

func (r *run) emitters(inst *dpe.HeatingInstallation) []emitterData {
	out := make([]emitterData, len(inst.Emitters))
	for i := range inst.Emitters {
		em := &inst.Emitters[i]
		ref := em.Reference
		if ref == "" {
			ref = inst.Reference
		}
		data := emitterData{
			reference: ref,
			generator: em.GeneratorReference,
			tempClass: em.TemperatureClass,
			surface:   em.Surface,
		}
		row, diag := r.row(ref, tblEmitter, tables.Where("enum_type_emission_distribution_id", em.EmitterType))
		if diag != nil {
			data.re, data.rd, data.rr = math.NaN(), math.NaN(), math.NaN()
		} else {
			data.category, _ = row.Label("categorie_emetteur")
			data.re = r.column(ref, tblEmitter, row, "re").Get()
			data.rd = r.column(ref, tblEmitter, row, "rd").Get()
			data.rr = r.column(ref, tblEmitter, row, "rr").Get()
		}
		interval := em.Intermittence
		if interval == "" {
			interval = defaultInterval
		}
		data.i0 = r.lookup(ref, tblIntermittence,
			tables.Where("enum_equipement_intermittence_id", interval), "i0").Get()
		out[i] = data
	}
	return out
}

// emitterEfficiency is the surface-weighted emission, distribution and
// regulation efficiencies and intermittence of a set of emitters.
type emitterEfficiency struct {
	re, rd, rr, i0 float64
	category       string
	tempClass      string
	surface        float64
}

// servedBy returns the emitters linked to generator ref. When none is
// linked it returns all of them and false.
func servedBy(ems []emitterData, ref string) ([]emitterData, bool) {
	var linked []emitterData
	for _, e := range ems {
		if ref != "" && e.generator == ref {
			linked = append(linked, e)
		}
	}
	if len(linked) == 0 {
		return ems, false
	}
	return linked, true
}

func weightedEmitters(ems []emitterData) emitterEfficiency {
	var eff emitterEfficiency
	var total float64
	for _, e := range ems {
		total += e.surface
	}
	largest := -1.0
	for _, e := range ems {
		w := 1 / float64(len(ems))
		if total > 0 {
			w = e.surface / total
		}
		eff.re += w * e.re
		eff.rd += w * e.rd
		eff.rr += w * e.rr
		eff.i0 += w * e.i0
		if e.surface > largest {
			largest = e.surface
			eff.category = e.category
			eff.tempClass = e.tempClass
		}
	}
	eff.surface = total
	return eff
}

// calorificRatio is the gross to net calorific value ratio of an energy.
func (r *run) calorificRatio(ref, energy string) Value {
	return r.lookup(ref, tblEnergy, tables.Where("enum_type_energie_id", energy), "coef_pcs_pci")
}

// flatEfficiency reads the generation efficiency of generators without a
// dedicated model.
func (r *run) flatEfficiency(ref, usage, generatorType string) Value {
	c := tables.Where("usage", usage).And("enum_type_generateur_id", generatorType)
	return r.lookup(ref, tblFlatEfficiency, c, "rg")
}

// surfaceShares splits a whole between parts by surface, equally when no
// surface is known.
func surfaceShares(surfaces []float64) []float64 {
	shares := make([]float64, len(surfaces))
	var total float64
	for _, s := range surfaces {
		total += s
	}
	for i, s := range surfaces {
		if total > 0 {
			shares[i] = s / total
		} else {
			shares[i] = 1 / float64(len(surfaces))
		}
	}
	return shares
}

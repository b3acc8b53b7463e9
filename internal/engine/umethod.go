package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// insulationMethod is the family of enum_methode_saisie_u_id.
type insulationMethod int

const (
	uUninsulated insulationMethod = iota
	uUnknown
	uThickness
	uResistance
	uInsulationPeriod
	uConstructionPeriod
	uDirect
)

//nolint:gochecknoglobals // read-only enumeration
var insulationMethods = map[string]insulationMethod{
	"1": uUninsulated,
	"2": uUnknown,
	"3": uThickness, "4": uThickness,
	"5": uResistance, "6": uResistance,
	"7":  uInsulationPeriod,
	"8":  uConstructionPeriod,
	"9":  uDirect,
	"10": uDirect,
}

const (
	// uninsulatedCap bounds the transmittance of an uninsulated element.
	uninsulatedCap = 2.5

	// insulantConductivity is the default insulant lambda, W/m.K.
	insulantConductivity = 0.04

	// lastUninsulatedPeriod is the last construction period (1948-1974)
	// presumed uninsulated when insulation is unknown.
	lastUninsulatedPeriod = 2

	// thicknessMillimetreThreshold separates centimetre and millimetre
	// thickness entries.
	thicknessMillimetreThreshold = 50
)

// opaque is the input of the transmittance of one opaque element.
type opaque struct {
	ref   string
	paroi string // u_forfait element kind
	ins   dpe.Insulation
	u0    Value

	uEntered float64
	uField   string
}

type transmittanceFunc func(r *run, o opaque) Value

//nolint:gochecknoglobals // dispatch table
var transmittances = map[insulationMethod]transmittanceFunc{
	uUninsulated:        (*run).uUninsulated,
	uUnknown:            (*run).uUnknownInsulation,
	uThickness:          (*run).uThickness,
	uResistance:         (*run).uResistance,
	uInsulationPeriod:   (*run).uInsulationPeriod,
	uConstructionPeriod: (*run).uConstructionPeriod,
	uDirect:             (*run).uDirect,
}

// insulationMethod resolves the U method actually applied to an element:
// unknown insulation of a building from before 1975 is handled as
// uninsulated.
func (r *run) insulationMethod(ref, id string) insulationMethod {
	m, ok := insulationMethods[id]
	if !ok {
		r.unknownEnum(ref, "enum_methode_saisie_u_id", id, "unknown insulation")
		return uUnknown
	}
	if m == uUnknown && periodAtMost(r.ctx.Period, lastUninsulatedPeriod) {
		return uUninsulated
	}
	return m
}

// transmittance applies the insulation method of o to its U0.
func (r *run) transmittance(o opaque) (Value, insulationMethod) {
	m := r.insulationMethod(o.ref, o.ins.UMethod)
	return transmittances[m](r, o), m
}

func (r *run) uUninsulated(o opaque) Value {
	return o.u0.Map(func(u0 float64) float64 { return math.Min(u0, uninsulatedCap) })
}

func (r *run) uUnknownInsulation(o opaque) Value {
	return r.uTabulated(o, r.ctx.Period)
}

// uTabulated caps U0 by the default insulated value of the period.
func (r *run) uTabulated(o opaque, period string) Value {
	if o.u0.Missing != nil {
		return o.u0
	}
	c := tables.Where("paroi", o.paroi).
		And("enum_periode_construction_id", period).
		And("groupe", r.ctx.Group).
		And("effet_joule", boolID(r.ctx.JouleEffect))
	u := r.lookup(o.ref, tblUForfait, c, "u")
	return u.Map(func(v float64) float64 { return math.Min(o.u0.Float, v) })
}

func (r *run) uThickness(o opaque) Value {
	e := o.ins.InsulationThickness
	if e <= 0 {
		return r.missingInput(o.ref, "epaisseur_isolation")
	}
	if !r.compat && e > thicknessMillimetreThreshold {
		e /= 10
	}
	return o.u0.Map(func(u0 float64) float64 {
		return 1 / (1/u0 + e/100/insulantConductivity)
	})
}

func (r *run) uResistance(o opaque) Value {
	rIns := o.ins.InsulationResistance
	if rIns <= 0 {
		return r.missingInput(o.ref, "resistance_isolation")
	}
	return o.u0.Map(func(u0 float64) float64 { return 1 / (1/u0 + rIns) })
}

func (r *run) uInsulationPeriod(o opaque) Value {
	if o.ins.InsulationPeriod == "" {
		return r.missingInput(o.ref, "enum_periode_isolation_id")
	}
	return r.uTabulated(o, o.ins.InsulationPeriod)
}

func (r *run) uConstructionPeriod(o opaque) Value {
	if periodAtMost(r.ctx.Period, lastUninsulatedPeriod) {
		return o.u0
	}
	return r.uTabulated(o, r.ctx.Period)
}

func (r *run) uDirect(o opaque) Value {
	if o.uEntered <= 0 {
		return r.missingInput(o.ref, o.uField)
	}
	return Known(o.uEntered)
}

// u0Method is the family of enum_methode_saisie_u0_id.
type u0Method int

const (
	u0Unknown u0Method = iota
	u0Table
	u0Entered
	u0NotNeeded
)

func (r *run) u0Method(ref, id string) u0Method {
	switch id {
	case "1":
		return u0Unknown
	case "", "2":
		return u0Table
	case "3", "4":
		return u0Entered
	case "5":
		return u0NotNeeded
	default:
		r.unknownEnum(ref, "enum_methode_saisie_u0_id", id, "table")
		return u0Table
	}
}

// u0Unused is the U0 of an element whose U is entered directly.
func (r *run) u0Unused(ref, field string, uMethod string) Value {
	if insulationMethods[uMethod] == uDirect {
		return Value{Float: math.NaN()}
	}
	return r.missingInput(ref, field)
}

// insulationLabel is the placement of the insulation of an element, from
// type_isolation, or derived from the applied method when not entered.
func (r *run) insulationLabel(ref, typeID string, m insulationMethod) string {
	if m == uUninsulated {
		return "non_isole"
	}
	if typeID == "" {
		return "inconnu"
	}
	label := r.label(ref, tblInsulationType, tables.Where("enum_type_isolation_id", typeID), "isolation")
	if label == "" {
		return "inconnu"
	}
	return label
}

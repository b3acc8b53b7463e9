package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Inertia classes of the inertie table, heaviest first.
//
//nolint:gochecknoglobals // read-only enumeration
var inertiaClasses = []string{"tres_lourde", "lourde", "moyenne", "legere"}

// inertiaOverrides maps enum_classe_inertie_id to its class.
//
//nolint:gochecknoglobals // read-only enumeration
var inertiaOverrides = map[string]string{
	"1": "tres_lourde",
	"2": "lourde",
	"3": "moyenne",
	"4": "legere",
}

// inertia is the thermal inertia of the dwelling.
type inertia struct {
	class    string
	exponent float64
	cm       float64 // J/K per m2 of habitable area
}

// envelope computes every element's loss, the renewal losses, GV and the
// inertia class.
func (r *run) envelope() error {
	losses := dpe.LossOutput{
		Walls:       r.wallLosses(),
		LowerFloors: r.lowerFloorLosses(),
		UpperFloors: r.upperFloorLosses(),
		Windows:     r.windowLosses(),
		Doors:       r.doorLosses(),
	}
	// Bridges read the insulation resolved for walls and floors above.
	losses.ThermalBridges = r.bridgeLosses()
	r.bufferSpaces()

	losses.Envelope = losses.Walls + losses.LowerFloors + losses.UpperFloors +
		losses.Windows + losses.Doors + losses.ThermalBridges

	hvent, hperm, aux := r.ventilation()
	losses.Hvent = dpe.Float(hvent)
	losses.Hperm = dpe.Float(hperm)
	losses.Renewal = dpe.Float(hvent + hperm)
	losses.GV = losses.Envelope + losses.Renewal
	r.out.Losses = losses
	r.gv = float64(losses.GV)
	r.addConsumption("ventilation", useAuxVentilation, electricityID, aux, aux)

	r.inertia = r.inertiaClass()
	r.out.Context.InertiaClass = r.inertia.class
	r.out.Context.InertiaExponent = dpe.Float(r.inertia.exponent)
	return nil
}

// bufferSpaces records the reduction and transmission coefficients of
// each sunlit buffer space.
func (r *run) bufferSpaces() {
	spaces := r.d.Envelope.BufferSpaces
	r.out.Envelope.BufferSpaces = make([]dpe.BufferOutput, len(spaces))
	for i := range spaces {
		ets := &spaces[i]
		r.out.Envelope.BufferSpaces[i] = dpe.BufferOutput{
			Reference:    ets.Reference,
			Bver:         dpe.Float(r.bver(ets.Reference, ets).Get()),
			Transmission: dpe.Float(r.bufferTransmission(ets).Get()),
		}
	}
}

// bufferTransmission is the surface-weighted transmission coefficient of
// the glazings of a buffer space.
func (r *run) bufferTransmission(ets *dpe.BufferSpace) Value {
	var weighted, surface float64
	for _, g := range ets.Glazings {
		c := tables.Where("enum_type_materiaux_menuiserie_id", g.FrameType).And("enum_type_vitrage_id", g.GlazingType)
		t := r.lookup(ets.Reference, tblEtsTransparency, c, "t")
		if t.Missing != nil {
			return t
		}
		weighted += t.Float * g.Surface
		surface += g.Surface
	}
	if surface <= 0 {
		return Known(0)
	}
	return Known(weighted / surface)
}

// inertiaClass takes the entered class, or counts the heavy element
// groups: walls, lower floors and upper floors are heavy when most of
// their surface is.
func (r *run) inertiaClass() inertia {
	class, ok := inertiaOverrides[r.d.Characteristics.InertiaClass]
	if !ok {
		if id := r.d.Characteristics.InertiaClass; id != "" {
			r.unknownEnum("", "enum_classe_inertie_id", id, "derived from the envelope")
		}
		heavy := 0
		env := &r.d.Envelope
		if majorityHeavy(len(env.Walls), func(i int) (float64, bool) { return env.Walls[i].Surface, r.walls[i].heavy }) {
			heavy++
		}
		if majorityHeavy(len(env.LowerFloors), func(i int) (float64, bool) {
			return env.LowerFloors[i].Surface, r.lower[i].heavy
		}) {
			heavy++
		}
		if majorityHeavy(len(env.UpperFloors), func(i int) (float64, bool) {
			return env.UpperFloors[i].Surface, r.upper[i].heavy
		}) {
			heavy++
		}
		class = inertiaClasses[len(inertiaClasses)-1-heavy]
	}

	row, diag := r.row("", tblInertia, tables.Where("classe_inertie", class))
	if diag != nil {
		return inertia{class: class, exponent: missing(diag).Get(), cm: missing(diag).Get()}
	}
	return inertia{
		class:    class,
		exponent: r.column("", tblInertia, row, "exposant_a").Get(),
		cm:       r.column("", tblInertia, row, "cm").Get(),
	}
}

func majorityHeavy(n int, element func(i int) (float64, bool)) bool {
	var heavy, light float64
	for i := range n {
		s, h := element(i)
		if h {
			heavy += s
		} else {
			light += s
		}
	}
	return heavy > 0 && heavy >= light
}

package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

const (
	defaultGasID          = "1"
	defaultInstallationID = "1"
)

// windowData is what the gains stage needs to know about a window.
type windowData struct {
	kind adjacencyKind
	sw   float64
	fe1  float64
	fe2  float64
}

func (r *run) windowLosses() dpe.Float {
	windows := r.d.Envelope.Windows
	r.windows = make([]windowData, len(windows))
	r.out.Envelope.Windows = make([]dpe.WindowOutput, len(windows))

	var total float64
	for i := range windows {
		w := &windows[i]
		kind, b := r.reduction(w.Reference, w.Adjacency)
		ug := r.ug(w)
		uw := r.uw(w, ug)
		u := r.ujn(w, uw)
		sw := r.sw(w)
		fe1 := r.maskFactor(w.Reference, tblNearMask, "enum_type_masque_proche_id", w.NearMask, "fe1")
		fe2 := r.maskFactor(w.Reference, tblFarMask, "enum_type_masque_lointain_homogene_id", w.FarMask, "fe2")

		loss := b.Get() * w.Surface * u.Get()
		total += loss

		r.windows[i] = windowData{kind: kind, sw: sw.Get(), fe1: fe1.Get(), fe2: fe2.Get()}
		r.out.Envelope.Windows[i] = dpe.WindowOutput{
			Reference: w.Reference,
			B:         dpe.Float(b.Get()),
			Ug:        dpe.Float(ug.Get()),
			Uw:        dpe.Float(uw.Get()),
			U:         dpe.Float(u.Get()),
			Sw:        dpe.Float(sw.Get()),
			Fe1:       dpe.Float(fe1.Get()),
			Fe2:       dpe.Float(fe2.Get()),
			Loss:      dpe.Float(loss),
		}
	}
	return dpe.Float(total)
}

func (r *run) ug(w *dpe.Window) Value {
	if w.UgEntered > 0 {
		return Known(w.UgEntered)
	}
	gas := w.GasType
	if gas == "" {
		gas = defaultGasID
	}
	c := tables.Where("enum_type_vitrage_id", w.GlazingType).
		And("vitrage_vir", boolID(w.LowEmissive)).
		And("enum_type_gaz_lame_id", gas).
		Near("epaisseur_lame", w.GapThickness)
	return r.lookup(w.Reference, tblUg, c, "ug")
}

func (r *run) uw(w *dpe.Window, ug Value) Value {
	if w.UwEntered > 0 {
		return Known(w.UwEntered)
	}
	if ug.Missing != nil {
		return ug
	}
	c := tables.Where("enum_type_materiaux_menuiserie_id", w.FrameType).Near("ug", ug.Float)
	return r.lookup(w.Reference, tblUw, c, "uw")
}

// ujn is the window transmittance with its closure; a window without
// closure keeps Uw.
func (r *run) ujn(w *dpe.Window, uw Value) Value {
	if w.UjnEntered > 0 {
		return Known(w.UjnEntered)
	}
	if w.Closure == "" || uw.Missing != nil {
		return uw
	}
	deltaR := r.lookup(w.Reference, tblClosure, tables.Where("enum_type_fermeture_id", w.Closure), "deltar")
	if deltaR.Missing != nil {
		return deltaR
	}
	if deltaR.Float == 0 {
		return uw
	}
	return r.lookup(w.Reference, tblUjn, tables.Near("deltar", deltaR.Float).Near("uw", uw.Float), "ujn")
}

func (r *run) sw(w *dpe.Window) Value {
	if w.SwEntered > 0 {
		return Known(w.SwEntered)
	}
	c := tables.Where("enum_type_vitrage_id", w.GlazingType).
		And("vitrage_vir", boolID(w.LowEmissive)).
		And("enum_type_materiaux_menuiserie_id", w.FrameType).
		And("enum_type_pose_id", installationOf(w))
	return r.lookup(w.Reference, tblSw, c, "sw")
}

func installationOf(w *dpe.Window) string {
	if w.Installation == "" {
		return defaultInstallationID
	}
	return w.Installation
}

// maskFactor reads a shading factor; no mask means no shading.
func (r *run) maskFactor(ref, table, column, id, value string) Value {
	if id == "" {
		return Known(1)
	}
	return r.lookup(ref, table, tables.Where(column, id), value)
}

func (r *run) doorLosses() dpe.Float {
	doors := r.d.Envelope.Doors
	r.out.Envelope.Doors = make([]dpe.DoorOutput, len(doors))

	var total float64
	for i := range doors {
		d := &doors[i]
		_, b := r.reduction(d.Reference, d.Adjacency)
		u := Known(d.UEntered)
		if d.UEntered <= 0 {
			u = r.lookup(d.Reference, tblUporte, tables.Where("enum_type_porte_id", d.DoorType), "uporte")
		}
		loss := b.Get() * d.Surface * u.Get()
		total += loss
		r.out.Envelope.Doors[i] = dpe.DoorOutput{
			Reference: d.Reference,
			B:         dpe.Float(b.Get()),
			U:         dpe.Float(u.Get()),
			Loss:      dpe.Float(loss),
		}
	}
	return dpe.Float(total)
}

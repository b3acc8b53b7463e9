package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Additional thermal resistances of wall linings, m2.K/W.
const (
	rThinDoubling  = 0.1
	rThickDoubling = 0.21
	rRender        = 0.7
	uUnknownWall   = 2.5
	defaultFloorID = "1"
)

// wallData is what later stages need to know about a wall.
type wallData struct {
	kind       adjacencyKind
	method     insulationMethod
	insulation string
	heavy      bool
}

// floorData is what later stages need to know about a floor or roof.
type floorData struct {
	kind       adjacencyKind
	method     insulationMethod
	insulation string
	heavy      bool
}

func (r *run) wallLosses() dpe.Float {
	walls := r.d.Envelope.Walls
	r.walls = make([]wallData, len(walls))
	r.out.Envelope.Walls = make([]dpe.WallOutput, len(walls))

	var total float64
	for i := range walls {
		w := &walls[i]
		kind, b := r.reduction(w.Reference, w.Adjacency)
		u0, heavy := r.wallU0(w)
		u, m := r.transmittance(opaque{
			ref:      w.Reference,
			paroi:    "mur",
			ins:      w.Insulation,
			u0:       u0,
			uEntered: w.UEntered,
			uField:   "umur_saisi",
		})
		loss := b.Get() * w.Surface * u.Get()
		total += loss

		data := wallData{kind: kind, method: m, heavy: heavy}
		data.insulation = r.insulationLabel(w.Reference, w.InsulationType, m)
		r.walls[i] = data
		r.out.Envelope.Walls[i] = dpe.WallOutput{
			Reference:  w.Reference,
			B:          dpe.Float(b.Get()),
			U0:         dpe.Float(u0.Get()),
			U:          dpe.Float(u.Get()),
			Insulation: data.insulation,
			Loss:       dpe.Float(loss),
		}
	}
	return dpe.Float(total)
}

// wallU0 resolves the uninsulated transmittance of a wall and whether its
// structure is heavy.
func (r *run) wallU0(w *dpe.Wall) (Value, bool) {
	c := tables.Where("enum_materiaux_structure_mur_id", w.Material).Near("epaisseur_structure", w.Thickness)
	heavy := false
	if row, ok := r.store.Resolve(tblUmur0, c); ok {
		v, _ := row.Float("lourd")
		heavy = v == 1
	}

	switch r.u0Method(w.Reference, w.U0Method) {
	case u0Unknown:
		return Known(uUnknownWall), heavy
	case u0Entered:
		if w.U0Entered <= 0 {
			return r.missingInput(w.Reference, "umur0_saisi"), heavy
		}
		return Known(w.U0Entered), heavy
	case u0NotNeeded:
		return r.u0Unused(w.Reference, "umur0_saisi", w.UMethod), heavy
	}

	u0 := r.lookup(w.Reference, tblUmur0, c, "umur0")
	extra := liningResistance(w.Doubling)
	if w.InsulatingRender {
		extra += rRender
	}
	if extra > 0 {
		u0 = u0.Map(func(u float64) float64 { return 1 / (1/u + extra) })
	}
	return u0, heavy
}

func liningResistance(doubling string) float64 {
	switch doubling {
	case "2":
		return rThinDoubling
	case "3", "4":
		return rThickDoubling
	default:
		return 0
	}
}

// floorU0 resolves the base transmittance of a lower or upper floor from
// table, keyed by its type column, and reports the matched row. The U0
// column of upb0 and uph0 is named after the table.
func (r *run) floorU0(ref string, ins dpe.Insulation, table, column, floorType string,
	entered float64, enteredField string,
) (Value, tables.Row, bool) {
	id := floorType
	switch r.u0Method(ref, ins.U0Method) {
	case u0Unknown:
		id = defaultFloorID
	case u0Entered:
		row, ok := r.store.Resolve(table, tables.Where(column, floorType))
		if entered <= 0 {
			return r.missingInput(ref, enteredField), row, ok
		}
		return Known(entered), row, ok
	case u0NotNeeded:
		row, ok := r.store.Resolve(table, tables.Where(column, floorType))
		return r.u0Unused(ref, enteredField, ins.UMethod), row, ok
	case u0Table:
	}
	row, diag := r.row(ref, table, tables.Where(column, id))
	if diag != nil {
		return missing(diag), tables.Row{}, false
	}
	return r.column(ref, table, row, table), row, true
}

func heavyRow(row tables.Row, ok bool) bool {
	if !ok {
		return false
	}
	v, _ := row.Float("lourd")
	return v == 1
}

// groundPool accumulates floor surfaces and perimeters for the 2S/P ratio.
type groundPool struct {
	surface   float64
	perimeter float64
}

func (r *run) lowerFloorLosses() dpe.Float {
	floors := r.d.Envelope.LowerFloors
	r.lower = make([]floorData, len(floors))
	r.out.Envelope.LowerFloors = make([]dpe.FloorOutput, len(floors))

	us := make([]Value, len(floors))
	bs := make([]Value, len(floors))
	pools := make(map[string]*groundPool)

	for i := range floors {
		f := &floors[i]
		kind, b := r.reduction(f.Reference, f.Adjacency)
		u0, row, ok := r.floorU0(f.Reference, f.Insulation, tblUpb0, "enum_type_plancher_bas_id",
			f.FloorType, f.U0Entered, "upb0_saisi")
		u, m := r.transmittance(opaque{
			ref:      f.Reference,
			paroi:    "plancher_bas",
			ins:      f.Insulation,
			u0:       u0,
			uEntered: f.UEntered,
			uField:   "upb_saisi",
		})
		us[i], bs[i] = u, b

		data := floorData{kind: kind, method: m, heavy: heavyRow(row, ok)}
		data.insulation = r.insulationLabel(f.Reference, f.InsulationType, m)
		r.lower[i] = data

		if kind == adjGround {
			key := r.poolKey(f.AdjacencyType)
			p := pools[key]
			if p == nil {
				p = &groundPool{}
				pools[key] = p
			}
			p.surface += f.Surface
			p.perimeter += f.Perimeter
		}

		r.out.Envelope.LowerFloors[i] = dpe.FloorOutput{
			Reference:  f.Reference,
			B:          dpe.Float(b.Get()),
			U0:         dpe.Float(u0.Get()),
			U:          dpe.Float(u.Get()),
			Insulation: data.insulation,
		}
	}

	var total float64
	for i := range floors {
		f := &floors[i]
		out := &r.out.Envelope.LowerFloors[i]
		u := us[i].Get()
		if r.lower[i].kind == adjGround {
			ue := r.ue(f, pools[r.poolKey(f.AdjacencyType)], us[i])
			out.Ue = dpe.Float(ue.Get())
			u = ue.Get()
		}
		loss := bs[i].Get() * f.Surface * u
		out.Loss = dpe.Float(loss)
		total += loss
	}
	return dpe.Float(total)
}

// poolKey groups ground-coupled floors for the 2S/P ratio: per adjacency
// type, or all together in compatibility mode.
func (r *run) poolKey(adjacency string) string {
	if r.compat {
		return "ground"
	}
	return adjacency
}

// ue is the equivalent transmittance of a ground-coupled floor.
func (r *run) ue(f *dpe.LowerFloor, pool *groundPool, u Value) Value {
	if pool == nil || pool.perimeter <= 0 {
		return r.missingInput(f.Reference, "perimetre_ue")
	}
	if u.Missing != nil {
		return u
	}
	ratio := 2 * pool.surface / pool.perimeter
	c := tables.Where("type_adjacence_ue", groundTypes[f.AdjacencyType]).
		Near("2s_p", ratio).
		Near("upb", u.Float)
	return r.lookup(f.Reference, tblUe, c, "ue")
}

func (r *run) upperFloorLosses() dpe.Float {
	floors := r.d.Envelope.UpperFloors
	r.upper = make([]floorData, len(floors))
	r.out.Envelope.UpperFloors = make([]dpe.FloorOutput, len(floors))

	var total float64
	for i := range floors {
		f := &floors[i]
		kind, b := r.reduction(f.Reference, f.Adjacency)
		u0, row, ok := r.floorU0(f.Reference, f.Insulation, tblUph0, "enum_type_plancher_haut_id",
			f.FloorType, f.U0Entered, "uph0_saisi")

		paroi := "plancher_haut_combles"
		if ok {
			if cat, _ := row.Label("categorie"); cat != "" {
				paroi = "plancher_haut_" + cat
			}
		}
		u, m := r.transmittance(opaque{
			ref:      f.Reference,
			paroi:    paroi,
			ins:      f.Insulation,
			u0:       u0,
			uEntered: f.UEntered,
			uField:   "uph_saisi",
		})
		loss := b.Get() * f.Surface * u.Get()
		total += loss

		data := floorData{kind: kind, method: m, heavy: heavyRow(row, ok)}
		data.insulation = r.insulationLabel(f.Reference, f.InsulationType, m)
		r.upper[i] = data
		r.out.Envelope.UpperFloors[i] = dpe.FloorOutput{
			Reference:  f.Reference,
			B:          dpe.Float(b.Get()),
			U0:         dpe.Float(u0.Get()),
			U:          dpe.Float(u.Get()),
			Insulation: data.insulation,
			Loss:       dpe.Float(loss),
		}
	}
	return dpe.Float(total)
}

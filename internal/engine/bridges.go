package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Link types of enum_type_liaison_id whose second element is known.
const (
	linkLowerFloor = "1"
	linkUpperFloor = "3"
	linkWindow     = "5"
)

// bridgeWallInsulation folds insulation placements onto the four columns
// of the thermal bridge table.
//
//nolint:gochecknoglobals // read-only mapping
var bridgeWallInsulation = map[string]string{
	"non_isole":     "non_isole",
	"iti":           "iti",
	"ite":           "ite",
	"itr":           "itr",
	"iti_ite":       "ite",
	"iti_itr":       "iti",
	"ite_itr":       "ite",
	"isole_inconnu": "iti",
}

func (r *run) bridgeLosses() dpe.Float {
	bridges := r.d.Envelope.ThermalBridges
	r.out.Envelope.ThermalBridges = make([]dpe.BridgeOutput, len(bridges))

	var total float64
	for i := range bridges {
		tb := &bridges[i]
		k := Known(tb.KEntered)
		if tb.KEntered <= 0 {
			k = r.lookup(tb.Reference, tblBridge, r.bridgeCriteria(tb), "k")
		}
		ratio := tb.Ratio
		if ratio <= 0 {
			ratio = 1
		}
		loss := k.Get() * tb.Length * ratio
		total += loss
		r.out.Envelope.ThermalBridges[i] = dpe.BridgeOutput{
			Reference: tb.Reference,
			K:         dpe.Float(k.Get()),
			Loss:      dpe.Float(loss),
		}
	}
	return dpe.Float(total)
}

func (r *run) bridgeCriteria(tb *dpe.ThermalBridge) tables.Criteria {
	c := tables.Where("enum_type_liaison_id", tb.LinkType).
		And("isolation_mur", r.bridgeWall(tb))

	switch tb.LinkType {
	case linkLowerFloor:
		refs := make([]string, len(r.d.Envelope.LowerFloors))
		for i := range r.d.Envelope.LowerFloors {
			refs[i] = r.d.Envelope.LowerFloors[i].Reference
		}
		c = c.And("isolation_plancher", r.bridgeFloor(tb, refs, r.lower))
	case linkUpperFloor:
		refs := make([]string, len(r.d.Envelope.UpperFloors))
		for i := range r.d.Envelope.UpperFloors {
			refs[i] = r.d.Envelope.UpperFloors[i].Reference
		}
		c = c.And("isolation_plancher", r.bridgeFloor(tb, refs, r.upper))
	case linkWindow:
		c = c.And("enum_type_pose_id", r.bridgeWindow(tb))
	}
	return c
}

func (r *run) bridgeWall(tb *dpe.ThermalBridge) string {
	for i := range r.d.Envelope.Walls {
		if r.d.Envelope.Walls[i].Reference != tb.Reference1 {
			continue
		}
		data := r.walls[i]
		if label, ok := bridgeWallInsulation[data.insulation]; ok {
			return label
		}
		if periodAtMost(r.ctx.Period, lastUninsulatedPeriod) {
			return "non_isole"
		}
		return "iti"
	}
	r.unknownEnum(tb.Reference, "reference_1", tb.Reference1, "non_isole")
	return "non_isole"
}

func (r *run) bridgeFloor(tb *dpe.ThermalBridge, refs []string, data []floorData) string {
	for i := range refs {
		if refs[i] != tb.Reference2 {
			continue
		}
		switch data[i].insulation {
		case "non_isole":
			return "non_isole"
		case "inconnu":
			if periodAtMost(r.ctx.Period, lastUninsulatedPeriod) {
				return "non_isole"
			}
		}
		return "isole"
	}
	r.unknownEnum(tb.Reference, "reference_2", tb.Reference2, "non_isole")
	return "non_isole"
}

func (r *run) bridgeWindow(tb *dpe.ThermalBridge) string {
	for i := range r.d.Envelope.Windows {
		if r.d.Envelope.Windows[i].Reference == tb.Reference2 {
			return installationOf(&r.d.Envelope.Windows[i])
		}
	}
	r.unknownEnum(tb.Reference, "reference_2", tb.Reference2, "pose "+defaultInstallationID)
	return defaultInstallationID
}

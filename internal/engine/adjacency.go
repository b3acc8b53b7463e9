package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// adjacencyKind is the family of what lies behind an envelope element.
type adjacencyKind int

const (
	adjExterior adjacencyKind = iota
	adjFixed
	adjUnheated
	adjGround
	adjBuffer
)

func (k adjacencyKind) String() string {
	switch k {
	case adjFixed:
		return "fixed"
	case adjUnheated:
		return "unheated"
	case adjGround:
		return "ground"
	case adjBuffer:
		return "buffer"
	default:
		return "exterior"
	}
}

// adjacencyKinds maps enum_type_adjacence_id to its family.
//
//nolint:gochecknoglobals // read-only enumeration
var adjacencyKinds = map[string]adjacencyKind{
	"1": adjExterior, "2": adjExterior,
	"3": adjGround, "5": adjGround, "6": adjGround,
	"4": adjFixed, "7": adjFixed, "14": adjFixed, "15": adjFixed, "16": adjFixed,
	"17": adjFixed, "18": adjFixed, "20": adjFixed, "22": adjFixed,
	"8": adjUnheated, "9": adjUnheated, "11": adjUnheated, "12": adjUnheated,
	"13": adjUnheated, "19": adjUnheated, "21": adjUnheated,
	"10": adjBuffer,
}

// groundTypes names the ue table family of each ground-coupled adjacency.
//
//nolint:gochecknoglobals // read-only enumeration
var groundTypes = map[string]string{
	"3": "vide_sanitaire",
	"5": "terre_plein",
	"6": "sous_sol",
}

// reductionFunc computes the reduction coefficient b of one family.
type reductionFunc func(r *run, ref string, a dpe.Adjacency) Value

//nolint:gochecknoglobals // dispatch table
var reductions = map[adjacencyKind]reductionFunc{
	adjExterior: func(*run, string, dpe.Adjacency) Value { return Known(1) },
	adjGround:   func(*run, string, dpe.Adjacency) Value { return Known(1) },
	adjFixed:    (*run).reductionFixed,
	adjUnheated: (*run).reductionUnheated,
	adjBuffer:   (*run).reductionBuffer,
}

func (r *run) adjacencyKind(ref, id string) adjacencyKind {
	kind, ok := adjacencyKinds[id]
	if !ok {
		r.unknownEnum(ref, "enum_type_adjacence_id", id, adjExterior.String())
		return adjExterior
	}
	return kind
}

// reduction returns the family of a and its reduction coefficient b.
func (r *run) reduction(ref string, a dpe.Adjacency) (adjacencyKind, Value) {
	kind := r.adjacencyKind(ref, a.AdjacencyType)
	return kind, reductions[kind](r, ref, a)
}

func (r *run) reductionFixed(ref string, a dpe.Adjacency) Value {
	return r.lookup(ref, tblB, tables.Where("enum_type_adjacence_id", a.AdjacencyType), "b")
}

// reductionUnheated reads b from the unheated space's ventilation loss and
// the ratio of its wall areas towards the dwelling and the exterior.
func (r *run) reductionUnheated(ref string, a dpe.Adjacency) Value {
	uvue := r.lookup(ref, tblUvue, tables.Where("enum_type_adjacence_id", a.AdjacencyType), "uvue")
	if uvue.Missing != nil {
		return uvue
	}
	ratio := 0.0
	if a.SurfaceAue > 0 {
		ratio = a.SurfaceAiu / a.SurfaceAue
	}
	c := tables.Where("isolation_aiu", boolID(a.InsulatedAiu)).
		And("isolation_aue", boolID(a.InsulatedAue)).
		Near("uvue", uvue.Float).
		Near("aiu_aue", ratio)
	return r.lookup(ref, tblBLnc, c, "b")
}

func (r *run) reductionBuffer(ref string, a dpe.Adjacency) Value {
	ets, ok := r.bufferSpace(a.ReferenceETS)
	if !ok {
		return r.missingInput(ref, "reference_ets")
	}
	return r.bver(ref, ets)
}

// bver is the reduction coefficient of a sunlit buffer space.
func (r *run) bver(ref string, ets *dpe.BufferSpace) Value {
	c := tables.Where("groupe", r.ctx.Group).
		And("enum_orientation_id", ets.Orientation).
		And("isolation_aiu", boolID(ets.InsulatedAiu))
	return r.lookup(ref, tblBEts, c, "bver")
}

// bufferSpace finds a buffer space by reference. A lone buffer space is
// used when the element does not name one.
func (r *run) bufferSpace(ref string) (*dpe.BufferSpace, bool) {
	spaces := r.d.Envelope.BufferSpaces
	if ref == "" && len(spaces) == 1 {
		return &spaces[0], true
	}
	for i := range spaces {
		if spaces[i].Reference == ref {
			return &spaces[i], true
		}
	}
	return nil, false
}

package engine

import (
	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Internal gain densities: occupancy and appliances per m2, heat per
// equivalent adult, W.
const (
	gainPerM2       = 3.18 + 0.34
	gainPerAdult    = 90.0 * 132 / 168
	etsIndirectBase = 0.024
	etsIndirectT    = 0.8
)

// southEquivalentSurface is the monthly south-equivalent collecting
// surface of the dwelling, m2.
func (r *run) southEquivalentSurface() dpe.Monthly {
	var sse dpe.Monthly
	windows := r.d.Envelope.Windows

	for i := range windows {
		w := &windows[i]
		data := r.windows[i]
		if data.kind != adjExterior {
			continue
		}
		c1 := r.c1(w.Reference, w.Orientation, w.Inclination)
		k := w.Surface * data.sw * data.fe1 * data.fe2
		for j := range sse {
			sse[j] += k * c1[j]
		}
	}

	for i := range r.d.Envelope.BufferSpaces {
		contrib := r.bufferGains(&r.d.Envelope.BufferSpaces[i])
		for j := range sse {
			sse[j] += contrib[j]
		}
	}
	return sse
}

// bufferGains is the south-equivalent surface a sunlit buffer space adds:
// direct transmission through the windows that open onto it, plus the
// indirect gains through its own glazing weighted by bver.
func (r *run) bufferGains(ets *dpe.BufferSpace) dpe.Monthly {
	t := r.bufferTransmission(ets).Get()
	bver := r.bver(ets.Reference, ets).Get()

	var ssd dpe.Monthly
	windows := r.d.Envelope.Windows
	for i := range windows {
		w := &windows[i]
		if r.windows[i].kind != adjBuffer {
			continue
		}
		if linked, ok := r.bufferSpace(w.ReferenceETS); !ok || linked != ets {
			continue
		}
		c1 := r.c1(w.Reference, w.Orientation, w.Inclination)
		for j := range ssd {
			ssd[j] += t * w.Surface * r.windows[i].sw * c1[j]
		}
	}

	var ssind dpe.Monthly
	for _, g := range ets.Glazings {
		c1 := r.c1(ets.Reference, g.Orientation, g.Inclination)
		k := g.Surface * (etsIndirectT*t + etsIndirectBase)
		for j := range ssind {
			ssind[j] += k * c1[j]
		}
	}

	var out dpe.Monthly
	for j := range out {
		out[j] = ssd[j] + bver*ssind[j]
	}
	return out
}

func (r *run) c1(ref, orientation, inclination string) dpe.Monthly {
	c := tables.Where("groupe", r.ctx.Group).
		And("enum_orientation_id", orientation).
		And("enum_inclinaison_vitrage_id", inclination)
	return r.monthlyRow(ref, tblC1, c)
}

// internalGains is the monthly internal gain for a series of reference
// hours, Wh.
func (r *run) internalGains(nref dpe.Monthly) dpe.Monthly {
	w := gainPerM2*r.ctx.Sh + gainPerAdult*r.ctx.Nadeq
	return nref.Scale(w)
}

// solarGains is the monthly solar gain, Wh.
func solarGains(sse, e dpe.Monthly) dpe.Monthly {
	var as dpe.Monthly
	for j := range as {
		as[j] = 1000 * sse[j] * e[j]
	}
	return as
}

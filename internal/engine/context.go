package engine

import (
	"fmt"
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Habitation types of the methode_application table.
const (
	habitationHouse     = "maison"
	habitationApartment = "appartement"
	habitationBuilding  = "immeuble"
)

const defaultCeilingHeight = 2.5

// Context is the read-only snapshot shared by every stage of a run.
type Context struct {
	ZoneID         string
	Zone           string
	Group          string
	AltitudeClass  string
	HabitationType string
	Period         string
	Sh             float64
	Apartments     int
	Nadeq          float64
	JouleEffect    bool
	Tbase          float64
	Hsp            float64
	Climate        Climate
}

// Climate holds the monthly climate series of the dwelling's zone and
// altitude class.
type Climate struct {
	DH19   dpe.Monthly
	DH21   dpe.Monthly
	Nref19 dpe.Monthly
	Nref21 dpe.Monthly
	E      dpe.Monthly
	Tefs   dpe.Monthly
	Nhecl  dpe.Monthly
	Nref26 dpe.Monthly
	Nref28 dpe.Monthly
	TextFr dpe.Monthly
}

// Collective reports whether the record describes a whole building.
func (c *Context) Collective() bool {
	return c.HabitationType == habitationBuilding
}

func (r *run) buildContext() error {
	ch := r.d.Characteristics
	c := Context{
		ZoneID:        r.d.Meteo.ClimateZone,
		AltitudeClass: r.d.Meteo.AltitudeClass,
		Period:        ch.ConstructionPeriod,
		Hsp:           ch.CeilingHeight,
	}
	if c.Hsp <= 0 {
		c.Hsp = defaultCeilingHeight
	}

	c.HabitationType = r.label("", tblMethod,
		tables.Where("enum_methode_application_dpe_log_id", ch.ApplicationMethod), "type_habitation")
	switch c.HabitationType {
	case habitationHouse, habitationApartment:
		c.Sh = ch.DwellingArea
	case habitationBuilding:
		c.Sh = ch.BuildingArea
	default:
		c.HabitationType = habitationHouse
		c.Sh = ch.DwellingArea
	}
	if c.Sh <= 0 {
		return fmt.Errorf("%w: habitable area %v for %s", ErrStructural, c.Sh, c.HabitationType)
	}

	c.Apartments = max(ch.Apartments, 1)
	if c.Collective() {
		c.Nadeq = nadeqCollective(c.Sh, c.Apartments)
	} else {
		c.Nadeq = nadeqIndividual(c.Sh)
	}

	zoneRow, diag := r.row("", tblZone, tables.Where("enum_zone_climatique_id", c.ZoneID))
	if diag == nil {
		c.Zone, _ = zoneRow.Label("zone")
		c.Group, _ = zoneRow.Label("groupe")
	}

	c.JouleEffect = r.jouleEffect()
	c.Tbase = r.lookup("", tblTbase,
		tables.Where("zone", c.Zone).And("enum_classe_altitude_id", c.AltitudeClass), "tbase").Get()
	c.Climate = r.climate(c.Zone, c.AltitudeClass)

	r.ctx = c
	r.out.Context = dpe.ContextOutput{
		ClimateZone:    c.Zone,
		ClimateGroup:   c.Group,
		AltitudeClass:  c.AltitudeClass,
		HabitationType: c.HabitationType,
		Sh:             dpe.Float(c.Sh),
		Apartments:     c.Apartments,
		Nadeq:          dpe.Float(c.Nadeq),
		JouleEffect:    c.JouleEffect,
		Tbase:          dpe.Float(c.Tbase),
	}
	return nil
}

// nadeqIndividual is the equivalent adult count of one dwelling.
func nadeqIndividual(sh float64) float64 {
	var nmax float64
	switch {
	case sh < 30:
		nmax = 1
	case sh < 70:
		nmax = 1.75 - 0.01875*(70-sh)
	default:
		nmax = 0.025 * sh
	}
	return capAdults(nmax)
}

// nadeqCollective is the equivalent adult count of a building of n
// apartments, from the mean apartment area.
func nadeqCollective(sh float64, n int) float64 {
	mean := sh / float64(n)
	var nmax float64
	switch {
	case mean < 10:
		nmax = 1
	case mean < 50:
		nmax = 1.75 - 0.01875*(50-mean)
	default:
		nmax = 0.035 * mean
	}
	return float64(n) * capAdults(nmax)
}

func capAdults(nmax float64) float64 {
	if nmax < 1.75 {
		return nmax
	}
	return 1.75 + 0.3*(nmax-1.75)
}

// jouleEffect reports whether any heating generator is direct electric.
// Unknown generators are diagnosed by the heating stage, not here.
func (r *run) jouleEffect() bool {
	for _, inst := range r.d.Heating {
		for _, g := range inst.Generators {
			row, ok := r.store.Resolve(tblGenCh, tables.Where("enum_type_generateur_ch_id", g.GeneratorType))
			if !ok {
				continue
			}
			if fam, _ := row.Label("famille"); fam == string(familyDirectElectric) {
				return true
			}
		}
	}
	return false
}

func (r *run) climate(zone, altitude string) Climate {
	series := func(quantity string) dpe.Monthly {
		return r.monthlyRow("", tblClimate,
			tables.Where("zone", zone).And("enum_classe_altitude_id", altitude).And("grandeur", quantity))
	}
	return Climate{
		DH19:   series("dh19"),
		DH21:   series("dh21"),
		Nref19: series("nref19"),
		Nref21: series("nref21"),
		E:      series("e"),
		Tefs:   series("tefs"),
		Nhecl:  series("nhecl"),
		Nref26: series("nref26"),
		Nref28: series("nref28"),
		TextFr: series("text_fr"),
	}
}

// monthlyRow reads the m01..m12 columns of a row. A missing row or month
// yields NaN for the affected months.
func (r *run) monthlyRow(ref, table string, c tables.Criteria) dpe.Monthly {
	var m dpe.Monthly
	row, diag := r.row(ref, table, c)
	if diag != nil {
		for i := range m {
			m[i] = math.NaN()
		}
		return m
	}
	for i := range m {
		m[i] = r.column(ref, table, row, monthColumn(i)).Get()
	}
	return m
}

func monthColumn(i int) string {
	return fmt.Sprintf("m%02d", i+1)
}

// daysInMonth is the number of days of each month of the reference year.
//
//nolint:gochecknoglobals // constant lookup table
var daysInMonth = [12]float64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

package engine

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	store, err := tables.Default()
	require.NoError(t, err)
	e, err := New(store, opts...)
	require.NoError(t, err)
	return e
}

// houseFixture is a 100 m2 gas-heated house in zone H1a whose every
// lookup resolves against the default tables.
func houseFixture() *dpe.Dwelling {
	uninsulated := dpe.Insulation{U0Method: "2", UMethod: "1"}
	exterior := dpe.Adjacency{AdjacencyType: "1"}
	return &dpe.Dwelling{
		Number: "TEST-HOUSE",
		Characteristics: dpe.Characteristics{
			ApplicationMethod:  "1",
			ConstructionPeriod: "4",
			DwellingArea:       100,
			CeilingHeight:      2.5,
		},
		Meteo: dpe.Meteo{ClimateZone: "1", AltitudeClass: "1"},
		Envelope: dpe.Envelope{
			Walls: []dpe.Wall{{
				Reference:  "mur-1",
				Adjacency:  exterior,
				Insulation: uninsulated,
				Surface:    100,
				Material:   "1",
			}},
			LowerFloors: []dpe.LowerFloor{{
				Reference:  "pb-1",
				Adjacency:  dpe.Adjacency{AdjacencyType: "5"},
				Insulation: uninsulated,
				Surface:    100,
				Perimeter:  40,
				FloorType:  "1",
			}},
			UpperFloors: []dpe.UpperFloor{{
				Reference:  "ph-1",
				Adjacency:  exterior,
				Insulation: uninsulated,
				Surface:    100,
				FloorType:  "1",
			}},
			Windows: []dpe.Window{{
				Reference:    "baie-1",
				Adjacency:    exterior,
				Surface:      15,
				Orientation:  "1",
				Inclination:  "3",
				GlazingType:  "2",
				GapThickness: 12,
				FrameType:    "1",
			}},
			Doors: []dpe.Door{{
				Reference: "porte-1",
				Adjacency: exterior,
				Surface:   2,
				DoorType:  "1",
			}},
		},
		Ventilations: []dpe.Ventilation{{Reference: "vmc-1", VentilationType: "4"}},
		Heating: []dpe.HeatingInstallation{{
			Reference:     "ch-1",
			Configuration: dpe.HeatingSimple,
			Surface:       100,
			Generators: []dpe.HeatingGenerator{{
				Reference:        "gen-1",
				GeneratorType:    "25",
				Energy:           "2",
				InstallationYear: 2000,
				Pn:               24,
				InHeatedVolume:   true,
			}},
			Emitters: []dpe.Emitter{{
				Reference:          "em-1",
				EmitterType:        "6",
				Surface:            100,
				GeneratorReference: "gen-1",
			}},
		}},
		HotWater: []dpe.DHWInstallation{{
			Reference:       "ecs-1",
			InHeatedVolume:  true,
			ContiguousRooms: true,
			Generators: []dpe.DHWGenerator{{
				Reference:      "ballon-1",
				GeneratorType:  "1",
				Energy:         "1",
				StorageVolume:  200,
				InHeatedVolume: true,
			}},
		}},
	}
}

func diagnosticsOf(out *dpe.Outputs, kind dpe.DiagnosticKind) []dpe.Diagnostic {
	var found []dpe.Diagnostic
	for _, d := range out.Diagnostics {
		if d.Kind == kind {
			found = append(found, d)
		}
	}
	return found
}

func TestNew(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, ErrNilStore)
	})

	t.Run("missing table", func(t *testing.T) {
		store, err := tables.Load(fstest.MapFS{
			"manifest.yaml": {Data: []byte("version: \"1.0.0\"\nmethod: test\n")},
			"b.yaml":        {Data: []byte("name: b\nkeys: [enum_type_adjacence_id]\nrows:\n  - {enum_type_adjacence_id: \"4\", b: 0.2}\n")},
		})
		require.NoError(t, err)
		_, err = New(store)
		require.ErrorIs(t, err, tables.ErrTableNotFound)
	})

	t.Run("options", func(t *testing.T) {
		e := newTestEngine(t, WithCompatMode(true), WithMissingPolicy(MissingFail))
		assert.True(t, e.CompatMode())
		assert.Equal(t, MissingFail, e.Policy())
		assert.NotNil(t, e.Store())
	})
}

func TestParseMissingPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MissingPolicy
		wantErr bool
	}{
		{in: "", want: MissingWarn},
		{in: "warn", want: MissingWarn},
		{in: " FAIL ", want: MissingFail},
		{in: "ignore", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMissingPolicy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestRun_House(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)
	require.Same(t, out, d.Outputs)

	assert.Empty(t, out.Diagnostics)
	assert.Equal(t, "h1a", out.Context.ClimateZone)
	assert.Equal(t, "h1", out.Context.ClimateGroup)
	assert.Equal(t, "maison", out.Context.HabitationType)
	assert.InDelta(t, 1.75+0.3*(2.5-1.75), float64(out.Context.Nadeq), 1e-9)
	assert.Equal(t, "legere", out.Context.InertiaClass)

	walls := out.Envelope.Walls
	require.Len(t, walls, 1)
	assert.InDelta(t, 2.5, float64(walls[0].U), 1e-9)
	assert.InDelta(t, 250, float64(walls[0].Loss), 1e-9)
	assert.Equal(t, "non_isole", walls[0].Insulation)

	win := out.Envelope.Windows[0]
	assert.InDelta(t, 2.8, float64(win.Ug), 1e-9)
	assert.InDelta(t, 2.6, float64(win.Uw), 1e-9)
	assert.InDelta(t, 2.6, float64(win.U), 1e-9)
	assert.InDelta(t, 0.459, float64(win.Sw), 1e-9)

	assert.InDelta(t, float64(out.Losses.Envelope+out.Losses.Renewal), float64(out.Losses.GV), 1e-9)
	assert.Positive(t, float64(out.Losses.GV))

	gn := out.GainsNeeds
	assert.Positive(t, float64(gn.Heating))
	assert.LessOrEqual(t, float64(gn.Heating), gn.HeatingMonthly.Sum())
	assert.InDelta(t, gn.HeatingMonthly.Sum()-float64(gn.RecoveredGenerator+gn.RecoveredStorage),
		float64(gn.Heating), 1e-6)

	require.Len(t, out.Installations.Heating, 1)
	heating := out.Installations.Heating[0]
	require.Len(t, heating.Generators, 1)
	gen := heating.Generators[0]
	assert.Equal(t, "combustion", gen.Family)
	assert.Equal(t, "chaudiere_standard", gen.SubType)
	assert.Greater(t, float64(gen.Rg), 0.5)
	assert.Less(t, float64(gen.Rg), 1.0)
	assert.Positive(t, float64(heating.Distribution))

	assert.Positive(t, float64(out.Final.Heating))
	assert.Positive(t, float64(out.Final.HotWater))
	assert.Positive(t, float64(out.Final.Lighting))
	assert.Zero(t, float64(out.Final.Cooling))
	assert.InDelta(t, float64(out.Primary.Total)/100, float64(out.Primary.PerSquareMeter), 1e-9)

	require.Len(t, out.ByEnergy, 2)
	assert.Equal(t, "1", out.ByEnergy[0].Energy)
	assert.Equal(t, "electricite", out.ByEnergy[0].Label)
	assert.Equal(t, "2", out.ByEnergy[1].Energy)

	assert.NotEmpty(t, out.Labels.EnergyClass)
	assert.NotEmpty(t, out.Labels.EmissionClass)
	assert.NotEmpty(t, out.Labels.Class)
}

func TestRun_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()

	_, err := e.Run(context.Background(), d)
	require.NoError(t, err)
	first, err := json.Marshal(d)
	require.NoError(t, err)

	_, err = e.Run(context.Background(), d)
	require.NoError(t, err)
	second, err := json.Marshal(d)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestRun_InputErrors(t *testing.T) {
	e := newTestEngine(t)

	t.Run("nil dwelling", func(t *testing.T) {
		_, err := e.Run(context.Background(), nil)
		require.ErrorIs(t, err, ErrNilDwelling)
	})

	t.Run("no habitable area", func(t *testing.T) {
		d := houseFixture()
		d.Characteristics.DwellingArea = 0
		_, err := e.Run(context.Background(), d)
		require.ErrorIs(t, err, ErrStructural)
		assert.NotNil(t, d.Outputs)
	})

	t.Run("installation without emitters", func(t *testing.T) {
		d := houseFixture()
		d.Heating[0].Emitters = nil
		_, err := e.Run(context.Background(), d)
		require.ErrorIs(t, err, ErrStructural)
	})
}

func TestRun_NoHeating(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	d.Heating = nil

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)

	assert.Positive(t, out.GainsNeeds.HeatingMonthly.Sum())
	assert.Zero(t, float64(out.GainsNeeds.Heating))
	assert.Zero(t, float64(out.GainsNeeds.RecoveredGenerator))
	assert.NotNil(t, out.Installations.Heating)
	assert.Empty(t, out.Installations.Heating)
	assert.Zero(t, float64(out.Final.Heating))

	require.Len(t, out.Installations.HotWater, 1)
	assert.Positive(t, float64(out.Final.HotWater))
	assert.Positive(t, float64(out.Final.Lighting))
	assert.NotEmpty(t, out.Labels.Class)
}

func TestRun_ReferenceWall(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	d.Meteo.ClimateZone = "8"
	d.Characteristics.ConstructionPeriod = "2"
	d.Envelope.Walls = []dpe.Wall{{
		Reference:  "2213E0696993Z-mur",
		Adjacency:  dpe.Adjacency{AdjacencyType: "14"},
		Insulation: dpe.Insulation{U0Method: "1", UMethod: "2"},
		Surface:    20,
		Material:   "1",
	}}

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)

	wall := out.Envelope.Walls[0]
	assert.InDelta(t, 0.35, float64(wall.B), 1e-9)
	assert.InDelta(t, 2.5, float64(wall.U0), 1e-9)
	assert.InDelta(t, 2.5, float64(wall.U), 1e-9)
	assert.InDelta(t, 0.35*20*2.5, float64(wall.Loss), 1e-9)
}

func TestRun_ThicknessUnits(t *testing.T) {
	insulated := dpe.Wall{
		Reference:  "mur-isole",
		Adjacency:  dpe.Adjacency{AdjacencyType: "1"},
		Insulation: dpe.Insulation{U0Method: "1", UMethod: "3", InsulationThickness: 100},
		Surface:    100,
		Material:   "1",
	}
	tests := []struct {
		name   string
		compat bool
		want   float64
	}{
		{name: "millimetres converted", compat: false, want: 1 / (1/2.5 + 10.0/100/0.04)},
		{name: "compatibility keeps the entry", compat: true, want: 1 / (1/2.5 + 100.0/100/0.04)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, WithCompatMode(tt.compat))
			d := houseFixture()
			d.Envelope.Walls = []dpe.Wall{insulated}

			out, err := e.Run(context.Background(), d)
			require.NoError(t, err)
			assert.Equal(t, tt.compat, out.CompatMode)
			assert.InDelta(t, tt.want, float64(out.Envelope.Walls[0].U), 1e-9)
		})
	}
}

func TestRun_MissingPolicies(t *testing.T) {
	unknownGlazing := func() *dpe.Dwelling {
		d := houseFixture()
		d.Envelope.Windows[0].GlazingType = "99"
		return d
	}

	t.Run("warn continues", func(t *testing.T) {
		e := newTestEngine(t)
		out, err := e.Run(context.Background(), unknownGlazing())
		require.NoError(t, err)

		missing := diagnosticsOf(out, dpe.MissingReferenceValue)
		require.NotEmpty(t, missing)
		assert.Equal(t, "envelope", missing[0].Stage)
		assert.Equal(t, "baie-1", missing[0].Reference)
		assert.Equal(t, "ug", missing[0].Table)
		assert.Equal(t, "99", missing[0].Criteria["enum_type_vitrage_id"])

		assert.False(t, out.Envelope.Windows[0].Ug.Defined())
		assert.False(t, out.Losses.GV.Defined())

		raw, err := json.Marshal(out.Envelope.Windows[0])
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"ug":null`)
	})

	t.Run("fail stops after the stage", func(t *testing.T) {
		e := newTestEngine(t, WithMissingPolicy(MissingFail))
		d := unknownGlazing()
		out, err := e.Run(context.Background(), d)
		require.ErrorIs(t, err, ErrMissingReferenceValue)
		require.NotNil(t, out)
		assert.Same(t, out, d.Outputs)
		assert.Contains(t, err.Error(), "envelope")
		assert.Empty(t, out.Installations.Heating)
	})
}

func TestRun_UnknownEnumerations(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	d.Envelope.Walls[0].AdjacencyType = "99"
	d.Heating[0].Configuration = "9"

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)

	unknown := diagnosticsOf(out, dpe.UnknownEnumeration)
	fields := make(map[string]string)
	for _, diag := range unknown {
		fields[diag.Field] = diag.Stage
	}
	assert.Equal(t, "envelope", fields["enum_type_adjacence_id"])
	assert.Equal(t, "heating_dhw", fields["enum_cfg_installation_ch_id"])

	assert.InDelta(t, 1.0, float64(out.Envelope.Walls[0].B), 1e-9)
	assert.InDelta(t, 1.0, float64(out.Installations.Heating[0].Generators[0].Share), 1e-9)
}

func TestRun_GroundFloorPooling(t *testing.T) {
	uninsulated := dpe.Insulation{U0Method: "2", UMethod: "1"}
	floor := func(ref, adjacency string, surface, perimeter float64) dpe.LowerFloor {
		return dpe.LowerFloor{
			Reference:  ref,
			Adjacency:  dpe.Adjacency{AdjacencyType: adjacency},
			Insulation: uninsulated,
			Surface:    surface,
			Perimeter:  perimeter,
			FloorType:  "1",
		}
	}
	// slabUe is the ue of a lone slab-on-grade floor, whose 2S/P is its own.
	slabUe := func(t *testing.T, surface, perimeter float64) float64 {
		t.Helper()
		d := houseFixture()
		d.Envelope.LowerFloors = []dpe.LowerFloor{floor("pb-ref", "5", surface, perimeter)}
		out, err := newTestEngine(t).Run(context.Background(), d)
		require.NoError(t, err)
		return float64(out.Envelope.LowerFloors[0].Ue)
	}

	tests := []struct {
		name   string
		compat bool
		// surface and perimeter of a lone slab with the expected 2S/P
		surface, perimeter float64
	}{
		{name: "pooled per adjacency type", compat: false, surface: 100, perimeter: 20},
		{name: "all ground floors pooled in compatibility mode", compat: true, surface: 60, perimeter: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := houseFixture()
			d.Envelope.LowerFloors = []dpe.LowerFloor{
				floor("pb-terre-plein", "5", 100, 20),
				floor("pb-vide-sanitaire", "3", 20, 20),
			}
			e := newTestEngine(t, WithCompatMode(tt.compat))

			out, err := e.Run(context.Background(), d)
			require.NoError(t, err)

			require.Len(t, out.Envelope.LowerFloors, 2)
			want := slabUe(t, tt.surface, tt.perimeter)
			assert.Positive(t, want)
			assert.InDelta(t, want, float64(out.Envelope.LowerFloors[0].Ue), 1e-9)
		})
	}

	assert.NotEqual(t, slabUe(t, 100, 20), slabUe(t, 60, 20))
}

func TestRun_BufferSpaceGains(t *testing.T) {
	e := newTestEngine(t)

	base, err := e.Run(context.Background(), houseFixture())
	require.NoError(t, err)
	win := base.Envelope.Windows[0]
	sw := float64(win.Sw)
	// baie-1 faces the same orientation and inclination as the veranda
	// glazing, so the baseline yields the monthly c1 factors.
	var c1 dpe.Monthly
	for j := range c1 {
		c1[j] = base.GainsNeeds.SouthEquivalentSurface[j] / (15 * sw * float64(win.Fe1*win.Fe2))
	}

	const (
		bver  = 0.63 // h1, orientation 1, not insulated
		trans = 0.57 // wood frame, double glazing
	)
	glazing := dpe.BufferGlazing{Surface: 10, Orientation: "1", Inclination: "3", GlazingType: "2", FrameType: "1"}
	indirect := 10 * (etsIndirectT*trans + etsIndirectBase)

	tests := []struct {
		name      string
		onBuffer  bool
		glazings  []dpe.BufferGlazing
		wantTrans float64
		want      func(j int) float64
	}{
		{
			name:      "indirect gains only",
			glazings:  []dpe.BufferGlazing{glazing},
			wantTrans: trans,
			want: func(j int) float64 {
				return base.GainsNeeds.SouthEquivalentSurface[j] + bver*indirect*c1[j]
			},
		},
		{
			name:      "window opening onto the veranda",
			onBuffer:  true,
			glazings:  []dpe.BufferGlazing{glazing},
			wantTrans: trans,
			want: func(j int) float64 {
				return trans*15*sw*c1[j] + bver*indirect*c1[j]
			},
		},
		{
			name:     "veranda without glazing",
			onBuffer: true,
			want:     func(int) float64 { return 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := houseFixture()
			d.Envelope.BufferSpaces = []dpe.BufferSpace{{
				Reference:   "ets-1",
				Orientation: "1",
				Glazings:    tt.glazings,
			}}
			if tt.onBuffer {
				d.Envelope.Windows[0].Adjacency = dpe.Adjacency{AdjacencyType: "10", ReferenceETS: "ets-1"}
			}

			out, runErr := e.Run(context.Background(), d)
			require.NoError(t, runErr)

			require.Len(t, out.Envelope.BufferSpaces, 1)
			assert.InDelta(t, bver, float64(out.Envelope.BufferSpaces[0].Bver), 1e-9)
			assert.InDelta(t, tt.wantTrans, float64(out.Envelope.BufferSpaces[0].Transmission), 1e-9)
			for j, got := range out.GainsNeeds.SouthEquivalentSurface {
				assert.InDelta(t, tt.want(j), got, 1e-9, "month %d", j)
			}
		})
	}
}

func TestRun_Cascade(t *testing.T) {
	tests := []struct {
		name      string
		genType   string
		year      int
		wantPveil float64
	}{
		{name: "condensing boilers", genType: "29", year: 2020, wantPveil: 0},
		{name: "standard boilers with pilot light", genType: "23", year: 1975, wantPveil: 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			d := houseFixture()
			d.Heating[0].Configuration = dpe.HeatingCascade
			d.Heating[0].Emitters[0].GeneratorReference = ""
			d.Heating[0].Generators = []dpe.HeatingGenerator{
				{Reference: "chaudiere-1", GeneratorType: tt.genType, Energy: "2", InstallationYear: tt.year, Pn: 20},
				{Reference: "chaudiere-2", GeneratorType: tt.genType, Energy: "2", InstallationYear: tt.year, Pn: 10},
			}

			out, err := e.Run(context.Background(), d)
			require.NoError(t, err)

			inst := out.Installations.Heating[0]
			require.Len(t, inst.Generators, 2)
			g1, g2 := inst.Generators[0], inst.Generators[1]
			assert.InDelta(t, 2.0/3, float64(g1.Share), 1e-9)
			assert.InDelta(t, 1.0/3, float64(g2.Share), 1e-9)
			assert.InDelta(t, tt.wantPveil, float64(g1.Pveil), 1e-9)
			assert.InDelta(t, tt.wantPveil, float64(g2.Pveil), 1e-9)

			sum := float64(g1.Consumption + g2.Consumption)
			assert.InDelta(t, float64(inst.Consumption), sum, 1e-9)
			assert.InDelta(t, 2.0, float64(g1.Consumption)/float64(g2.Consumption), 1e-9)
			assert.InDelta(t, 2.0, float64(g1.ConsumptionSpend)/float64(g2.ConsumptionSpend), 1e-9)

			rg := 30 / (20/float64(g1.Rg) + 10/float64(g2.Rg))
			want := float64(inst.Need) * float64(g1.I0) / (rg * float64(g1.Re*g1.Rd*g1.Rr))
			if tt.wantPveil == 0 {
				assert.InDelta(t, want, sum, 1e-6*want)
			} else {
				assert.Greater(t, sum, want)
			}
		})
	}
}

func TestRun_BaseAndBackup(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	d.Heating[0].Configuration = dpe.HeatingBaseBackup
	d.Heating[0].Emitters[0].GeneratorReference = ""
	d.Heating[0].Generators = []dpe.HeatingGenerator{
		{Reference: "pac", GeneratorType: "6", Energy: "1", InstallationYear: 2020, Pn: 2},
		{Reference: "appoint", GeneratorType: "37", Energy: "1", Backup: true},
	}

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)

	gens := out.Installations.Heating[0].Generators
	require.Len(t, gens, 2)
	assert.InDelta(t, 1.0, float64(gens[0].Share+gens[1].Share), 1e-9)
	assert.Positive(t, float64(gens[1].Share))
	assert.Zero(t, float64(gens[1].Auxiliary))
}

func TestRun_RecoverableGeneratorLosses(t *testing.T) {
	tests := []struct {
		name        string
		genType     string
		inVolume    bool
		wantPositive bool
	}{
		{name: "boiler in heated volume", genType: "25", inVolume: true, wantPositive: true},
		{name: "boiler outside heated volume", genType: "25", inVolume: false},
		{name: "warm air generator in heated volume", genType: "35", inVolume: true},
		{name: "condensing warm air generator in heated volume", genType: "36", inVolume: true},
		{name: "heat pump in heated volume", genType: "6", inVolume: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := houseFixture()
			g := &d.Heating[0].Generators[0]
			g.GeneratorType = tt.genType
			g.InHeatedVolume = tt.inVolume

			out, err := newTestEngine(t).Run(context.Background(), d)
			require.NoError(t, err)

			gen := out.Installations.Heating[0].Generators[0]
			if tt.wantPositive {
				assert.Positive(t, float64(gen.Recoverable))
				assert.Positive(t, float64(gen.RecoverableSpend))
			} else {
				assert.Zero(t, float64(gen.Recoverable))
				assert.Zero(t, float64(gen.RecoverableSpend))
			}
			assert.InDelta(t, float64(gen.Recoverable), float64(out.GainsNeeds.RecoveredGenerator), 1e-9)
		})
	}
}

func TestRun_HeatPumpScop(t *testing.T) {
	e := newTestEngine(t)
	heatPump := func(linkedTo string, entered float64) *dpe.Dwelling {
		d := houseFixture()
		d.Heating[0].Generators = []dpe.HeatingGenerator{{
			Reference:        "pac-1",
			GeneratorType:    "6",
			Energy:           "1",
			InstallationYear: 2020,
			Pn:               8,
			ScopEntered:      entered,
		}}
		d.Heating[0].Emitters[0].GeneratorReference = linkedTo
		return d
	}

	ref, err := e.Run(context.Background(), heatPump("pac-1", 0))
	require.NoError(t, err)
	tableScop := float64(ref.Installations.Heating[0].Generators[0].Scop)
	require.Positive(t, tableScop)
	require.NotEqual(t, 7.5, tableScop)

	tests := []struct {
		name     string
		linkedTo string
		entered  float64
		want     float64
	}{
		{name: "linked emitter category wins over entered", linkedTo: "pac-1", entered: 7.5, want: tableScop},
		{name: "entered value without linked emitter", linkedTo: "", entered: 7.5, want: 7.5},
		{name: "emitter linked elsewhere uses entered", linkedTo: "other", entered: 7.5, want: 7.5},
		{name: "table without linked emitter nor entered", linkedTo: "", entered: 0, want: tableScop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, runErr := e.Run(context.Background(), heatPump(tt.linkedTo, tt.entered))
			require.NoError(t, runErr)
			g := out.Installations.Heating[0].Generators[0]
			assert.InDelta(t, tt.want, float64(g.Scop), 1e-9)
			assert.InDelta(t, tt.want, float64(g.Rg), 1e-9)
		})
	}
}

func TestRun_Cooling(t *testing.T) {
	e := newTestEngine(t)
	d := houseFixture()
	d.Cooling = []dpe.CoolingInstallation{{
		Reference: "clim-1",
		Surface:   50,
		Generators: []dpe.CoolingGenerator{{
			Reference:        "split-1",
			GeneratorType:    "1",
			Energy:           "1",
			InstallationYear: 2016,
			EEREntered:       4,
		}},
	}}

	out, err := e.Run(context.Background(), d)
	require.NoError(t, err)

	require.Len(t, out.Installations.Cooling, 1)
	c := out.Installations.Cooling[0]
	assert.InDelta(t, 0.5, float64(c.Share), 1e-9)
	assert.InDelta(t, 4, float64(c.EER), 1e-9)
	want := coolingConsumptionFactor * float64(out.GainsNeeds.Cooling) * 0.5 / 4
	assert.InDelta(t, want, float64(c.Consumption), 1e-9)
	assert.InDelta(t, want, float64(out.Final.Cooling), 1e-9)
}

func BenchmarkRun(b *testing.B) {
	store, err := tables.Default()
	require.NoError(b, err)
	e, err := New(store)
	require.NoError(b, err)
	ctx := context.Background()

	for b.Loop() {
		if _, err = e.Run(ctx, houseFixture()); err != nil {
			b.Fatal(err)
		}
	}
}

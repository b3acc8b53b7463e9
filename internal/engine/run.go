package engine

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/logging"
	"github.com/rshade/dpe3cl/internal/tables"
)

// Reference table names.
const (
	tblMethod          = "methode_application"
	tblZone            = "zone_climatique"
	tblClimate         = "climat"
	tblTbase           = "tbase"
	tblB               = "b"
	tblUvue            = "uvue"
	tblBLnc            = "b_lnc"
	tblBEts            = "b_ets"
	tblEtsTransparency = "coef_transparence_ets"
	tblUmur0           = "umur0"
	tblUpb0            = "upb0"
	tblUph0            = "uph0"
	tblUForfait        = "u_forfait"
	tblUe              = "ue"
	tblUporte          = "uporte"
	tblInsulationType  = "type_isolation"
	tblUg              = "ug"
	tblUw              = "uw"
	tblUjn             = "ujn"
	tblClosure         = "fermeture"
	tblSw              = "sw"
	tblNearMask        = "masque_proche"
	tblFarMask         = "masque_lointain"
	tblC1              = "c1"
	tblBridge          = "pont_thermique"
	tblVentilation     = "ventilation"
	tblQ4Pa            = "q4pa_conv"
	tblInertia         = "inertie"
	tblGenCh           = "generateur_ch"
	tblGenEcs          = "generateur_ecs"
	tblGenFr           = "generateur_fr"
	tblScop            = "scop"
	tblCopEcs          = "cop_ecs"
	tblEer             = "eer"
	tblCombustion      = "combustion"
	tblTfonc           = "temperature_fonctionnement"
	tblLoadShare       = "repartition_charge"
	tblFlatEfficiency  = "rendement_generation"
	tblEmitter         = "emetteur_ch"
	tblIntermittence   = "intermittence"
	tblBackupCoverage  = "couverture_appoint"
	tblAuxGeneration   = "auxiliaire_generation"
	tblCirculator      = "circulateur"
	tblDhwDistribution = "ecs_distribution"
	tblEnergy          = "energie"
)

type stage struct {
	name string
	fn   func(*run) error
}

// stages run in this order, unconditionally.
//
//nolint:gochecknoglobals // read-only pipeline definition
var stages = []stage{
	{name: "reset", fn: (*run).reset},
	{name: "context", fn: (*run).buildContext},
	{name: "envelope", fn: (*run).envelope},
	{name: "gains_needs", fn: (*run).gainsAndNeeds},
	{name: "cooling", fn: (*run).cooling},
	{name: "heating_dhw", fn: (*run).heatingAndHotWater},
	{name: "finalize", fn: (*run).finalize},
}

// run is the state of one evaluation. Inputs stay in d; computed values go
// to out; lookups and flags derived along the way live in the resolved
// fields, indexed like the input collections.
type run struct {
	store  *tables.Store
	compat bool
	log    *zerolog.Logger

	d   *dpe.Dwelling
	out *dpe.Outputs
	ctx Context

	stage        string
	missingCount int

	walls   []wallData
	lower   []floorData
	upper   []floorData
	windows []windowData
	inertia inertia
	gv      float64
	needs   needs
	use     useTotals
}

func newRun(e *Engine, d *dpe.Dwelling, log *zerolog.Logger) *run {
	return &run{
		store:  e.store,
		compat: e.compat,
		log:    log,
		d:      d,
	}
}

// reset discards every previous result, in the record and in the run.
func (r *run) reset() error {
	r.d.Outputs = nil
	r.out = &dpe.Outputs{
		TablesVersion: r.store.Manifest().Version,
		CompatMode:    r.compat,
		Diagnostics:   []dpe.Diagnostic{},
	}
	r.ctx = Context{}
	r.missingCount = 0
	r.walls = nil
	r.lower = nil
	r.upper = nil
	r.windows = nil
	r.inertia = inertia{}
	r.gv = 0
	r.needs = needs{}
	r.use = useTotals{}
	return nil
}

// diagnose records d against the current stage and logs it.
func (r *run) diagnose(d dpe.Diagnostic) *dpe.Diagnostic {
	d.Stage = r.stage
	r.out.Diagnostics = append(r.out.Diagnostics, d)
	if d.Kind == dpe.MissingReferenceValue {
		r.missingCount++
	}
	r.log.Warn().
		Str(logging.FieldStage, d.Stage).
		Str("type", string(d.Kind)).
		Str("reference", d.Reference).
		Str("table", d.Table).
		Str("field", d.Field).
		Msg(d.Message)
	return &d
}

// row resolves a table row, recording a diagnostic when none matches.
func (r *run) row(ref, table string, c tables.Criteria) (tables.Row, *dpe.Diagnostic) {
	row, ok := r.store.Resolve(table, c)
	if ok {
		return row, nil
	}
	return tables.Row{}, r.diagnose(dpe.Diagnostic{
		Kind:      dpe.MissingReferenceValue,
		Reference: ref,
		Table:     table,
		Criteria:  c.Fields(),
		Message:   fmt.Sprintf("no row of %s matches %s", table, c),
	})
}

// lookup resolves one numeric column.
func (r *run) lookup(ref, table string, c tables.Criteria, column string) Value {
	row, diag := r.row(ref, table, c)
	if diag != nil {
		return missing(diag)
	}
	return r.column(ref, table, row, column)
}

// column reads a numeric column of an already resolved row.
func (r *run) column(ref, table string, row tables.Row, column string) Value {
	v, ok := row.Float(column)
	if !ok {
		return missing(r.diagnose(dpe.Diagnostic{
			Kind:      dpe.MissingReferenceValue,
			Reference: ref,
			Table:     table,
			Field:     column,
			Message:   fmt.Sprintf("row %d of %s has no value for %s", row.Index(), table, column),
		}))
	}
	return Known(v)
}

// label resolves one text column. The empty string means missing.
func (r *run) label(ref, table string, c tables.Criteria, column string) string {
	row, diag := r.row(ref, table, c)
	if diag != nil {
		return ""
	}
	v, ok := row.Label(column)
	if !ok {
		r.diagnose(dpe.Diagnostic{
			Kind:      dpe.MissingReferenceValue,
			Reference: ref,
			Table:     table,
			Field:     column,
			Message:   fmt.Sprintf("row %d of %s has no label %s", row.Index(), table, column),
		})
	}
	return v
}

// missingInput records an input the selected method requires but the
// record leaves empty.
func (r *run) missingInput(ref, field string) Value {
	return missing(r.diagnose(dpe.Diagnostic{
		Kind:      dpe.MissingReferenceValue,
		Reference: ref,
		Field:     field,
		Message:   fmt.Sprintf("%s is required by the selected method", field),
	}))
}

// unknownEnum records an identifier without mapped behaviour and the
// branch taken instead.
func (r *run) unknownEnum(ref, field, value, fallback string) {
	r.diagnose(dpe.Diagnostic{
		Kind:      dpe.UnknownEnumeration,
		Reference: ref,
		Field:     field,
		Criteria:  map[string]string{field: value},
		Message:   fmt.Sprintf("unknown %s %q, using %s", field, value, fallback),
	})
}

func boolID(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// periodAtMost reports whether a construction or insulation period id is
// known and not after limit.
func periodAtMost(period string, limit int) bool {
	p, err := strconv.Atoi(period)
	return err == nil && p <= limit
}

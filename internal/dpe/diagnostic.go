package dpe

// DiagnosticKind classifies a non-fatal anomaly found during a run.
type DiagnosticKind string

const (
	// MissingReferenceValue is reported when no reference table row matches
	// the criteria of a lookup.
	MissingReferenceValue DiagnosticKind = "valeur_reference_manquante"

	// UnknownEnumeration is reported when an enumerated identifier has no
	// mapped behavior and a documented default branch was taken.
	UnknownEnumeration DiagnosticKind = "enumeration_inconnue"
)

// Diagnostic records one anomaly: which stage and element raised it and,
// for table lookups, the table and the criteria that did not match.
type Diagnostic struct {
	Kind      DiagnosticKind    `json:"type"`
	Stage     string            `json:"etape"`
	Reference string            `json:"reference,omitempty"`
	Table     string            `json:"table,omitempty"`
	Field     string            `json:"champ,omitempty"`
	Criteria  map[string]string `json:"criteres,omitempty"`
	Message   string            `json:"message"`
}

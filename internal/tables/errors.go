package tables

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the table store. Compare with errors.Is.
var (
	// ErrTableNotFound indicates that no table with the requested name is loaded.
	ErrTableNotFound = constError("reference table not found")

	// ErrInvalidTable indicates a table file that cannot be decoded into rows.
	ErrInvalidTable = constError("invalid reference table")

	// ErrIncompatibleVersion indicates a table set whose manifest version does
	// not satisfy the configured constraint.
	ErrIncompatibleVersion = constError("incompatible reference table version")
)

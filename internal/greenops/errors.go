package greenops

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors. Compare with errors.Is.
var (
	// ErrInvalidClass indicates a label letter outside A to G.
	ErrInvalidClass = constError("invalid label class")
)

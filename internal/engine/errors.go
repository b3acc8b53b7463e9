package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by Engine.Run. Compare with errors.Is.
var (
	// ErrNilDwelling is returned when Run receives no dwelling.
	ErrNilDwelling = constError("nil dwelling record")

	// ErrNilStore is returned by New without a table store.
	ErrNilStore = constError("nil reference table store")

	// ErrMissingReferenceValue is returned under MissingFail when a stage
	// could not resolve a reference value.
	ErrMissingReferenceValue = constError("missing reference value")

	// ErrStructural reports an input the normalizer should have rejected,
	// such as a dwelling without habitable area.
	ErrStructural = constError("structural inconsistency")

	// ErrInvalidPolicy is returned by ParseMissingPolicy.
	ErrInvalidPolicy = constError("invalid missing value policy")
)

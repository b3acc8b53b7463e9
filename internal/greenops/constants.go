package greenops

// Upper bounds (exclusive) of classes A to F. Anything at or above the last
// bound is G.
//
//nolint:gochecknoglobals // read-only threshold tables
var (
	// EnergyThresholds apply to primary energy in kWh/m2/year.
	EnergyThresholds = [6]float64{70, 110, 180, 250, 330, 420}

	// EmissionThresholds apply to emissions in kgCO2e/m2/year.
	EmissionThresholds = [6]float64{6, 11, 30, 50, 70, 100}
)

// Display thresholds.
const (
	// LargeNumberThreshold switches FormatLarge to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches FormatLarge to "~X.X billion".
	BillionThreshold = 1_000_000_000
)

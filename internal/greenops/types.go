// Package greenops grades energy and greenhouse-gas performance.
//
// It rounds the per-square-metre indicators the way the label is published,
// maps them onto the A to G scale and formats figures for reports.
package greenops

import "fmt"

// Class is an energy or emission label, A (best) to G (worst).
type Class int

const (
	// ClassUnknown is returned for undefined indicators.
	ClassUnknown Class = iota
	ClassA
	ClassB
	ClassC
	ClassD
	ClassE
	ClassF
	ClassG
)

// String returns the letter of the class, or "" when unknown.
func (c Class) String() string {
	if c < ClassA || c > ClassG {
		return ""
	}
	return string(rune('A' + int(c-ClassA)))
}

// ParseClass returns the class of a letter.
func ParseClass(s string) (Class, error) {
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'G' {
		return ClassA + Class(s[0]-'A'), nil
	}
	return ClassUnknown, fmt.Errorf("%w: %q", ErrInvalidClass, s)
}

// Worse returns the worse of two classes. An unknown class wins, since the
// combined label cannot be established.
func Worse(a, b Class) Class {
	if a == ClassUnknown || b == ClassUnknown {
		return ClassUnknown
	}
	return max(a, b)
}

// Indicators are the rounded per-square-metre figures a rating is built from.
type Indicators struct {
	// PrimaryEnergy is the primary energy use in kWh/m2/year.
	PrimaryEnergy float64 `json:"ep_conso_m2"`

	// Emissions are greenhouse-gas emissions in kgCO2e/m2/year.
	Emissions float64 `json:"emission_ges_m2"`
}

// Rating is the outcome of grading a dwelling.
type Rating struct {
	Indicators

	EnergyClass   Class `json:"-"`
	EmissionClass Class `json:"-"`

	// Class is the published label: the worse of the two.
	Class Class `json:"-"`

	// DisplayText is the one-line summary for CLI output.
	// Example: "D (214 kWh/m2/an, 38 kgCO2e/m2/an)"
	DisplayText string `json:"display_text"`
}

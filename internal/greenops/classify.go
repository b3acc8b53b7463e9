package greenops

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RoundIndicator rounds a per-square-metre indicator to the nearest integer,
// halves away from zero, using decimal arithmetic so that values such as
// 69.5 are not pushed below the bound by binary representation. NaN and
// infinities are returned unchanged.
func RoundIndicator(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// RoundTo rounds v to places decimal places with the same rule as
// RoundIndicator.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func classify(v float64, thresholds [6]float64) Class {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ClassUnknown
	}
	for i, bound := range thresholds {
		if v < bound {
			return ClassA + Class(i)
		}
	}
	return ClassG
}

// ClassifyEnergy grades a rounded primary energy indicator (kWh/m2/year).
func ClassifyEnergy(cep float64) Class {
	return classify(cep, EnergyThresholds)
}

// ClassifyEmission grades a rounded emission indicator (kgCO2e/m2/year).
func ClassifyEmission(ges float64) Class {
	return classify(ges, EmissionThresholds)
}

// Rate rounds both indicators and grades them. The published class is the
// worse of the energy and emission classes.
func Rate(primaryPerM2, emissionPerM2 float64) Rating {
	in := Indicators{
		PrimaryEnergy: RoundIndicator(primaryPerM2),
		Emissions:     RoundIndicator(emissionPerM2),
	}
	r := Rating{
		Indicators:    in,
		EnergyClass:   ClassifyEnergy(in.PrimaryEnergy),
		EmissionClass: ClassifyEmission(in.Emissions),
	}
	r.Class = Worse(r.EnergyClass, r.EmissionClass)
	r.DisplayText = displayText(r)
	return r
}

func displayText(r Rating) string {
	if r.Class == ClassUnknown {
		return "label undefined"
	}
	return fmt.Sprintf("%s (%s kWh/m2/an, %s kgCO2e/m2/an)",
		r.Class, FormatFloat(r.PrimaryEnergy, 0), FormatFloat(r.Emissions, 0))
}

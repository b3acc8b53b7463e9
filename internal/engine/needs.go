package engine

import (
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
)

// Hot water draw per equivalent adult, L/day at 40 degC.
const (
	dhwVolumeStandard = 56.0
	dhwVolumeSpend    = 79.0
	waterHeatCapacity = 1.163 // Wh/L.K
	dhwTemperature    = 40.0
)

// needs are the gross monthly needs, kWh, before recovered losses.
type needs struct {
	heating      dpe.Monthly
	heatingSpend dpe.Monthly
	dhw          dpe.Monthly
	dhwSpend     dpe.Monthly
	cooling      dpe.Monthly
	coolingSpend dpe.Monthly
}

func (r *run) gainsAndNeeds() error {
	cl := &r.ctx.Climate
	out := &r.out.GainsNeeds

	sse := r.southEquivalentSurface()
	as := solarGains(sse, cl.E)
	ai := r.internalGains(cl.Nref19)
	aiSpend := r.internalGains(cl.Nref21)

	var fj, fjSpend dpe.Monthly
	for j := range 12 {
		fj[j] = gainUtilisation(as[j]+ai[j], r.gv, cl.DH19[j], r.inertia.exponent)
		fjSpend[j] = gainUtilisation(as[j]+aiSpend[j], r.gv, cl.DH21[j], r.inertia.exponent)
		r.needs.heating[j] = heatingNeed(r.gv, fj[j], cl.DH19[j])
		r.needs.heatingSpend[j] = heatingNeed(r.gv, fjSpend[j], cl.DH21[j])
	}

	r.needs.dhw = r.hotWaterNeed(dhwVolumeStandard)
	r.needs.dhwSpend = r.hotWaterNeed(dhwVolumeSpend)

	r.needs.cooling = r.coolingNeed(coolingSetpoint, cl.Nref28, sse)
	r.needs.coolingSpend = r.coolingNeed(coolingSetpointSpend, cl.Nref26, sse)

	out.SouthEquivalentSurface = sse
	out.SolarGains = as
	out.InternalGains = ai
	out.InternalGainsSpend = aiSpend
	out.Fj = fj
	out.FjSpend = fjSpend
	out.HeatingMonthly = r.needs.heating
	out.HeatingMonthlySpend = r.needs.heatingSpend
	out.Heating = dpe.Float(r.needs.heating.Sum())
	out.HeatingSpend = dpe.Float(r.needs.heatingSpend.Sum())
	out.HotWaterVolume = dpe.Float(r.ctx.Nadeq * dhwVolumeStandard)
	out.HotWaterVolumeSpend = dpe.Float(r.ctx.Nadeq * dhwVolumeSpend)
	out.HotWaterMonthly = r.needs.dhw
	out.HotWaterMonthlySpend = r.needs.dhwSpend
	out.HotWater = dpe.Float(r.needs.dhw.Sum())
	out.HotWaterSpend = dpe.Float(r.needs.dhwSpend.Sum())
	out.CoolingMonthly = r.needs.cooling
	out.CoolingMonthlySpend = r.needs.coolingSpend
	out.Cooling = dpe.Float(r.needs.cooling.Sum())
	out.CoolingSpend = dpe.Float(r.needs.coolingSpend.Sum())
	return nil
}

// gainUtilisation is the fraction Fj of the month's heating need covered
// by free gains. It is 0 when the month has no degree-hours.
func gainUtilisation(gains, gv, dh, a float64) float64 {
	if dh == 0 || gv*dh <= 0 {
		return 0
	}
	x := gains / (gv * dh)
	return utilisation(x, a)
}

// utilisation is (x - x^a)/(1 - x^a), with its limit (a-1)/a at x = 1.
func utilisation(x, a float64) float64 {
	if x == 1 {
		return (a - 1) / a
	}
	xa := math.Pow(x, a)
	return (x - xa) / (1 - xa)
}

// heatingNeed is the gross monthly heating need, kWh.
func heatingNeed(gv, fj, dh float64) float64 {
	if dh == 0 {
		return 0
	}
	return gv * (1 - fj) * dh / 1000
}

// hotWaterNeed is the monthly hot water need, kWh, for a daily draw of
// volume litres per equivalent adult.
func (r *run) hotWaterNeed(volume float64) dpe.Monthly {
	var b dpe.Monthly
	for j := range b {
		b[j] = waterHeatCapacity * r.ctx.Nadeq * volume *
			(dhwTemperature - r.ctx.Climate.Tefs[j]) * daysInMonth[j] / 1000
	}
	return b
}

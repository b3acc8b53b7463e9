package engine

import (
	"fmt"
	"math"

	"github.com/rshade/dpe3cl/internal/dpe"
	"github.com/rshade/dpe3cl/internal/tables"
)

const (
	// Recoverable boiler losses: the recovered fraction of standby losses
	// in the heated volume and the running-time multiplier.
	recoveredFraction = 0.48
	standbyShare      = 0.5
	runningTimeFactor = 1.3

	backupConfiguration = "base_appoint"
	backupDegree        = 5
)

// heatingPlan holds one installation's resolved generators before the
// net need is known.
type heatingPlan struct {
	inst     *dpe.HeatingInstallation
	ref      string
	share    float64
	emitters []emitterData
	gens     []generatorPlan
}

// generatorPlan holds one generator's performance and its share of the
// installation need.
type generatorPlan struct {
	g      *dpe.HeatingGenerator
	ref    string
	kind   generatorKind
	share  float64
	pn     float64
	eff    emitterEfficiency
	linked bool // eff comes from emitters linked to this generator
	perf   combustionPerf
	scop   float64
	rg     float64 // applied generation efficiency
	own    float64 // generator's own efficiency, reported

	recoverable      float64
	recoverableSpend float64
}

// heatingAndHotWater runs hot water first: its recoverable storage losses
// and the heating generators' recoverable losses reduce the heating need.
func (r *run) heatingAndHotWater() error {
	recStorage, recStorageSpend := r.hotWater()

	if len(r.d.Heating) == 0 {
		r.noHeating(recStorage, recStorageSpend)
		return nil
	}

	surfaces := make([]float64, len(r.d.Heating))
	for i := range r.d.Heating {
		surfaces[i] = r.d.Heating[i].Surface
	}
	shares := surfaceShares(surfaces)

	plans := make([]heatingPlan, len(r.d.Heating))
	var recGen, recGenSpend float64
	for i := range r.d.Heating {
		p, err := r.planHeating(&r.d.Heating[i], shares[i])
		if err != nil {
			return err
		}
		for j := range p.gens {
			recGen += p.gens[j].recoverable
			recGenSpend += p.gens[j].recoverableSpend
		}
		plans[i] = p
	}

	gross := r.needs.heating.Sum()
	grossSpend := r.needs.heatingSpend.Sum()
	net := math.Max(0, gross-recGen-recStorage)
	netSpend := math.Max(0, grossSpend-recGenSpend-recStorageSpend)

	out := &r.out.GainsNeeds
	out.Heating = dpe.Float(net)
	out.HeatingSpend = dpe.Float(netSpend)
	out.RecoveredGenerator = dpe.Float(recGen)
	out.RecoveredGeneratorSpend = dpe.Float(recGenSpend)
	out.RecoveredStorage = dpe.Float(recStorage)
	out.RecoveredStorageSpend = dpe.Float(recStorageSpend)

	r.out.Installations.Heating = make([]dpe.HeatingOutput, len(plans))
	for i := range plans {
		r.out.Installations.Heating[i] = r.heatingConsumption(&plans[i], net, netSpend)
	}
	return nil
}

// noHeating records a dwelling without heating installation: nothing
// consumes the need, so the net need is zero and no loss is recovered
// from a generator.
func (r *run) noHeating(recStorage, recStorageSpend float64) {
	out := &r.out.GainsNeeds
	out.Heating = 0
	out.HeatingSpend = 0
	out.RecoveredGenerator = 0
	out.RecoveredGeneratorSpend = 0
	out.RecoveredStorage = dpe.Float(recStorage)
	out.RecoveredStorageSpend = dpe.Float(recStorageSpend)
	r.out.Installations.Heating = []dpe.HeatingOutput{}
	r.log.Debug().Msg("no heating installation")
}

// planHeating resolves the emitters and generators of an installation and
// splits its need between the generators.
func (r *run) planHeating(inst *dpe.HeatingInstallation, share float64) (heatingPlan, error) {
	p := heatingPlan{inst: inst, ref: inst.Reference, share: share}
	if len(inst.Emitters) == 0 || len(inst.Generators) == 0 {
		return p, ErrStructural
	}
	p.emitters = r.emitters(inst)

	p.gens = make([]generatorPlan, len(inst.Generators))
	defaultPn := r.designPower(share) / float64(len(inst.Generators))
	for j := range inst.Generators {
		g := &inst.Generators[j]
		ref := g.Reference
		if ref == "" {
			ref = inst.Reference
		}
		served, linked := servedBy(p.emitters, g.Reference)
		gp := generatorPlan{
			g:      g,
			ref:    ref,
			kind:   r.generatorKind(ref, tblGenCh, "enum_type_generateur_ch_id", g.GeneratorType),
			pn:     g.Pn,
			eff:    weightedEmitters(served),
			linked: linked,
		}
		if gp.pn <= 0 {
			gp.pn = defaultPn
		}
		p.gens[j] = gp
	}

	switch inst.Configuration {
	case dpe.HeatingSimple, "":
		r.splitSimple(&p)
	case dpe.HeatingCascade:
		r.splitCascade(&p)
	case dpe.HeatingBaseBackup:
		r.splitBackup(&p)
	default:
		r.unknownEnum(inst.Reference, "enum_cfg_installation_ch_id", inst.Configuration, "a single generator configuration")
		r.splitSimple(&p)
	}

	for j := range p.gens {
		gp := &p.gens[j]
		gp.own = r.generationEfficiency(gp).Get()
		if gp.rg == 0 {
			gp.rg = gp.own
		}
		r.recoverableLosses(&p, gp)
	}
	if inst.Configuration == dpe.HeatingCascade {
		r.cascadeEfficiency(&p)
	}
	return p, nil
}

// splitSimple shares the need by the surface of the linked emitters.
func (r *run) splitSimple(p *heatingPlan) {
	surfaces := make([]float64, len(p.gens))
	for j := range p.gens {
		if linked(p.emitters, p.gens[j].g.Reference) {
			surfaces[j] = p.gens[j].eff.surface
		}
	}
	for j, s := range surfaceShares(surfaces) {
		p.gens[j].share = s
	}
}

func linked(ems []emitterData, ref string) bool {
	for _, e := range ems {
		if ref != "" && e.generator == ref {
			return true
		}
	}
	return false
}

// splitCascade shares the need in proportion to nominal power.
func (r *run) splitCascade(p *heatingPlan) {
	powers := make([]float64, len(p.gens))
	for j := range p.gens {
		powers[j] = p.gens[j].pn
	}
	for j, s := range surfaceShares(powers) {
		p.gens[j].share = s
	}
}

// cascadeEfficiency applies the power-weighted harmonic mean of the
// generator efficiencies to every generator of a cascade.
func (r *run) cascadeEfficiency(p *heatingPlan) {
	var power, weighted float64
	for j := range p.gens {
		power += p.gens[j].pn
		weighted += p.gens[j].pn / p.gens[j].own
	}
	rg := power / weighted
	for j := range p.gens {
		p.gens[j].rg = rg
	}
}

// splitBackup gives the backup generators the share of the need the base
// generators cannot cover below their balance temperature.
func (r *run) splitBackup(p *heatingPlan) {
	var base, backup []int
	var basePn float64
	for j := range p.gens {
		if p.gens[j].g.Backup {
			backup = append(backup, j)
			continue
		}
		base = append(base, j)
		basePn += p.gens[j].pn
	}
	if len(base) == 0 || len(backup) == 0 {
		r.splitSimple(p)
		return
	}

	f := r.backupCoverage(p.ref, basePn, p.share)
	for _, j := range base {
		p.gens[j].share = (1 - f) * p.gens[j].pn / basePn
	}
	for _, j := range backup {
		p.gens[j].share = f / float64(len(backup))
	}
}

// backupCoverage is the fraction of need met by backup generators when the
// base generators deliver basePn kW to a share of the dwelling.
func (r *run) backupCoverage(ref string, basePn, share float64) float64 {
	tbase := r.ctx.Tbase
	if r.gv <= 0 || share <= 0 || tbase >= heatingSetpoint {
		return 0
	}
	tbal := heatingSetpoint - basePn*1000*sizingEfficiency/(sizingFactor*r.gv*share)
	x := clamp((tbal-tbase)/(heatingSetpoint-tbase), 0, 1)

	row, diag := r.row(ref, tblBackupCoverage, tables.Where("configuration", backupConfiguration))
	if diag != nil {
		return 0
	}
	var f float64
	for k := 0; k <= backupDegree; k++ {
		a := r.column(ref, tblBackupCoverage, row, fmt.Sprintf("a%d", k))
		f += a.Or(0) * math.Pow(x, float64(k))
	}
	return clamp(f, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// generationEfficiency is the generator's own efficiency on gross
// calorific value.
func (r *run) generationEfficiency(gp *generatorPlan) Value {
	g := gp.g
	switch gp.kind.family {
	case familyCombustion:
		perf, ok := r.combustion(gp.ref, gp.kind.subType, g.InstallationYear, gp.pn, enteredPerf{
			rpn: g.RpnEntered, rpint: g.RpintEntered, qp0: g.QP0Entered, pveil: g.PveilEntered,
		})
		if !ok {
			gp.perf = perf
			return Value{Float: math.NaN()}
		}
		switch gp.kind.subType {
		case subGasRadiator, subWarmAir:
			perf.rpint = perf.rpn
		default:
			r.correctForTemperature(gp.ref, gp.kind.subType, gp.eff.tempClass, &perf)
		}
		gp.perf = perf
		rg := r.seasonalEfficiency(gp.ref, &perf)
		ratio := r.calorificRatio(gp.ref, g.Energy)
		return rg.Map(func(v float64) float64 { return v / ratio.Get() })
	case familyHeatPump:
		scop := r.scop(gp)
		gp.scop = scop.Get()
		return scop
	default:
		return r.flatEfficiency(gp.ref, usageHeating, g.GeneratorType)
	}
}

// scop reads the seasonal performance for the category of the emitters
// linked to the generator. The entered value wins when no emitter is
// linked or the category is unknown.
func (r *run) scop(gp *generatorPlan) Value {
	c := tables.Where("groupe", r.ctx.Group).
		And("sous_type", gp.kind.subType).
		Near("annee_installation", float64(gp.g.InstallationYear))
	known := gp.eff.category == "basse_temperature" || gp.eff.category == "haute_temperature"
	if gp.g.ScopEntered > 0 && (!gp.linked || !known) {
		return Known(gp.g.ScopEntered)
	}
	if known {
		return r.lookup(gp.ref, tblScop, c.And("categorie_emetteur", gp.eff.category), "scop")
	}
	return r.lookup(gp.ref, tblScop, c, "scop")
}

// recoverableLosses is the share of a boiler's standby losses recovered
// by the heated volume, month by month.
func (r *run) recoverableLosses(p *heatingPlan, gp *generatorPlan) {
	if gp.kind.family != familyCombustion || !gp.g.InHeatedVolume || gp.kind.subType == subWarmAir {
		return
	}
	if gp.pn <= 0 || math.IsNaN(gp.perf.qp0) {
		return
	}
	cl := &r.ctx.Climate
	k := p.share * gp.share
	gp.recoverable = recoveredLoss(gp.perf.qp0, gp.pn, r.needs.heating.Scale(k), cl.Nref19)
	gp.recoverableSpend = recoveredLoss(gp.perf.qp0, gp.pn, r.needs.heatingSpend.Scale(k), cl.Nref21)
}

func recoveredLoss(qp0, pn float64, need, nref dpe.Monthly) float64 {
	var total float64
	for j := range need {
		hours := math.Min(nref[j], runningTimeFactor*need[j]/(intermediateLoad*pn))
		total += recoveredFraction * standbyShare * qp0 * hours
	}
	return total
}

// heatingConsumption distributes the net need of the dwelling to one
// installation and its generators.
func (r *run) heatingConsumption(p *heatingPlan, net, netSpend float64) dpe.HeatingOutput {
	cl := &r.ctx.Climate
	out := dpe.HeatingOutput{
		Reference:  p.ref,
		Share:      dpe.Float(p.share),
		Need:       dpe.Float(net * p.share),
		NeedSpend:  dpe.Float(netSpend * p.share),
		Generators: make([]dpe.HeatingGeneratorOutput, len(p.gens)),
	}

	cons := make([]float64, len(p.gens))
	consSpend := make([]float64, len(p.gens))
	for j := range p.gens {
		gp := &p.gens[j]
		e := gp.eff
		chain := gp.rg * e.re * e.rd * e.rr
		cons[j] = net * p.share * gp.share * e.i0 / chain
		consSpend[j] = netSpend * p.share * gp.share * e.i0 / chain
		if gp.kind.family == familyCombustion {
			cons[j] += gp.perf.pveil * cl.Nref19.Sum() / 1000
			consSpend[j] += gp.perf.pveil * cl.Nref21.Sum() / 1000
		}
	}
	if p.inst.Configuration == dpe.HeatingCascade {
		prorateByPower(p.gens, cons)
		prorateByPower(p.gens, consSpend)
	}

	for j := range p.gens {
		gp := &p.gens[j]
		need := net * p.share * gp.share
		needSpend := netSpend * p.share * gp.share
		e := gp.eff

		aux := r.generationAuxiliary(gp, need)
		auxSpend := r.generationAuxiliary(gp, needSpend)

		r.addConsumption(gp.ref, useHeating, gp.g.Energy, cons[j], consSpend[j])
		r.addConsumption(gp.ref, useAuxGeneration, electricityID, aux, auxSpend)

		gout := dpe.HeatingGeneratorOutput{
			Reference:        gp.ref,
			Family:           string(gp.kind.family),
			SubType:          gp.kind.subType,
			Energy:           gp.g.Energy,
			Share:            dpe.Float(gp.share),
			Pn:               dpe.Float(gp.pn),
			Scop:             dpe.Float(gp.scop),
			Rg:               dpe.Float(gp.own),
			Re:               dpe.Float(e.re),
			Rd:               dpe.Float(e.rd),
			Rr:               dpe.Float(e.rr),
			I0:               dpe.Float(e.i0),
			Need:             dpe.Float(need),
			NeedSpend:        dpe.Float(needSpend),
			Recoverable:      dpe.Float(gp.recoverable),
			RecoverableSpend: dpe.Float(gp.recoverableSpend),
			Consumption:      dpe.Float(cons[j]),
			ConsumptionSpend: dpe.Float(consSpend[j]),
			Auxiliary:        dpe.Float(aux),
			AuxiliarySpend:   dpe.Float(auxSpend),
		}
		if gp.kind.family == familyCombustion {
			gout.Rpn = dpe.Float(gp.perf.rpn)
			gout.Rpint = dpe.Float(gp.perf.rpint)
			gout.QP0 = dpe.Float(gp.perf.qp0)
			gout.Pveil = dpe.Float(gp.perf.pveil)
		}
		out.Generators[j] = gout
		out.Consumption += gout.Consumption
		out.ConsumptionSpend += gout.ConsumptionSpend
	}

	dist, distSpend := r.distributionAuxiliary(p)
	r.addConsumption(p.ref, useAuxDistribution, electricityID, dist, distSpend)
	out.Distribution = dpe.Float(dist)
	return out
}

// prorateByPower replaces the consumptions of a cascade by the share of
// their total given by each generator's nominal power. Pilot lights then
// weigh on the cascade as a whole rather than on each generator.
func prorateByPower(gens []generatorPlan, cons []float64) {
	var total, power float64
	for j := range gens {
		total += cons[j]
		power += gens[j].pn
	}
	if power <= 0 {
		return
	}
	for j := range gens {
		cons[j] = total * gens[j].pn / power
	}
}

// generationAuxiliary is the electricity of the generator's pumps and fans
// over its running time, kWh.
func (r *run) generationAuxiliary(gp *generatorPlan, need float64) float64 {
	sub := gp.kind.subType
	switch sub {
	case subAirToAir, subStove, subGasRadiator, subJoule:
		if !gp.g.ExternalCirculator {
			return 0
		}
		sub = subCirculator
	}
	if gp.pn <= 0 {
		return 0
	}
	row, diag := r.row(gp.ref, tblAuxGeneration, tables.Where("sous_type", sub))
	if diag != nil {
		return math.NaN()
	}
	g := r.column(gp.ref, tblAuxGeneration, row, "g").Get()
	h := r.column(gp.ref, tblAuxGeneration, row, "h").Get()
	return (g + h*gp.pn) * (need / gp.pn) / 1000
}

// distributionAuxiliary is the circulator electricity of a water-based
// installation, kWh.
func (r *run) distributionAuxiliary(p *heatingPlan) (float64, float64) {
	hydronic := false
	for i := range p.emitters {
		if p.emitters[i].hydronic() {
			hydronic = true
			break
		}
	}
	if !hydronic {
		return 0, 0
	}
	surface := p.inst.Surface
	if surface <= 0 {
		surface = r.ctx.Sh * p.share
	}
	c := tables.Where("collectif", boolID(p.inst.Collective())).Near("surface", surface)
	pcirc := r.lookup(p.ref, tblCirculator, c, "pcirc").Get()
	cl := &r.ctx.Climate
	return pcirc * cl.Nref19.Sum() / 1000, pcirc * cl.Nref21.Sum() / 1000
}

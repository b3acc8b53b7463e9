package dpe

// Outputs is the sortie subtree written by one engine run. Field names are
// part of the output contract and stay stable across engine versions.
// Quantities suffixed _depensier belong to the spendthrift occupant variant.
type Outputs struct {
	TablesVersion string `json:"version_tables"`
	CompatMode    bool   `json:"mode_compatibilite"`

	Context       ContextOutput       `json:"contexte"`
	Losses        LossOutput          `json:"deperdition"`
	Envelope      EnvelopeOutput      `json:"enveloppe"`
	GainsNeeds    GainsNeedsOutput    `json:"apport_et_besoin"`
	Installations InstallationsOutput `json:"installations"`
	Final         UseBreakdown        `json:"ef_conso"`
	Primary       UseBreakdown        `json:"ep_conso"`
	Emissions     UseBreakdown        `json:"emission_ges"`
	ByEnergy      []EnergyOutput      `json:"conso_par_energie"`
	Labels        LabelOutput         `json:"etiquette"`

	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ContextOutput echoes the per-run context.
type ContextOutput struct {
	ClimateZone     string `json:"zone_climatique"`
	ClimateGroup    string `json:"groupe_zone"`
	AltitudeClass   string `json:"classe_altitude"`
	HabitationType  string `json:"type_habitation"`
	Sh              Float  `json:"surface_habitable"`
	Apartments      int    `json:"nombre_appartement"`
	Nadeq           Float  `json:"nadeq"`
	JouleEffect     bool   `json:"effet_joule"`
	Tbase           Float  `json:"tbase"`
	InertiaClass    string `json:"classe_inertie"`
	InertiaExponent Float  `json:"exposant_inertie"`
}

// LossOutput aggregates the envelope heat loss coefficients, in W/K.
type LossOutput struct {
	Walls          Float `json:"deperdition_mur"`
	LowerFloors    Float `json:"deperdition_plancher_bas"`
	UpperFloors    Float `json:"deperdition_plancher_haut"`
	Windows        Float `json:"deperdition_baie_vitree"`
	Doors          Float `json:"deperdition_porte"`
	ThermalBridges Float `json:"deperdition_pont_thermique"`
	Envelope       Float `json:"deperdition_enveloppe"`
	Hvent          Float `json:"hvent"`
	Hperm          Float `json:"hperm"`
	Renewal        Float `json:"deperdition_renouvellement_air"`
	GV             Float `json:"gv"`
}

// EnvelopeOutput holds the per-element results, indexed like the inputs.
type EnvelopeOutput struct {
	Walls          []WallOutput   `json:"mur_collection"`
	LowerFloors    []FloorOutput  `json:"plancher_bas_collection"`
	UpperFloors    []FloorOutput  `json:"plancher_haut_collection"`
	Windows        []WindowOutput `json:"baie_vitree_collection"`
	Doors          []DoorOutput   `json:"porte_collection"`
	ThermalBridges []BridgeOutput `json:"pont_thermique_collection"`
	BufferSpaces   []BufferOutput `json:"ets_collection"`
	Ventilations   []VentOutput   `json:"ventilation_collection"`
}

// WallOutput is the intermediate data of one wall.
type WallOutput struct {
	Reference  string `json:"reference"`
	B          Float  `json:"b"`
	U0         Float  `json:"umur0"`
	U          Float  `json:"umur"`
	Insulation string `json:"isolation"`
	Loss       Float  `json:"deperdition_mur"`
}

// FloorOutput is the intermediate data of one lower or upper floor.
type FloorOutput struct {
	Reference  string `json:"reference"`
	B          Float  `json:"b"`
	U0         Float  `json:"u0"`
	U          Float  `json:"u"`
	Ue         Float  `json:"ue,omitempty"`
	Insulation string `json:"isolation"`
	Loss       Float  `json:"deperdition"`
}

// WindowOutput is the intermediate data of one window.
type WindowOutput struct {
	Reference string `json:"reference"`
	B         Float  `json:"b"`
	Ug        Float  `json:"ug"`
	Uw        Float  `json:"uw"`
	U         Float  `json:"u_menuiserie"`
	Sw        Float  `json:"sw"`
	Fe1       Float  `json:"fe1"`
	Fe2       Float  `json:"fe2"`
	Loss      Float  `json:"deperdition_baie_vitree"`
}

// DoorOutput is the intermediate data of one door.
type DoorOutput struct {
	Reference string `json:"reference"`
	B         Float  `json:"b"`
	U         Float  `json:"uporte"`
	Loss      Float  `json:"deperdition_porte"`
}

// BridgeOutput is the intermediate data of one thermal bridge.
type BridgeOutput struct {
	Reference string `json:"reference"`
	K         Float  `json:"k"`
	Loss      Float  `json:"deperdition_pont_thermique"`
}

// BufferOutput is the intermediate data of one sunlit buffer space.
type BufferOutput struct {
	Reference    string `json:"reference"`
	Bver         Float  `json:"bver"`
	Transmission Float  `json:"coef_transparence_ets"`
}

// VentOutput is the intermediate data of one ventilation system.
type VentOutput struct {
	Reference string `json:"reference"`
	Hvent     Float  `json:"hvent"`
	Hperm     Float  `json:"hperm"`
	Q4Pa      Float  `json:"q4pa"`
	N50       Float  `json:"n50"`
	Auxiliary Float  `json:"conso_auxiliaire_ventilation"`
}

// GainsNeedsOutput holds the monthly gains and needs, in kWh unless noted.
type GainsNeedsOutput struct {
	SouthEquivalentSurface  Monthly `json:"surface_sud_equivalente"`
	SolarGains              Monthly `json:"apport_solaire_ch"`
	InternalGains           Monthly `json:"apport_interne_ch"`
	InternalGainsSpend      Monthly `json:"apport_interne_ch_depensier"`
	Fj                      Monthly `json:"fraction_apport_gratuit_ch"`
	FjSpend                 Monthly `json:"fraction_apport_gratuit_depensier_ch"`
	HeatingMonthly          Monthly `json:"besoin_ch_mensuel"`
	HeatingMonthlySpend     Monthly `json:"besoin_ch_mensuel_depensier"`
	RecoveredGenerator      Float   `json:"pertes_generateur_ch_recup"`
	RecoveredGeneratorSpend Float   `json:"pertes_generateur_ch_recup_depensier"`
	RecoveredStorage        Float   `json:"pertes_stockage_ecs_recup"`
	RecoveredStorageSpend   Float   `json:"pertes_stockage_ecs_recup_depensier"`
	Heating                 Float   `json:"besoin_ch"`
	HeatingSpend            Float   `json:"besoin_ch_depensier"`
	HotWaterVolume          Float   `json:"v40_ecs_journalier"`
	HotWaterVolumeSpend     Float   `json:"v40_ecs_journalier_depensier"`
	HotWaterMonthly         Monthly `json:"besoin_ecs_mensuel"`
	HotWaterMonthlySpend    Monthly `json:"besoin_ecs_mensuel_depensier"`
	HotWater                Float   `json:"besoin_ecs"`
	HotWaterSpend           Float   `json:"besoin_ecs_depensier"`
	CoolingMonthly          Monthly `json:"besoin_fr_mensuel"`
	CoolingMonthlySpend     Monthly `json:"besoin_fr_mensuel_depensier"`
	Cooling                 Float   `json:"besoin_fr"`
	CoolingSpend            Float   `json:"besoin_fr_depensier"`
}

// InstallationsOutput holds the per-installation results.
type InstallationsOutput struct {
	Heating  []HeatingOutput `json:"installation_chauffage_collection"`
	HotWater []DHWOutput     `json:"installation_ecs_collection"`
	Cooling  []CoolingOutput `json:"climatisation_collection"`
}

// HeatingOutput is the intermediate data of one heating installation.
type HeatingOutput struct {
	Reference        string                   `json:"reference"`
	Share            Float                    `json:"rdim"`
	Need             Float                    `json:"besoin_ch"`
	NeedSpend        Float                    `json:"besoin_ch_depensier"`
	Consumption      Float                    `json:"conso_ch"`
	ConsumptionSpend Float                    `json:"conso_ch_depensier"`
	Distribution     Float                    `json:"conso_auxiliaire_distribution_ch"`
	Generators       []HeatingGeneratorOutput `json:"generateur_chauffage_collection"`
}

// HeatingGeneratorOutput is the intermediate data of one heating generator.
type HeatingGeneratorOutput struct {
	Reference        string `json:"reference"`
	Family           string `json:"famille"`
	SubType          string `json:"sous_type"`
	Energy           string `json:"enum_type_energie_id"`
	Share            Float  `json:"part_besoin"`
	Pn               Float  `json:"pn"`
	Rpn              Float  `json:"rpn,omitempty"`
	Rpint            Float  `json:"rpint,omitempty"`
	QP0              Float  `json:"qp0,omitempty"`
	Pveil            Float  `json:"pveilleuse,omitempty"`
	Scop             Float  `json:"scop,omitempty"`
	Rg               Float  `json:"rendement_generation"`
	Re               Float  `json:"rendement_emission"`
	Rd               Float  `json:"rendement_distribution"`
	Rr               Float  `json:"rendement_regulation"`
	I0               Float  `json:"i0"`
	Need             Float  `json:"besoin_ch"`
	NeedSpend        Float  `json:"besoin_ch_depensier"`
	Recoverable      Float  `json:"pertes_generateur_ch_recup"`
	RecoverableSpend Float  `json:"pertes_generateur_ch_recup_depensier"`
	Consumption      Float  `json:"conso_ch"`
	ConsumptionSpend Float  `json:"conso_ch_depensier"`
	Auxiliary        Float  `json:"conso_auxiliaire_generation_ch"`
	AuxiliarySpend   Float  `json:"conso_auxiliaire_generation_ch_depensier"`
}

// DHWOutput is the intermediate data of one hot water installation.
type DHWOutput struct {
	Reference        string               `json:"reference"`
	Share            Float                `json:"rdim"`
	Rd               Float                `json:"rendement_distribution"`
	Consumption      Float                `json:"conso_ecs"`
	ConsumptionSpend Float                `json:"conso_ecs_depensier"`
	Generators       []DHWGeneratorOutput `json:"generateur_ecs_collection"`
}

// DHWGeneratorOutput is the intermediate data of one hot water generator.
type DHWGeneratorOutput struct {
	Reference        string `json:"reference"`
	Family           string `json:"famille"`
	SubType          string `json:"sous_type"`
	Energy           string `json:"enum_type_energie_id"`
	Rg               Float  `json:"rendement_generation"`
	RgSpend          Float  `json:"rendement_generation_depensier"`
	Rs               Float  `json:"rendement_stockage"`
	RsSpend          Float  `json:"rendement_stockage_depensier"`
	StorageLoss      Float  `json:"pertes_stockage"`
	Consumption      Float  `json:"conso_ecs"`
	ConsumptionSpend Float  `json:"conso_ecs_depensier"`
}

// CoolingOutput is the intermediate data of one cooling installation.
type CoolingOutput struct {
	Reference        string `json:"reference"`
	Share            Float  `json:"rdim"`
	EER              Float  `json:"eer"`
	Energy           string `json:"enum_type_energie_id"`
	Consumption      Float  `json:"conso_fr"`
	ConsumptionSpend Float  `json:"conso_fr_depensier"`
}

// UseBreakdown is an annual quantity split by use. It is used for final
// energy, primary energy (kWh) and emissions (kgCO2e).
type UseBreakdown struct {
	Heating        Float `json:"ch"`
	HeatingSpend   Float `json:"ch_depensier"`
	HotWater       Float `json:"ecs"`
	HotWaterSpend  Float `json:"ecs_depensier"`
	Cooling        Float `json:"fr"`
	CoolingSpend   Float `json:"fr_depensier"`
	Lighting       Float `json:"eclairage"`
	AuxGeneration  Float `json:"auxiliaire_generation"`
	AuxDistrib     Float `json:"auxiliaire_distribution"`
	AuxVentilation Float `json:"auxiliaire_ventilation"`
	Auxiliary      Float `json:"totale_auxiliaire"`
	Total          Float `json:"5_usages"`
	TotalSpend     Float `json:"5_usages_depensier"`
	PerSquareMeter Float `json:"5_usages_m2"`
}

// EnergyOutput is the final consumption of one energy carrier.
type EnergyOutput struct {
	Energy   string `json:"enum_type_energie_id"`
	Label    string `json:"libelle"`
	Final    Float  `json:"conso_ef"`
	Primary  Float  `json:"conso_ep"`
	Emission Float  `json:"emission_ges"`
}

// LabelOutput holds the regulatory classes.
type LabelOutput struct {
	PrimaryPerM2  Float  `json:"ep_conso_5_usages_m2"`
	EmissionPerM2 Float  `json:"emission_ges_5_usages_m2"`
	EnergyClass   string `json:"classe_conso_energie"`
	EmissionClass string `json:"classe_emission_ges"`
	Class         string `json:"classe_bilan_dpe"`
}

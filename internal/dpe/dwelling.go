package dpe

// Dwelling is the Dwelling Record: the regulatory description of one
// dwelling (or building) and, once a run completed, its Outputs.
type Dwelling struct {
	// Number is the diagnostic number, used to label logs and batch results.
	Number string `json:"numero_dpe,omitempty"`

	Characteristics Characteristics       `json:"caracteristique_generale"`
	Meteo           Meteo                 `json:"meteo"`
	Envelope        Envelope              `json:"enveloppe"`
	Ventilations    []Ventilation         `json:"ventilation_collection"`
	Heating         []HeatingInstallation `json:"installation_chauffage_collection"`
	HotWater        []DHWInstallation     `json:"installation_ecs_collection"`
	Cooling         []CoolingInstallation `json:"climatisation_collection"`

	// Outputs is written by the engine. Any value present on input is
	// discarded at the start of a run.
	Outputs *Outputs `json:"sortie,omitempty"`
}

// Characteristics are the general characteristics of the dwelling.
type Characteristics struct {
	ApplicationMethod  string  `json:"enum_methode_application_dpe_log_id"`
	ConstructionPeriod string  `json:"enum_periode_construction_id"`
	ConstructionYear   int     `json:"annee_construction,omitempty"`
	DwellingArea       float64 `json:"surface_habitable_logement,omitempty"`
	BuildingArea       float64 `json:"surface_habitable_immeuble,omitempty"`
	Apartments         int     `json:"nombre_appartement,omitempty"`
	CeilingHeight      float64 `json:"hsp,omitempty"`

	// InertiaClass overrides the inertia class derived from the envelope
	// (1 very heavy, 2 heavy, 3 medium, 4 light).
	InertiaClass string `json:"enum_classe_inertie_id,omitempty"`
}

// Meteo locates the dwelling climatically.
type Meteo struct {
	ClimateZone   string `json:"enum_zone_climatique_id"`
	AltitudeClass string `json:"enum_classe_altitude_id"`
}

// Envelope groups the thermal boundary elements.
type Envelope struct {
	Walls          []Wall          `json:"mur_collection"`
	LowerFloors    []LowerFloor    `json:"plancher_bas_collection"`
	UpperFloors    []UpperFloor    `json:"plancher_haut_collection"`
	Windows        []Window        `json:"baie_vitree_collection"`
	Doors          []Door          `json:"porte_collection"`
	ThermalBridges []ThermalBridge `json:"pont_thermique_collection"`
	BufferSpaces   []BufferSpace   `json:"ets_collection"`
}

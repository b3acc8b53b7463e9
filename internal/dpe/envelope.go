package dpe

// Adjacency describes what lies on the other side of an envelope element.
// The Aiu/Aue surfaces and insulation flags only matter for unheated
// adjacent spaces; ReferenceETS links the element to a sunlit buffer space.
type Adjacency struct {
	AdjacencyType string  `json:"enum_type_adjacence_id"`
	SurfaceAiu    float64 `json:"surface_aiu,omitempty"`
	SurfaceAue    float64 `json:"surface_aue,omitempty"`
	InsulatedAiu  bool    `json:"isolation_aiu,omitempty"`
	InsulatedAue  bool    `json:"isolation_aue,omitempty"`
	ReferenceETS  string  `json:"reference_ets,omitempty"`
}

// Insulation carries the insulation inputs shared by opaque elements.
type Insulation struct {
	U0Method             string  `json:"enum_methode_saisie_u0_id"`
	UMethod              string  `json:"enum_methode_saisie_u_id"`
	InsulationType       string  `json:"enum_type_isolation_id,omitempty"`
	InsulationPeriod     string  `json:"enum_periode_isolation_id,omitempty"`
	InsulationThickness  float64 `json:"epaisseur_isolation,omitempty"`
	InsulationResistance float64 `json:"resistance_isolation,omitempty"`
}

// Wall is a vertical opaque element.
type Wall struct {
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Adjacency
	Insulation

	Surface          float64 `json:"surface_paroi_opaque"`
	Orientation      string  `json:"enum_orientation_id,omitempty"`
	Material         string  `json:"enum_materiaux_structure_mur_id"`
	Thickness        float64 `json:"epaisseur_structure,omitempty"`
	Doubling         string  `json:"enum_type_doublage_id,omitempty"`
	InsulatingRender bool    `json:"enduit_isolant_paroi_ancienne,omitempty"`
	U0Entered        float64 `json:"umur0_saisi,omitempty"`
	UEntered         float64 `json:"umur_saisi,omitempty"`
}

// LowerFloor is a floor over the ground, a crawl space, a basement or any
// other non-heated or exterior space.
type LowerFloor struct {
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Adjacency
	Insulation

	Surface   float64 `json:"surface_paroi_opaque"`
	Perimeter float64 `json:"perimetre_ue,omitempty"`
	FloorType string  `json:"enum_type_plancher_bas_id"`
	U0Entered float64 `json:"upb0_saisi,omitempty"`
	UEntered  float64 `json:"upb_saisi,omitempty"`
}

// UpperFloor is a ceiling under an attic, a roof terrace or a pitched roof.
type UpperFloor struct {
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Adjacency
	Insulation

	Surface   float64 `json:"surface_paroi_opaque"`
	FloorType string  `json:"enum_type_plancher_haut_id"`
	U0Entered float64 `json:"uph0_saisi,omitempty"`
	UEntered  float64 `json:"uph_saisi,omitempty"`
}

// Window is a glazed opening.
type Window struct {
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Adjacency

	Surface      float64 `json:"surface_totale_baie"`
	Orientation  string  `json:"enum_orientation_id"`
	Inclination  string  `json:"enum_inclinaison_vitrage_id"`
	GlazingType  string  `json:"enum_type_vitrage_id"`
	GasType      string  `json:"enum_type_gaz_lame_id,omitempty"`
	GapThickness float64 `json:"epaisseur_lame,omitempty"`
	LowEmissive  bool    `json:"vitrage_vir,omitempty"`
	FrameType    string  `json:"enum_type_materiaux_menuiserie_id"`
	Installation string  `json:"enum_type_pose_id,omitempty"`
	Closure      string  `json:"enum_type_fermeture_id,omitempty"`
	NearMask     string  `json:"enum_type_masque_proche_id,omitempty"`
	FarMask      string  `json:"enum_type_masque_lointain_homogene_id,omitempty"`
	UgEntered    float64 `json:"ug_saisi,omitempty"`
	UwEntered    float64 `json:"uw_saisi,omitempty"`
	UjnEntered   float64 `json:"ujn_saisi,omitempty"`
	SwEntered    float64 `json:"sw_saisi,omitempty"`
}

// Door is an opaque or partly glazed door.
type Door struct {
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Adjacency

	Surface  float64 `json:"surface_porte"`
	DoorType string  `json:"enum_type_porte_id"`
	UEntered float64 `json:"uporte_saisi,omitempty"`
}

// ThermalBridge is a linear junction between two envelope elements.
// Reference1 names the wall, Reference2 the floor, roof or window.
type ThermalBridge struct {
	Reference   string  `json:"reference"`
	Description string  `json:"description,omitempty"`
	LinkType    string  `json:"enum_type_liaison_id"`
	Length      float64 `json:"l"`
	Ratio       float64 `json:"pourcentage_valeur_pont_thermique,omitempty"`
	KEntered    float64 `json:"k_saisi,omitempty"`
	Reference1  string  `json:"reference_1,omitempty"`
	Reference2  string  `json:"reference_2,omitempty"`
}

// BufferSpace is a sunlit buffer space (veranda, glazed loggia).
type BufferSpace struct {
	Reference    string          `json:"reference"`
	Description  string          `json:"description,omitempty"`
	Orientation  string          `json:"enum_orientation_id"`
	InsulatedAiu bool            `json:"isolation_aiu,omitempty"`
	Glazings     []BufferGlazing `json:"baie_ets_collection"`
}

// BufferGlazing is one glazed face of a buffer space.
type BufferGlazing struct {
	Surface     float64 `json:"surface_totale_baie"`
	Orientation string  `json:"enum_orientation_id"`
	Inclination string  `json:"enum_inclinaison_vitrage_id"`
	GlazingType string  `json:"enum_type_vitrage_id"`
	FrameType   string  `json:"enum_type_materiaux_menuiserie_id"`
}

// Ventilation is a ventilation system serving part or all of the dwelling.
type Ventilation struct {
	Reference       string  `json:"reference"`
	Description     string  `json:"description,omitempty"`
	VentilationType string  `json:"enum_type_ventilation_id"`
	Surface         float64 `json:"surface_ventile,omitempty"`
	SeveralFacades  bool    `json:"plusieurs_facade_exposee,omitempty"`
	Q4PaConvEntered float64 `json:"q4pa_conv_saisi,omitempty"`
}

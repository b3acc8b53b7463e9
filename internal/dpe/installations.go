package dpe

// Heating configurations (enum_cfg_installation_ch_id).
const (
	HeatingSimple     = "1"
	HeatingCascade    = "2"
	HeatingBaseBackup = "3"
)

// Installation types (enum_type_installation_id).
const (
	InstallationIndividual = "1"
	InstallationCollective = "2"
)

// HeatingInstallation is one heating system: its generators and the
// emitters they feed.
type HeatingInstallation struct {
	Reference        string             `json:"reference"`
	Description      string             `json:"description,omitempty"`
	Configuration    string             `json:"enum_cfg_installation_ch_id"`
	InstallationType string             `json:"enum_type_installation_id,omitempty"`
	Surface          float64            `json:"surface_chauffee,omitempty"`
	Generators       []HeatingGenerator `json:"generateur_chauffage_collection"`
	Emitters         []Emitter          `json:"emetteur_chauffage_collection"`
}

// Collective reports whether the installation serves a whole building.
func (h *HeatingInstallation) Collective() bool {
	return h.InstallationType == InstallationCollective
}

// HeatingGenerator is a heat producer.
type HeatingGenerator struct {
	Reference          string  `json:"reference"`
	Description        string  `json:"description,omitempty"`
	GeneratorType      string  `json:"enum_type_generateur_ch_id"`
	Energy             string  `json:"enum_type_energie_id"`
	InstallationYear   int     `json:"annee_installation,omitempty"`
	Pn                 float64 `json:"pn,omitempty"`
	Backup             bool    `json:"generateur_appoint,omitempty"`
	InHeatedVolume     bool    `json:"position_volume_chauffe,omitempty"`
	ExternalCirculator bool    `json:"presence_circulateur_externe,omitempty"`

	// Entered performance values. Efficiencies are percentages, QP0 is in
	// kW and the pilot light in W.
	ScopEntered  float64 `json:"scop_saisi,omitempty"`
	RpnEntered   float64 `json:"rpn_saisi,omitempty"`
	RpintEntered float64 `json:"rpint_saisi,omitempty"`
	QP0Entered   float64 `json:"qp0_saisi,omitempty"`
	PveilEntered float64 `json:"pveilleuse_saisi,omitempty"`
}

// Emitter is a heat emitter and its distribution network.
type Emitter struct {
	Reference          string  `json:"reference"`
	Description        string  `json:"description,omitempty"`
	EmitterType        string  `json:"enum_type_emission_distribution_id"`
	TemperatureClass   string  `json:"enum_temp_distribution_ch_id,omitempty"`
	Intermittence      string  `json:"enum_equipement_intermittence_id,omitempty"`
	Surface            float64 `json:"surface_chauffee,omitempty"`
	GeneratorReference string  `json:"reference_generateur,omitempty"`
}

// DHWInstallation is one domestic hot water system.
type DHWInstallation struct {
	Reference        string         `json:"reference"`
	Description      string         `json:"description,omitempty"`
	InstallationType string         `json:"enum_type_installation_id,omitempty"`
	Surface          float64        `json:"surface_habitable,omitempty"`
	InHeatedVolume   bool           `json:"production_volume_habitable,omitempty"`
	ContiguousRooms  bool           `json:"pieces_alimentees_contigues,omitempty"`
	Generators       []DHWGenerator `json:"generateur_ecs_collection"`
}

// DHWGenerator is a hot water producer, possibly with storage.
type DHWGenerator struct {
	Reference        string  `json:"reference"`
	Description      string  `json:"description,omitempty"`
	GeneratorType    string  `json:"enum_type_generateur_ecs_id"`
	Energy           string  `json:"enum_type_energie_id"`
	InstallationYear int     `json:"annee_installation,omitempty"`
	Pn               float64 `json:"pn,omitempty"`
	StorageVolume    float64 `json:"volume_stockage,omitempty"`
	InHeatedVolume   bool    `json:"position_volume_chauffe,omitempty"`
	CopEntered       float64 `json:"cop_saisi,omitempty"`
	RpnEntered       float64 `json:"rpn_saisi,omitempty"`
	QP0Entered       float64 `json:"qp0_saisi,omitempty"`
	PveilEntered     float64 `json:"pveilleuse_saisi,omitempty"`
}

// CoolingInstallation is one air-conditioning system.
type CoolingInstallation struct {
	Reference   string             `json:"reference"`
	Description string             `json:"description,omitempty"`
	Surface     float64            `json:"surface_clim"`
	Generators  []CoolingGenerator `json:"generateur_climatisation_collection"`
}

// CoolingGenerator is a cooling producer.
type CoolingGenerator struct {
	Reference        string  `json:"reference"`
	Description      string  `json:"description,omitempty"`
	GeneratorType    string  `json:"enum_type_generateur_fr_id"`
	Energy           string  `json:"enum_type_energie_id"`
	InstallationYear int     `json:"annee_installation,omitempty"`
	EEREntered       float64 `json:"eer_saisi,omitempty"`
}

package models

// Model roles compared by the study. Other role values are kept as-is but
// never take part in the generalist/specialist comparison.
const (
	RoleGeneralist = "generalist"
	RoleSpecialist = "specialist"
)

// DefaultRoutingMode is used when a record carries no routing information.
const DefaultRoutingMode = "none"

// DefaultStudy is the study tag the experiment logs are written under.
const DefaultStudy = "specialization_per_modulation_family"

// Observation is one normalized, scored prediction from the experiment logs.
// All string fields are lowercased.
type Observation struct {
	Family      string `json:"family"`
	ModelRole   string `json:"model_role"`
	RoutingMode string `json:"routing_mode"`
	Correct     bool   `json:"correct"`
}

// MacroMapping binds a family to the prefix of the LaTeX macros emitted for it.
type MacroMapping struct {
	Family string `yaml:"family" json:"family"`
	Macro  string `yaml:"macro" json:"macro"`
}

// DefaultMacroMappings returns the families that get callout macros by default.
func DefaultMacroMappings() []MacroMapping {
	return []MacroMapping{
		{Family: "psk", Macro: "PSK"},
		{Family: "qam", Macro: "QAM"},
		{Family: "analog", Macro: "Analog"},
	}
}

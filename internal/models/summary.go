package models

import (
	"math"
	"sort"
)

// AggregateRow holds the accuracy of one (family, role, routing mode) group.
type AggregateRow struct {
	Family      string  `json:"family"`
	ModelRole   string  `json:"model_role"`
	RoutingMode string  `json:"routing_mode"`
	N           int     `json:"n"`
	Accuracy    float64 `json:"accuracy"`
}

// AccuracyPct returns the accuracy as a percentage.
func (r AggregateRow) AccuracyPct() float64 {
	return r.Accuracy * 100.0
}

// Summary is the aggregated view of a study, sorted by family, role and routing mode.
type Summary []AggregateRow

// Families returns the distinct families in alphabetical order.
func (s Summary) Families() []string {
	seen := make(map[string]bool, len(s))
	families := make([]string, 0, len(s))
	for _, row := range s {
		if !seen[row.Family] {
			seen[row.Family] = true
			families = append(families, row.Family)
		}
	}
	sort.Strings(families)
	return families
}

// Row returns the first row for the given family and role. When a family/role
// pair spans several routing modes, the one that sorts first wins.
func (s Summary) Row(family, role string) (AggregateRow, bool) {
	for _, row := range s {
		if row.Family == family && row.ModelRole == role {
			return row, true
		}
	}
	return AggregateRow{}, false
}

// Accuracy returns the accuracy in [0,1] for the given family and role.
func (s Summary) Accuracy(family, role string) (float64, bool) {
	row, ok := s.Row(family, role)
	if !ok {
		return 0, false
	}
	return row.Accuracy, true
}

// Gain returns specialist minus generalist accuracy in percentage points.
// The second return is false when either role is missing for the family.
func (s Summary) Gain(family string) (float64, bool) {
	gen, ok := s.Accuracy(family, RoleGeneralist)
	if !ok {
		return 0, false
	}
	spec, ok := s.Accuracy(family, RoleSpecialist)
	if !ok {
		return 0, false
	}
	return (spec - gen) * 100.0, true
}

// TotalN returns the number of observations behind the summary.
func (s Summary) TotalN() int {
	total := 0
	for _, row := range s {
		total += row.N
	}
	return total
}

// FamilyComparison pairs the two role accuracies of one family.
type FamilyComparison struct {
	Family        string  `json:"family"`
	GeneralistPct float64 `json:"generalist_pct"`
	SpecialistPct float64 `json:"specialist_pct"`
	GainPP        float64 `json:"gain_pp"`
	// NormalizedGain is the share of the generalist's remaining error that
	// the specialist removes. At most 1.
	NormalizedGain float64 `json:"normalized_gain"`
}

// Comparisons returns one entry per family that has both roles, in family order.
func (s Summary) Comparisons() []FamilyComparison {
	var out []FamilyComparison
	for _, family := range s.Families() {
		gen, okGen := s.Accuracy(family, RoleGeneralist)
		spec, okSpec := s.Accuracy(family, RoleSpecialist)
		if !okGen || !okSpec {
			continue
		}
		out = append(out, FamilyComparison{
			Family:         family,
			GeneralistPct:  gen * 100.0,
			SpecialistPct:  spec * 100.0,
			GainPP:         (spec - gen) * 100.0,
			NormalizedGain: NormalizedGain(gen, spec),
		})
	}
	return out
}

// NormalizedGain computes Hake's normalized gain (1998) of the specialist
// accuracy over the generalist accuracy, both in [0,1]:
//
//	g = (spec - gen) / (1 - gen)
//
// Returns 0 if gen >= 1.0 (already at ceiling) or gen == spec (no change).
// Returns 1.0 if spec >= 1.0 (reached maximum).
func NormalizedGain(gen, spec float64) float64 {
	if gen >= 1.0 {
		return 0.0
	}
	if spec >= 1.0 {
		return 1.0
	}
	if math.Abs(spec-gen) < 1e-12 {
		return 0.0
	}
	return (spec - gen) / (1.0 - gen)
}

// Package aggregate groups observations into per-family accuracy rows.
package aggregate

import (
	"sort"
	"strings"

	"github.com/modspec/specgain/internal/logging"
	"github.com/modspec/specgain/internal/models"
)

// Result is the outcome of Summarize.
type Result struct {
	Summary models.Summary `json:"rows"`
	// Used is the number of observations that went into Summary.
	Used int `json:"used"`
	// Filter is the lowercased routing-mode filter, empty when none was requested.
	Filter string `json:"routing_filter,omitempty"`
	// FilterFallback is set when Filter matched nothing and all routing modes were used.
	FilterFallback bool `json:"filter_fallback,omitempty"`
}

type groupKey struct {
	family, role, routing string
}

type tally struct {
	n, correct int
}

// Summarize restricts observations to routingMode (case-insensitive) and
// aggregates them by family, role and routing mode. A filter that matches
// nothing is ignored with a warning.
func Summarize(observations []models.Observation, routingMode string) Result {
	res := Result{Filter: strings.ToLower(routingMode)}

	selected := observations
	if res.Filter != "" {
		matched := FilterRouting(observations, res.Filter)
		if len(matched) > 0 {
			selected = matched
		} else {
			res.FilterFallback = true
			logging.New("aggregate").Warn("no entries found for routing mode; using all routing modes",
				"routing_mode", res.Filter)
		}
	}

	res.Summary = Group(selected)
	res.Used = len(selected)
	return res
}

// FilterRouting returns the observations whose routing mode equals mode, ignoring case.
func FilterRouting(observations []models.Observation, mode string) []models.Observation {
	var out []models.Observation
	for _, o := range observations {
		if strings.EqualFold(o.RoutingMode, mode) {
			out = append(out, o)
		}
	}
	return out
}

// Group computes count and accuracy per (family, role, routing mode). Rows
// are sorted by family, role and routing mode.
func Group(observations []models.Observation) models.Summary {
	groups := make(map[groupKey]*tally)
	for _, o := range observations {
		k := groupKey{family: o.Family, role: o.ModelRole, routing: o.RoutingMode}
		t, ok := groups[k]
		if !ok {
			t = &tally{}
			groups[k] = t
		}
		t.n++
		if o.Correct {
			t.correct++
		}
	}

	summary := make(models.Summary, 0, len(groups))
	for k, t := range groups {
		summary = append(summary, models.AggregateRow{
			Family:      k.family,
			ModelRole:   k.role,
			RoutingMode: k.routing,
			N:           t.n,
			Accuracy:    float64(t.correct) / float64(t.n),
		})
	}

	sort.Slice(summary, func(i, j int) bool {
		a, b := summary[i], summary[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.ModelRole != b.ModelRole {
			return a.ModelRole < b.ModelRole
		}
		return a.RoutingMode < b.RoutingMode
	})
	return summary
}

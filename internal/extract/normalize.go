package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/modspec/specgain/internal/models"
)

// recordData holds the "data" fields of a log record, aliases included.
type recordData struct {
	Family      any `mapstructure:"family"`
	TrueFamily  any `mapstructure:"true_family"`
	ModelRole   any `mapstructure:"model_role"`
	Role        any `mapstructure:"role"`
	RoutingMode any `mapstructure:"routing_mode"`
	Routing     any `mapstructure:"routing"`
	Correct     any `mapstructure:"correct"`
}

// normalize maps a record's data onto an Observation. Keys match exactly.
// A family, role or routing mode that is an object or array drops the record.
func normalize(data map[string]any) (models.Observation, bool) {
	var d recordData
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    &d,
		MatchName: func(key, field string) bool { return key == field },
	})
	if err != nil {
		return models.Observation{}, false
	}
	if err := dec.Decode(data); err != nil {
		return models.Observation{}, false
	}

	family, ok := scalarString(firstSet(d.Family, d.TrueFamily))
	if !ok {
		return models.Observation{}, false
	}
	role, ok := scalarString(firstSet(d.ModelRole, d.Role))
	if !ok {
		return models.Observation{}, false
	}

	routing := models.DefaultRoutingMode
	if v := firstSet(d.RoutingMode, d.Routing); v != nil {
		s, ok := scalarString(v)
		if !ok {
			return models.Observation{}, false
		}
		routing = s
	}

	correct, ok := boolLike(d.Correct)
	if !ok {
		return models.Observation{}, false
	}

	return models.Observation{
		Family:      strings.ToLower(family),
		ModelRole:   strings.ToLower(role),
		RoutingMode: strings.ToLower(routing),
		Correct:     correct,
	}, true
}

// firstSet returns the first value that is present and not empty. Null, empty
// strings, false and zero count as unset so an alias can take over.
func firstSet(values ...any) any {
	for _, v := range values {
		if isSet(v) {
			return v
		}
	}
	return nil
}

func isSet(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// scalarString renders a JSON scalar as text. Objects and arrays are rejected.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// boolLike accepts JSON booleans, numbers (non-zero is true) and the strings
// understood by strconv.ParseBool.
func boolLike(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

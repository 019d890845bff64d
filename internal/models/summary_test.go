package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleSummary() Summary {
	return Summary{
		{Family: "analog", ModelRole: RoleGeneralist, RoutingMode: "oracle", N: 10, Accuracy: 0.7},
		{Family: "psk", ModelRole: RoleGeneralist, RoutingMode: "oracle", N: 4, Accuracy: 0.5},
		{Family: "psk", ModelRole: RoleGeneralist, RoutingMode: "predicted", N: 4, Accuracy: 0.25},
		{Family: "psk", ModelRole: RoleSpecialist, RoutingMode: "oracle", N: 4, Accuracy: 0.75},
		{Family: "qam", ModelRole: RoleSpecialist, RoutingMode: "oracle", N: 2, Accuracy: 1.0},
	}
}

func TestSummary_Families(t *testing.T) {
	got := sampleSummary().Families()
	if diff := cmp.Diff([]string{"analog", "psk", "qam"}, got); diff != "" {
		t.Errorf("Families() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Summary{}.Families())
}

func TestSummary_AccuracyPicksFirstRoutingMode(t *testing.T) {
	acc, ok := sampleSummary().Accuracy("psk", RoleGeneralist)
	assert.True(t, ok)
	assert.Equal(t, 0.5, acc)

	_, ok = sampleSummary().Accuracy("qam", RoleGeneralist)
	assert.False(t, ok)
}

func TestSummary_Gain(t *testing.T) {
	s := sampleSummary()

	gain, ok := s.Gain("psk")
	assert.True(t, ok)
	assert.InDelta(t, 25.0, gain, 1e-9)

	_, ok = s.Gain("analog")
	assert.False(t, ok, "generalist-only family has no gain")

	_, ok = s.Gain("qam")
	assert.False(t, ok, "specialist-only family has no gain")

	_, ok = s.Gain("fsk")
	assert.False(t, ok)
}

func TestSummary_TotalN(t *testing.T) {
	assert.Equal(t, 24, sampleSummary().TotalN())
	assert.Equal(t, 0, Summary(nil).TotalN())
}

func TestSummary_Comparisons(t *testing.T) {
	got := sampleSummary().Comparisons()
	want := []FamilyComparison{
		{Family: "psk", GeneralistPct: 50, SpecialistPct: 75, GainPP: 25, NormalizedGain: 0.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Comparisons() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMacroMappings(t *testing.T) {
	m := DefaultMacroMappings()
	assert.Len(t, m, 3)
	assert.Equal(t, MacroMapping{Family: "psk", Macro: "PSK"}, m[0])
	assert.Equal(t, MacroMapping{Family: "analog", Macro: "Analog"}, m[2])
}

func TestNormalizedGain(t *testing.T) {
	tests := []struct {
		name      string
		gen, spec float64
		want      float64
	}{
		{"basic gain", 0.4, 0.7, 0.5},
		{"no change", 0.5, 0.5, 0.0},
		{"full gain", 0.5, 1.0, 1.0},
		{"generalist at ceiling", 1.0, 1.0, 0.0},
		{"high generalist small gain", 0.9, 0.95, 0.5},
		{"negative gain", 0.5, 0.3, -0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizedGain(tt.gen, tt.spec), 1e-9)
		})
	}
}

package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "plain number", input: `72.5`, expected: 72.5},
		{name: "integer", input: `80`, expected: 80},
		{name: "quoted number", input: `"72.5"`, expected: 72.5},
		{name: "null", input: `null`, expected: 0},
		{name: "empty string", input: `""`, expected: 0},
		{name: "non-numeric string", input: `"high"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n domain.Number
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, float64(n))
		})
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(domain.Number(72.5))
	require.NoError(t, err)
	assert.Equal(t, `72.5`, string(out))
}

func TestStageEmission_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		stage    string
		emission float64
	}{
		{
			name:     "canonical keys",
			input:    `{"stage":"Logistics","emission":800}`,
			stage:    "Logistics",
			emission: 800,
		},
		{
			name:     "stageName variant",
			input:    `{"stageName":"Packaging","emission":1500}`,
			stage:    "Packaging",
			emission: 1500,
		},
		{
			name:     "snake case variant",
			input:    `{"stage_name":"Manufacturing","total_emission":42.5}`,
			stage:    "Manufacturing",
			emission: 42.5,
		},
		{
			name:     "stage key wins over stageName",
			input:    `{"stage":"Logistics","stageName":"Packaging","emission":1}`,
			stage:    "Logistics",
			emission: 1,
		},
		{
			name:     "explicit zero emission preserved",
			input:    `{"stage":"Distribution","emission":0,"total_emission":99}`,
			stage:    "Distribution",
			emission: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se domain.StageEmission
			require.NoError(t, json.Unmarshal([]byte(tt.input), &se))
			assert.Equal(t, tt.stage, se.Stage)
			assert.Equal(t, tt.emission, se.Emission)
		})
	}
}

func TestAnalysisResult_UnmarshalMixedScoreEncodings(t *testing.T) {
	payload := `{
		"_id": "a1",
		"totalEmission": 2300,
		"highestEmissionStage": "Packaging",
		"carbonEfficiencyScore": "72.5",
		"costEfficiencyScore": 64,
		"timeEfficiencyScore": null,
		"netZeroAlignmentPercentage": "81",
		"nodesBreakdown": [
			{"stageName": "Logistics", "emission": 800},
			{"stage_name": "Packaging", "total_emission": 1500}
		]
	}`

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.Equal(t, 2300.0, float64(result.TotalEmission))
	assert.Equal(t, 72.5, float64(result.CarbonEfficiencyScore))
	assert.Equal(t, 64.0, float64(result.CostEfficiencyScore))
	assert.Equal(t, 0.0, float64(result.TimeEfficiencyScore))
	assert.Equal(t, 81.0, float64(result.NetZeroAlignmentPercentage))
	require.Len(t, result.NodesBreakdown, 2)
	assert.Equal(t, "Logistics", result.NodesBreakdown[0].Stage)
	assert.Equal(t, 1500.0, result.NodesBreakdown[1].Emission)
}

func TestValidityHelpers(t *testing.T) {
	assert.True(t, domain.IsValidStage("Raw Materials"))
	assert.True(t, domain.IsValidStage("End-of-Life"))
	assert.False(t, domain.IsValidStage("Shipping"))

	assert.True(t, domain.IsValidTransportMode("truck"))
	assert.True(t, domain.IsValidTransportMode("air"))
	assert.False(t, domain.IsValidTransportMode("Truck"))

	assert.True(t, domain.IsValidEnergySource("solar"))
	assert.False(t, domain.IsValidEnergySource("nuclear"))

	assert.True(t, domain.IsValidRegion("Pune"))
	assert.True(t, domain.IsValidRegion("Mumbai"))
	assert.False(t, domain.IsValidRegion("Delhi"))

	assert.True(t, domain.IsNavigablePage("dashboard"))
	assert.True(t, domain.IsNavigablePage("add_node"))
	assert.False(t, domain.IsNavigablePage("login"))
	assert.False(t, domain.IsNavigablePage("settings"))
}

func TestEmissionFactors(t *testing.T) {
	assert.Equal(t, 0.12, domain.EmissionFactors[domain.TransportTruck])
	assert.Equal(t, 0.04, domain.EmissionFactors[domain.TransportRail])
	assert.Equal(t, 0.02, domain.EmissionFactors[domain.TransportShip])
	assert.Equal(t, 0.6, domain.EmissionFactors[domain.TransportAir])
}

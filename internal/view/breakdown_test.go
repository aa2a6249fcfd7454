package view_test

import (
	"testing"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakdown_GroupsAndPercentages(t *testing.T) {
	records := []domain.StageEmission{
		{Stage: "Logistics", Emission: 500},
		{Stage: "Packaging", Emission: 1500},
		{Stage: "Logistics", Emission: 300},
	}

	b := view.Breakdown(records)

	assert.Equal(t, 2300.0, b.Total)
	require.Len(t, b.Stages, 2)

	// First-encounter order: Logistics was seen before Packaging
	assert.Equal(t, "Logistics", b.Stages[0].Stage)
	assert.Equal(t, 800.0, b.Stages[0].Emission)
	assert.Equal(t, 34.8, b.Stages[0].Percentage)

	assert.Equal(t, "Packaging", b.Stages[1].Stage)
	assert.Equal(t, 1500.0, b.Stages[1].Emission)
	assert.Equal(t, 65.2, b.Stages[1].Percentage)

	assert.Equal(t, "Packaging", b.HighestStage)
}

func TestBreakdown_TieResolvesToFirstEncountered(t *testing.T) {
	records := []domain.StageEmission{
		{Stage: "Manufacturing", Emission: 400},
		{Stage: "Distribution", Emission: 400},
	}

	b := view.Breakdown(records)

	assert.Equal(t, "Manufacturing", b.HighestStage)
	assert.Equal(t, 50.0, b.Stages[0].Percentage)
	assert.Equal(t, 50.0, b.Stages[1].Percentage)
}

func TestBreakdown_Empty(t *testing.T) {
	b := view.Breakdown(nil)

	assert.Equal(t, 0.0, b.Total)
	assert.Empty(t, b.Stages)
	assert.Equal(t, "", b.HighestStage)
}

func TestBreakdown_ZeroTotalSkipsPercentages(t *testing.T) {
	records := []domain.StageEmission{
		{Stage: "Raw Materials", Emission: 0},
	}

	b := view.Breakdown(records)

	require.Len(t, b.Stages, 1)
	assert.Equal(t, 0.0, b.Stages[0].Percentage)
	assert.Equal(t, "Raw Materials", b.HighestStage)
}

func TestBreakdown_AssignsStageColors(t *testing.T) {
	records := []domain.StageEmission{
		{Stage: "Logistics", Emission: 100},
		{Stage: "Something Else", Emission: 50},
	}

	b := view.Breakdown(records)

	assert.Equal(t, "#06B6D4", b.Stages[0].Color)
	// Unknown stages fall back to the raw materials green
	assert.Equal(t, "#10B981", b.Stages[1].Color)
}

func TestNodeBreakdown(t *testing.T) {
	nodes := []domain.SupplyChainNode{
		{StageName: "Logistics", Emission: 120},
		{StageName: "Logistics", Emission: 80},
		{StageName: "End-of-Life", Emission: 200},
	}

	b := view.NodeBreakdown(nodes)

	assert.Equal(t, 400.0, b.Total)
	require.Len(t, b.Stages, 2)
	assert.Equal(t, "Logistics", b.Stages[0].Stage)
	assert.Equal(t, 200.0, b.Stages[0].Emission)
	assert.Equal(t, 50.0, b.Stages[0].Percentage)
	// Equal emissions: Logistics keeps the tie as first encountered
	assert.Equal(t, "Logistics", b.HighestStage)
}

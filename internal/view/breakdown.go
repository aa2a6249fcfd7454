// Package view derives presentation data from session state. Everything here
// is a pure function of nodes and analysis results; nothing talks to the
// backend or mutates a session.
package view

import (
	"math"

	"github.com/carbonchain/portal-api/internal/domain"
)

// Breakdown groups emission records by stage, preserving first-encounter
// order, and computes each stage's share of the total to one decimal place.
// The backend does not guarantee stage ordering, so ties for the highest
// stage resolve to the first encountered.
func Breakdown(records []domain.StageEmission) domain.EmissionBreakdown {
	var breakdown domain.EmissionBreakdown

	index := make(map[string]int)
	for _, r := range records {
		if i, ok := index[r.Stage]; ok {
			breakdown.Stages[i].Emission += r.Emission
			continue
		}
		index[r.Stage] = len(breakdown.Stages)
		breakdown.Stages = append(breakdown.Stages, domain.StageShare{
			Stage:    r.Stage,
			Emission: r.Emission,
			Color:    StageColor(r.Stage),
		})
	}

	for _, s := range breakdown.Stages {
		breakdown.Total += s.Emission
	}

	highestIdx := -1
	for i := range breakdown.Stages {
		if breakdown.Total > 0 {
			breakdown.Stages[i].Percentage = roundOneDecimal(breakdown.Stages[i].Emission / breakdown.Total * 100)
		}
		if highestIdx < 0 || breakdown.Stages[i].Emission > breakdown.Stages[highestIdx].Emission {
			highestIdx = i
		}
	}
	if highestIdx >= 0 {
		breakdown.HighestStage = breakdown.Stages[highestIdx].Stage
	}

	return breakdown
}

// NodeBreakdown derives the breakdown from supply chain nodes
func NodeBreakdown(nodes []domain.SupplyChainNode) domain.EmissionBreakdown {
	records := make([]domain.StageEmission, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, domain.StageEmission{
			Stage:    n.StageName,
			Emission: n.Emission,
		})
	}
	return Breakdown(records)
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

package backend

import (
	"strings"

	"github.com/carbonchain/portal-api/internal/domain"
)

// rawRecommendation accepts both recommendation shapes the backend has
// shipped: the deterministic engine's riskLevel/currentTransport fields and
// the AI generator's implementationDifficulty/currentState aliases.
type rawRecommendation struct {
	ID                       string        `json:"_id"`
	StageName                string        `json:"stageName"`
	CurrentTransport         string        `json:"currentTransport"`
	CurrentState             string        `json:"currentState"`
	SuggestedTransport       string        `json:"suggestedTransport"`
	SuggestedImprovement     string        `json:"suggestedImprovement"`
	CarbonSaved              domain.Number `json:"carbonSaved"`
	CostSaved                domain.Number `json:"costSaved"`
	TimeImpactDays           domain.Number `json:"timeImpactDays"`
	RiskLevel                string        `json:"riskLevel"`
	ImplementationDifficulty string        `json:"implementationDifficulty"`
	RecommendationText       string        `json:"recommendationText"`
}

// normalizeRecommendations maps raw backend records into the canonical
// Recommendation shape so nothing downstream branches on field presence
func normalizeRecommendations(raw []rawRecommendation, source domain.RecommendationSource) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(raw))
	for _, r := range raw {
		recs = append(recs, domain.Recommendation{
			ID:                 r.ID,
			Source:             source,
			StageName:          r.StageName,
			CurrentTransport:   firstNonEmpty(r.CurrentTransport, r.CurrentState),
			SuggestedTransport: firstNonEmpty(r.SuggestedTransport, r.SuggestedImprovement),
			CarbonSaved:        float64(r.CarbonSaved),
			CostSaved:          float64(r.CostSaved),
			TimeImpactDays:     float64(r.TimeImpactDays),
			Risk:               normalizeRisk(firstNonEmpty(r.RiskLevel, r.ImplementationDifficulty)),
			Text:               r.RecommendationText,
		})
	}
	return recs
}

// normalizeRisk lowercases and defaults unknown risk values to medium,
// matching how the original UI rendered them
func normalizeRisk(s string) domain.RiskLevel {
	switch strings.ToLower(s) {
	case "low":
		return domain.RiskLow
	case "high":
		return domain.RiskHigh
	default:
		return domain.RiskMedium
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

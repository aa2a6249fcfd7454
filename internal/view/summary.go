package view

import "github.com/carbonchain/portal-api/internal/domain"

// AnalysisSummary is the display-ready rendering of an analysis result:
// formatted emission, the alignment badge, and the efficiency categories the
// dashboard shows next to the raw scores.
type AnalysisSummary struct {
	TotalEmission    string          `json:"totalEmission"`
	Alignment        AlignmentStatus `json:"alignment"`
	CarbonEfficiency string          `json:"carbonEfficiency"`
	CostEfficiency   string          `json:"costEfficiency"`
	TimeEfficiency   string          `json:"timeEfficiency"`
}

// Summarize derives the display summary from an analysis result, nil in nil out
func Summarize(a *domain.AnalysisResult) *AnalysisSummary {
	if a == nil {
		return nil
	}
	return &AnalysisSummary{
		TotalEmission:    FormatEmission(float64(a.TotalEmission)),
		Alignment:        Alignment(float64(a.NetZeroAlignmentPercentage)),
		CarbonEfficiency: EfficiencyCategory(float64(a.CarbonEfficiencyScore)),
		CostEfficiency:   EfficiencyCategory(float64(a.CostEfficiencyScore)),
		TimeEfficiency:   EfficiencyCategory(float64(a.TimeEfficiencyScore)),
	}
}

// RecommendationView decorates a recommendation with its display attributes
type RecommendationView struct {
	domain.Recommendation
	TimeImpact       string `json:"timeImpact"`
	RiskColor        string `json:"riskColor"`
	CarbonSavedLabel string `json:"carbonSavedLabel"`
}

// DecorateRecommendations attaches display labels to a recommendation list.
// Always returns a non-nil slice so the wire shape stays an array.
func DecorateRecommendations(recs []domain.Recommendation) []RecommendationView {
	out := make([]RecommendationView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, RecommendationView{
			Recommendation:   rec,
			TimeImpact:       TimeImpactLabel(rec.TimeImpactDays),
			RiskColor:        RiskColor(rec.Risk),
			CarbonSavedLabel: FormatEmission(rec.CarbonSaved),
		})
	}
	return out
}

package view

import (
	"fmt"

	"github.com/carbonchain/portal-api/internal/domain"
)

// AlignmentStatus labels a net-zero alignment percentage
type AlignmentStatus string

const (
	AlignmentOnTrack  AlignmentStatus = "ON TRACK"
	AlignmentAtRisk   AlignmentStatus = "AT RISK"
	AlignmentCritical AlignmentStatus = "CRITICAL"
)

// Alignment maps a net-zero alignment percentage to its status badge
func Alignment(percentage float64) AlignmentStatus {
	switch {
	case percentage >= 80:
		return AlignmentOnTrack
	case percentage >= 50:
		return AlignmentAtRisk
	default:
		return AlignmentCritical
	}
}

// FormatEmission renders an emission value in kg CO2e as tonnes with two
// decimals, e.g. "2.30 tCO2e"
func FormatEmission(kg float64) string {
	return fmt.Sprintf("%.2f tCO2e", kg/1000)
}

// EfficiencyCategory labels a 0-100 efficiency score
func EfficiencyCategory(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// TimeImpactLabel renders a recommendation's transit-time delta
func TimeImpactLabel(days float64) string {
	switch {
	case days == 0:
		return "No time change"
	case days > 0:
		return fmt.Sprintf("+%g days delay", days)
	default:
		return fmt.Sprintf("%g days faster", days)
	}
}

// stageColors are the chart colors keyed by stage name
var stageColors = map[string]string{
	string(domain.StageRawMaterials):  "#10B981",
	string(domain.StageManufacturing): "#14B8A6",
	string(domain.StageLogistics):     "#06B6D4",
	string(domain.StagePackaging):     "#8B5CF6",
	string(domain.StageDistribution):  "#EC4899",
	string(domain.StageEndOfLife):     "#F59E0B",
}

// StageColor returns the chart color for a stage, defaulting to the raw
// materials green for unknown stages
func StageColor(stage string) string {
	if c, ok := stageColors[stage]; ok {
		return c
	}
	return "#10B981"
}

// riskColors are the badge colors keyed by risk level
var riskColors = map[domain.RiskLevel]string{
	domain.RiskLow:    "#22C55E",
	domain.RiskMedium: "#F59E0B",
	domain.RiskHigh:   "#EF4444",
}

// RiskColor returns the badge color for a risk level, gray for unknown
func RiskColor(risk domain.RiskLevel) string {
	if c, ok := riskColors[risk]; ok {
		return c
	}
	return "#94A3B8"
}

package view_test

import (
	"testing"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/view"
	"github.com/stretchr/testify/assert"
)

func TestAlignment(t *testing.T) {
	assert.Equal(t, view.AlignmentOnTrack, view.Alignment(100))
	assert.Equal(t, view.AlignmentOnTrack, view.Alignment(80))
	assert.Equal(t, view.AlignmentAtRisk, view.Alignment(79.9))
	assert.Equal(t, view.AlignmentAtRisk, view.Alignment(50))
	assert.Equal(t, view.AlignmentCritical, view.Alignment(49.9))
	assert.Equal(t, view.AlignmentCritical, view.Alignment(0))
}

func TestFormatEmission(t *testing.T) {
	assert.Equal(t, "2.30 tCO2e", view.FormatEmission(2300))
	assert.Equal(t, "0.00 tCO2e", view.FormatEmission(0))
	assert.Equal(t, "0.05 tCO2e", view.FormatEmission(50))
	assert.Equal(t, "1234.57 tCO2e", view.FormatEmission(1234567.8))
}

func TestEfficiencyCategory(t *testing.T) {
	assert.Equal(t, "Excellent", view.EfficiencyCategory(80))
	assert.Equal(t, "Good", view.EfficiencyCategory(60))
	assert.Equal(t, "Fair", view.EfficiencyCategory(40))
	assert.Equal(t, "Needs Improvement", view.EfficiencyCategory(39.9))
}

func TestTimeImpactLabel(t *testing.T) {
	assert.Equal(t, "No time change", view.TimeImpactLabel(0))
	assert.Equal(t, "+2 days delay", view.TimeImpactLabel(2))
	assert.Equal(t, "+0.5 days delay", view.TimeImpactLabel(0.5))
	assert.Equal(t, "-3 days faster", view.TimeImpactLabel(-3))
}

func TestRiskColor(t *testing.T) {
	assert.Equal(t, "#22C55E", view.RiskColor(domain.RiskLow))
	assert.Equal(t, "#F59E0B", view.RiskColor(domain.RiskMedium))
	assert.Equal(t, "#EF4444", view.RiskColor(domain.RiskHigh))
	assert.Equal(t, "#94A3B8", view.RiskColor(domain.RiskLevel("unknown")))
}

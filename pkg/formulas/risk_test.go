package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

var vehicleShares = map[domain.Partner]float64{
	domain.PartnerUS:    0.62,
	domain.PartnerChina: 0.08,
	domain.PartnerEU:    0.15,
	domain.PartnerOther: 0.15,
}

func TestExposure(t *testing.T) {
	tests := []struct {
		name    string
		targets []domain.Partner
		want    float64
	}{
		{"single partner", []domain.Partner{domain.PartnerUS}, 0.62},
		{"two partners", []domain.Partner{domain.PartnerUS, domain.PartnerChina}, 0.70},
		{"empty targets", nil, 0},
		{"partner absent from shares", []domain.Partner{domain.PartnerEU, "Missing"}, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Exposure(vehicleShares, tt.targets), 1e-9)
		})
	}
}

func TestExposure_ClampedToOne(t *testing.T) {
	// Upstream data noise: shares summing above 1 must not escape [0, 1].
	noisy := map[domain.Partner]float64{
		domain.PartnerUS:    0.8,
		domain.PartnerChina: 0.5,
	}
	got := Exposure(noisy, []domain.Partner{domain.PartnerUS, domain.PartnerChina})
	assert.Equal(t, 1.0, got)
}

func TestConcentration(t *testing.T) {
	assert.Equal(t, 0.62, Concentration(0.62))
	assert.Equal(t, 1.0, Concentration(1.3), "clamped")
	assert.Equal(t, 0.0, Concentration(-0.2), "clamped")
}

func TestShock(t *testing.T) {
	assert.Equal(t, 0.0, Shock(0, 25))
	assert.Equal(t, 1.0, Shock(25, 25))
	assert.InDelta(t, 0.4, Shock(10, 25), 1e-9)
	assert.Equal(t, 1.0, Shock(40, 25), "over-max tariff clamps to 1")
	assert.Equal(t, 0.0, Shock(10, 0), "degenerate max tariff yields zero shock")
}

func TestRiskScore(t *testing.T) {
	// Golden: (0.6*0.62 + 0.4*0.62) * 0.4 * 100 = 24.8
	assert.Equal(t, 24.8, RiskScore(0.62, 0.62, 0.4, 0.6, 0.4))

	assert.Equal(t, 0.0, RiskScore(0.62, 0.62, 0, 0.6, 0.4), "zero shock means zero risk")
	assert.Equal(t, 100.0, RiskScore(1, 1, 1, 0.6, 0.4))
}

func TestRiskScore_Bounds(t *testing.T) {
	for _, e := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, c := range []float64{0, 0.5, 1} {
			for _, s := range []float64{0, 0.5, 1} {
				score := RiskScore(e, c, s, 0.6, 0.4)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 100.0)
			}
		}
	}
}

func TestRiskScore_MonotoneInShock(t *testing.T) {
	prev := -1.0
	for _, tariff := range []float64{0, 5, 10, 15, 20, 25} {
		score := RiskScore(0.62, 0.62, Shock(tariff, 25), 0.6, 0.4)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestAffectedExportValue(t *testing.T) {
	assert.Equal(t, 12_400_000_000.0, AffectedExportValue(50_000_000_000, 0.62, 0.4))
	assert.Equal(t, 0.0, AffectedExportValue(50_000_000_000, 0, 0.4))
	assert.Equal(t, 0.0, AffectedExportValue(50_000_000_000, 0.62, 0))
}

func TestDependencyPercent(t *testing.T) {
	assert.Equal(t, 62.0, DependencyPercent(0.62))
	assert.Equal(t, 100.0, DependencyPercent(1.2), "clamped before scaling")
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 24.8, Round1(24.800000000000004))
	assert.Equal(t, 0.1, Round1(0.05))
}

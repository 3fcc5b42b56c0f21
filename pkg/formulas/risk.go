// Package formulas provides pure, deterministic scoring primitives.
// No I/O, no shared state - every function is a finite computation over
// already-validated numeric inputs.
package formulas

import (
	"math"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

// Exposure sums the sector's export shares toward the target partners,
// clamped to [0, 1]. Partners absent from the mapping contribute 0.
// The clamp guards against pathological upstream data where shares sum
// above 1; an empty target set always yields 0.
func Exposure(shares map[domain.Partner]float64, targets []domain.Partner) float64 {
	total := 0.0
	for _, p := range targets {
		total += shares[p]
	}
	return Clamp(total, 0, 1)
}

// Concentration is the sector's dependence on its single largest partner,
// independent of which partners the scenario targets.
func Concentration(topPartnerShare float64) float64 {
	return Clamp(topPartnerShare, 0, 1)
}

// Shock normalizes a tariff percentage to [0, 1] linearly against the
// maximum modeled tariff: 0% -> 0, maxTariff% -> 1.
func Shock(tariffPercent, maxTariffPercent float64) float64 {
	if maxTariffPercent <= 0 {
		return 0
	}
	return Clamp(tariffPercent/maxTariffPercent, 0, 1)
}

// RiskScore composes exposure, concentration and shock into a 0-100 score,
// rounded to one decimal:
//
//	risk = (wExposure*exposure + wConcentration*concentration) * shock * 100
//
// Monotone non-decreasing in each input when the others are held fixed.
func RiskScore(exposure, concentration, shock, wExposure, wConcentration float64) float64 {
	raw := (wExposure*exposure + wConcentration*concentration) * shock
	return Clamp(Round1(raw*100), 0, 100)
}

// AffectedExportValue estimates the monetary export value hit by the shock.
// Zero if either exposure or shock is zero, regardless of trade volume.
func AffectedExportValue(totalExports, exposure, shock float64) float64 {
	return totalExports * exposure * shock
}

// DependencyPercent expresses the top-partner share on a 0-100 scale.
func DependencyPercent(topPartnerShare float64) float64 {
	return Clamp(topPartnerShare, 0, 1) * 100
}

// Clamp bounds v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

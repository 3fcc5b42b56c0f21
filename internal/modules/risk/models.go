// Package risk implements the deterministic tariff risk scoring engine:
// scenario evaluation, actual-tariff replay and scenario comparison over the
// immutable sector universe.
package risk

import (
	"fmt"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
)

// Default scoring constants. The weights are a process-wide invariant (they
// must sum to exactly 1.0), not a runtime-mutable parameter.
const (
	DefaultWExposure        = 0.6
	DefaultWConcentration   = 0.4
	DefaultMaxTariffPercent = 25.0
)

// Config holds the scoring constants threaded into the engine at
// construction. Keeping them injected (rather than free-floating globals)
// allows alternate weight sets for scenario A/B testing.
type Config struct {
	WExposure        float64 `json:"w_exposure"`
	WConcentration   float64 `json:"w_concentration"`
	MaxTariffPercent float64 `json:"max_tariff_percent"`
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		WExposure:        DefaultWExposure,
		WConcentration:   DefaultWConcentration,
		MaxTariffPercent: DefaultMaxTariffPercent,
	}
}

// Validate checks the process-wide invariants on the scoring constants.
func (c Config) Validate() error {
	if c.WExposure < 0 || c.WConcentration < 0 {
		return fmt.Errorf("scoring weights must be >= 0")
	}
	if c.WExposure+c.WConcentration != 1.0 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", c.WExposure+c.WConcentration)
	}
	if c.MaxTariffPercent <= 0 {
		return fmt.Errorf("max_tariff_percent must be > 0, got %v", c.MaxTariffPercent)
	}
	return nil
}

// ScenarioInput describes one evaluation request: a uniform hypothetical
// tariff against a set of target partners, optionally restricted to a subset
// of sectors. Construct via NewScenarioInput so an out-of-range tariff is
// rejected before evaluation starts. Transient - never persisted.
type ScenarioInput struct {
	TariffPercent  float64          `json:"tariff_percent"`
	TargetPartners []domain.Partner `json:"target_partners"`
	SectorFilter   []string         `json:"sector_filter,omitempty"`
}

// NewScenarioInput validates and constructs a ScenarioInput against the
// given maximum tariff. A nil sector filter means "all sectors".
func NewScenarioInput(tariffPercent float64, targets []domain.Partner, sectorFilter []string, maxTariffPercent float64) (ScenarioInput, error) {
	if tariffPercent < 0 || tariffPercent > maxTariffPercent {
		return ScenarioInput{}, fmt.Errorf("tariff_percent must be in [0, %v], got %v", maxTariffPercent, tariffPercent)
	}
	for _, p := range targets {
		if _, err := domain.ParsePartner(string(p)); err != nil {
			return ScenarioInput{}, err
		}
	}
	return ScenarioInput{
		TariffPercent:  tariffPercent,
		TargetPartners: targets,
		SectorFilter:   sectorFilter,
	}, nil
}

// Explainability records the raw primitive values and the weighted
// components so a caller can reconstruct the composite score without
// re-deriving the weights.
type Explainability struct {
	ExposureValue          float64 `json:"exposure_value"`
	ConcentrationValue     float64 `json:"concentration_value"`
	ShockValue             float64 `json:"shock_value"`
	ExposureComponent      float64 `json:"exposure_component"`
	ConcentrationComponent float64 `json:"concentration_component"`
}

// SectorRiskOutput is the scored result for one (sector, scenario) pair.
// Produced fresh per evaluation and never mutated after construction.
type SectorRiskOutput struct {
	SectorID            string         `json:"sector_id"`
	SectorName          string         `json:"sector_name"`
	Exposure            float64        `json:"exposure"`
	Concentration       float64        `json:"concentration"`
	Shock               float64        `json:"shock"`
	RiskScore           float64        `json:"risk_score"`
	RiskDelta           float64        `json:"risk_delta"`
	DependencyPercent   float64        `json:"dependency_percent"`
	AffectedExportValue float64        `json:"affected_export_value"`
	TopPartner          domain.Partner `json:"top_partner"`
	Explainability      Explainability `json:"explainability"`
}

// ScenarioEcho mirrors the evaluated scenario back to the caller.
type ScenarioEcho struct {
	TariffPercent  float64          `json:"tariff_percent"`
	TargetPartners []domain.Partner `json:"target_partners"`
	SectorFilter   []string         `json:"sector_filter,omitempty"`
	Mode           string           `json:"mode,omitempty"` // set to "actual_tariffs" in replay mode
}

// ScenarioResponse is the aggregate evaluation result: every scored sector
// ordered by risk descending, the top-5 biggest movers, and the scoring
// constants in force.
type ScenarioResponse struct {
	Scenario      ScenarioEcho       `json:"scenario"`
	Sectors       []SectorRiskOutput `json:"sectors"`
	BiggestMovers []SectorRiskOutput `json:"biggest_movers"`
	TotalSectors  int                `json:"total_sectors"`
	Metadata      Config             `json:"metadata"`
}

// ComparisonRow is the per-sector delta between a shock scenario and its
// baseline.
type ComparisonRow struct {
	SectorID            string         `json:"sector_id"`
	SectorName          string         `json:"sector_name"`
	BaselineRisk        float64        `json:"baseline_risk"`
	ScenarioRisk        float64        `json:"scenario_risk"`
	RiskChange          float64        `json:"risk_change"`
	AffectedExportValue float64        `json:"affected_export_value"`
	TopPartner          domain.Partner `json:"top_partner"`
	DependencyPercent   float64        `json:"dependency_percent"`
}

// ComparisonResponse is the full baseline-vs-shock diff, ordered by risk
// change descending.
type ComparisonResponse struct {
	BaselineScenario ScenarioEcho    `json:"baseline_scenario"`
	ShockScenario    ScenarioEcho    `json:"shock_scenario"`
	Comparison       []ComparisonRow `json:"comparison"`
	BiggestGainers   []ComparisonRow `json:"biggest_gainers"`
	TotalSectors     int             `json:"total_sectors"`
}

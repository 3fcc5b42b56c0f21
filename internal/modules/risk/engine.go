package risk

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
	"github.com/geeranbalaranjan/tariff-shock/pkg/formulas"
)

// topMoversCount is the size of the biggest_movers / biggest_gainers slices.
const topMoversCount = 5

// SectorProvider supplies the immutable sector universe, loaded once at
// process start.
type SectorProvider interface {
	GetSector(id string) (domain.SectorSummary, bool)
	AllSectors() map[string]domain.SectorSummary
	SectorIDs() []string
}

// TariffRates supplies actual per-sector, per-partner tariff rates for the
// replay mode. Unknown lookups default to a zero rate.
type TariffRates interface {
	Rate(hs2 string, partner domain.Partner) float64
	MaxRate(hs2 string, partners []domain.Partner) float64
}

// Engine evaluates tariff scenarios over the sector universe. It is purely
// functional over immutable inputs: evaluations are independent, synchronous
// and safe to run concurrently without coordination.
type Engine struct {
	provider SectorProvider
	tariffs  TariffRates
	cfg      Config
	log      zerolog.Logger
}

// NewEngine creates a scoring engine with the given configuration. The
// configuration invariants (weights summing to 1.0) are enforced here, once,
// so every later evaluation can trust them.
func NewEngine(provider SectorProvider, tariffs TariffRates, cfg Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return &Engine{
		provider: provider,
		tariffs:  tariffs,
		cfg:      cfg,
		log:      log.With().Str("service", "risk_engine").Logger(),
	}, nil
}

// Config returns the scoring constants in force. Read-only introspection.
func (e *Engine) Config() Config {
	return e.cfg
}

// NewScenario validates and constructs a scenario against this engine's
// maximum tariff.
func (e *Engine) NewScenario(tariffPercent float64, targets []domain.Partner, sectorFilter []string) (ScenarioInput, error) {
	return NewScenarioInput(tariffPercent, targets, sectorFilter, e.cfg.MaxTariffPercent)
}

// Evaluate scores every candidate sector under the scenario's uniform tariff
// and returns the ranked result set. An invalid scenario fails before any
// sector is scored; an empty candidate set is a valid, empty response.
func (e *Engine) Evaluate(scenario ScenarioInput) (*ScenarioResponse, error) {
	if scenario.TariffPercent < 0 || scenario.TariffPercent > e.cfg.MaxTariffPercent {
		return nil, fmt.Errorf("tariff_percent must be in [0, %v], got %v", e.cfg.MaxTariffPercent, scenario.TariffPercent)
	}

	candidates := e.candidates(scenario.SectorFilter)
	sectors := make([]SectorRiskOutput, 0, len(candidates))
	for _, id := range candidates {
		sector, ok := e.provider.GetSector(id)
		if !ok {
			continue
		}
		sectors = append(sectors, e.scoreSector(sector, scenario.TargetPartners, scenario.TariffPercent))
	}

	rankByRisk(sectors)

	e.log.Debug().
		Float64("tariff_percent", scenario.TariffPercent).
		Int("sectors", len(sectors)).
		Msg("Scenario evaluated")

	return &ScenarioResponse{
		Scenario: ScenarioEcho{
			TariffPercent:  scenario.TariffPercent,
			TargetPartners: echoPartners(scenario.TargetPartners),
			SectorFilter:   scenario.SectorFilter,
		},
		Sectors:       sectors,
		BiggestMovers: topN(sectors, topMoversCount),
		TotalSectors:  len(sectors),
		Metadata:      e.cfg,
	}, nil
}

// EvaluateBaseline evaluates the zero-tariff reference scenario: every
// sector scores 0 by the zero-shock identity, which gives callers the
// neutral ranking frame.
func (e *Engine) EvaluateBaseline(sectorFilter []string) (*ScenarioResponse, error) {
	scenario, err := e.NewScenario(0, nil, sectorFilter)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(scenario)
}

// EvaluateActualTariffs replays the real tariff-rate table: for each sector
// the highest rate across the requested partners (default 0 when untariffed)
// feeds the same shock pipeline as a hypothetical scenario, so risk reflects
// heterogeneous sector-specific rates in one pass.
func (e *Engine) EvaluateActualTariffs(targetPartners []domain.Partner, sectorFilter []string) (*ScenarioResponse, error) {
	if len(targetPartners) == 0 {
		return nil, fmt.Errorf("at least one target partner is required")
	}
	for _, p := range targetPartners {
		if _, err := domain.ParsePartner(string(p)); err != nil {
			return nil, err
		}
	}

	sectors := make([]SectorRiskOutput, 0)
	for _, id := range e.candidates(sectorFilter) {
		sector, ok := e.provider.GetSector(id)
		if !ok {
			continue
		}
		rate := e.tariffs.MaxRate(sector.SectorID, targetPartners)
		sectors = append(sectors, e.scoreSector(sector, targetPartners, rate))
	}

	rankByRisk(sectors)

	return &ScenarioResponse{
		Scenario: ScenarioEcho{
			TargetPartners: echoPartners(targetPartners),
			SectorFilter:   sectorFilter,
			Mode:           "actual_tariffs",
		},
		Sectors:       sectors,
		BiggestMovers: topN(sectors, topMoversCount),
		TotalSectors:  len(sectors),
		Metadata:      e.cfg,
	}, nil
}

// Compare evaluates a baseline and a shock scenario over the same candidate
// set and diffs them per sector. Pure fan-out plus subtraction - no new
// arithmetic beyond risk_change = scenario_risk - baseline_risk.
func (e *Engine) Compare(baseline, shock ScenarioInput, sectorFilter []string) (*ComparisonResponse, error) {
	if sectorFilter != nil {
		baseline.SectorFilter = sectorFilter
		shock.SectorFilter = sectorFilter
	}

	baselineResp, err := e.Evaluate(baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline scenario: %w", err)
	}
	shockResp, err := e.Evaluate(shock)
	if err != nil {
		return nil, fmt.Errorf("shock scenario: %w", err)
	}

	baselineByID := make(map[string]SectorRiskOutput, len(baselineResp.Sectors))
	for _, s := range baselineResp.Sectors {
		baselineByID[s.SectorID] = s
	}

	comparison := make([]ComparisonRow, 0, len(shockResp.Sectors))
	for _, s := range shockResp.Sectors {
		baselineRisk := 0.0
		if b, ok := baselineByID[s.SectorID]; ok {
			baselineRisk = b.RiskScore
		}
		comparison = append(comparison, ComparisonRow{
			SectorID:            s.SectorID,
			SectorName:          s.SectorName,
			BaselineRisk:        baselineRisk,
			ScenarioRisk:        s.RiskScore,
			RiskChange:          formulas.Round1(s.RiskScore - baselineRisk),
			AffectedExportValue: s.AffectedExportValue,
			TopPartner:          s.TopPartner,
			DependencyPercent:   s.DependencyPercent,
		})
	}

	sort.SliceStable(comparison, func(i, j int) bool {
		if comparison[i].RiskChange != comparison[j].RiskChange {
			return comparison[i].RiskChange > comparison[j].RiskChange
		}
		return comparison[i].SectorID < comparison[j].SectorID
	})

	return &ComparisonResponse{
		BaselineScenario: baselineResp.Scenario,
		ShockScenario:    shockResp.Scenario,
		Comparison:       comparison,
		BiggestGainers:   topNRows(comparison, topMoversCount),
		TotalSectors:     len(comparison),
	}, nil
}

// scoreSector runs the full primitive pipeline for one sector. risk_delta is
// the score minus the score under a zero-tariff baseline with the same
// targets; expressed generally to support future non-zero baselines, even
// though the zero-shock identity makes the baseline term 0 today.
func (e *Engine) scoreSector(sector domain.SectorSummary, targets []domain.Partner, tariffPercent float64) SectorRiskOutput {
	exposure := formulas.Exposure(sector.PartnerShares, targets)
	concentration := formulas.Concentration(sector.TopPartnerShare)
	shock := formulas.Shock(tariffPercent, e.cfg.MaxTariffPercent)

	score := formulas.RiskScore(exposure, concentration, shock, e.cfg.WExposure, e.cfg.WConcentration)
	baselineScore := formulas.RiskScore(exposure, concentration, formulas.Shock(0, e.cfg.MaxTariffPercent), e.cfg.WExposure, e.cfg.WConcentration)

	return SectorRiskOutput{
		SectorID:            sector.SectorID,
		SectorName:          sector.SectorName,
		Exposure:            exposure,
		Concentration:       concentration,
		Shock:               shock,
		RiskScore:           score,
		RiskDelta:           formulas.Round1(score - baselineScore),
		DependencyPercent:   formulas.DependencyPercent(sector.TopPartnerShare),
		AffectedExportValue: formulas.AffectedExportValue(sector.TotalExports, exposure, shock),
		TopPartner:          sector.TopPartner,
		Explainability: Explainability{
			ExposureValue:          exposure,
			ConcentrationValue:     concentration,
			ShockValue:             shock,
			ExposureComponent:      e.cfg.WExposure * exposure,
			ConcentrationComponent: e.cfg.WConcentration * concentration,
		},
	}
}

// candidates resolves the sector ids to score: the full universe when no
// filter is given, otherwise the filter intersected with known ids. Unknown
// filter ids are silently dropped; duplicates are collapsed. The result is
// always in ascending id order for deterministic output.
func (e *Engine) candidates(sectorFilter []string) []string {
	if sectorFilter == nil {
		return e.provider.SectorIDs()
	}

	seen := make(map[string]struct{}, len(sectorFilter))
	ids := make([]string, 0, len(sectorFilter))
	for _, id := range sectorFilter {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := e.provider.GetSector(id); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// rankByRisk sorts by risk score descending with an ascending sector-id
// tie-break, keeping the ordering stable and deterministic.
func rankByRisk(sectors []SectorRiskOutput) {
	sort.SliceStable(sectors, func(i, j int) bool {
		if sectors[i].RiskScore != sectors[j].RiskScore {
			return sectors[i].RiskScore > sectors[j].RiskScore
		}
		return sectors[i].SectorID < sectors[j].SectorID
	})
}

func topN(sectors []SectorRiskOutput, n int) []SectorRiskOutput {
	if len(sectors) < n {
		n = len(sectors)
	}
	return sectors[:n]
}

func topNRows(rows []ComparisonRow, n int) []ComparisonRow {
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}

// echoPartners normalizes a nil target set to an empty slice so it
// serializes as [] rather than null.
func echoPartners(partners []domain.Partner) []domain.Partner {
	if partners == nil {
		return []domain.Partner{}
	}
	return partners
}

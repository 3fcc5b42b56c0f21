// Package handlers provides HTTP handlers for the tariff risk engine.
package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/geeranbalaranjan/tariff-shock/internal/domain"
	"github.com/geeranbalaranjan/tariff-shock/internal/modules/refdata"
	"github.com/geeranbalaranjan/tariff-shock/internal/modules/risk"
)

// Handler handles risk engine HTTP requests
type Handler struct {
	engine   *risk.Engine
	provider risk.SectorProvider
	tariffs  *refdata.TariffTable
	log      zerolog.Logger
}

// NewHandler creates a new risk engine handler
func NewHandler(
	engine *risk.Engine,
	provider risk.SectorProvider,
	tariffs *refdata.TariffTable,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		engine:   engine,
		provider: provider,
		tariffs:  tariffs,
		log:      log.With().Str("handler", "risk").Logger(),
	}
}

// HandleListSectors handles GET /api/sectors
func (h *Handler) HandleListSectors(w http.ResponseWriter, r *http.Request) {
	ids := h.provider.SectorIDs()

	sectors := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		s, ok := h.provider.GetSector(id)
		if !ok {
			continue
		}
		sectors = append(sectors, map[string]interface{}{
			"sector_id":         s.SectorID,
			"sector_name":       s.SectorName,
			"total_exports":     s.TotalExports,
			"top_partner":       s.TopPartner,
			"top_partner_share": s.TopPartnerShare,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(sectors),
		"sectors": sectors,
	})
}

// HandleGetSector handles GET /api/sectors/{sectorID}
func (h *Handler) HandleGetSector(w http.ResponseWriter, r *http.Request) {
	sectorID := chi.URLParam(r, "sectorID")

	s, ok := h.provider.GetSector(sectorID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Sector not found: "+sectorID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sector_id":         s.SectorID,
		"sector_name":       s.SectorName,
		"total_exports":     s.TotalExports,
		"partner_shares":    s.PartnerShares,
		"top_partner":       s.TopPartner,
		"top_partner_share": s.TopPartnerShare,
		"hhi_concentration": s.HHIConcentration,
	})
}

// HandleBaseline handles GET /api/baseline
//
// Query params:
//
//	sectors: comma-separated sector ids (optional)
func (h *Handler) HandleBaseline(w http.ResponseWriter, r *http.Request) {
	resp, err := h.engine.EvaluateBaseline(parseCSVParam(r.URL.Query().Get("sectors")))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to evaluate baseline")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// scenarioRequest is the wire shape of a scenario evaluation request.
type scenarioRequest struct {
	TariffPercent  *float64 `json:"tariff_percent"`
	TargetPartners []string `json:"target_partners"`
	SectorFilter   []string `json:"sector_filter"`
}

// HandleScenario handles POST /api/scenario
//
// Request body:
//
//	{
//	    "tariff_percent": 10,          // 0-25, required
//	    "target_partners": ["US"],     // US, China, EU
//	    "sector_filter": ["01", "02"]  // optional
//	}
func (h *Handler) HandleScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Request body is required and must be valid JSON")
		return
	}

	scenario, ok := h.buildScenario(w, req)
	if !ok {
		return
	}

	resp, err := h.engine.Evaluate(scenario)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to evaluate scenario")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// compareRequest is the wire shape of a comparison request.
type compareRequest struct {
	Baseline     *scenarioRequest `json:"baseline"`
	Scenario     *scenarioRequest `json:"scenario"`
	SectorFilter []string         `json:"sector_filter"`
}

// HandleCompare handles POST /api/compare
//
// Request body:
//
//	{
//	    "baseline": {"tariff_percent": 0, "target_partners": []},
//	    "scenario": {"tariff_percent": 10, "target_partners": ["US"]},
//	    "sector_filter": ["01", "02"]  // optional
//	}
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Request body is required and must be valid JSON")
		return
	}

	if req.Scenario == nil {
		h.writeError(w, http.StatusBadRequest, "scenario is required")
		return
	}

	// Baseline defaults to the zero-tariff scenario.
	if req.Baseline == nil {
		zero := 0.0
		req.Baseline = &scenarioRequest{TariffPercent: &zero}
	}

	baseline, ok := h.buildScenario(w, *req.Baseline)
	if !ok {
		return
	}
	shock, ok := h.buildScenario(w, *req.Scenario)
	if !ok {
		return
	}

	resp, err := h.engine.Compare(baseline, shock, req.SectorFilter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compare scenarios")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleActualTariffs handles GET /api/actual-tariffs
//
// Query params:
//
//	partners: comma-separated partners (default: US)
//	sectors: comma-separated sector ids (optional)
func (h *Handler) HandleActualTariffs(w http.ResponseWriter, r *http.Request) {
	partners := []domain.Partner{}
	for _, raw := range parseCSVParam(r.URL.Query().Get("partners")) {
		p, err := domain.ParseTargetPartner(raw)
		if err != nil {
			// Unknown partners in the query are tolerated, not an error.
			continue
		}
		partners = append(partners, p)
	}
	if len(partners) == 0 {
		partners = []domain.Partner{domain.PartnerUS}
	}

	resp, err := h.engine.EvaluateActualTariffs(partners, parseCSVParam(r.URL.Query().Get("sectors")))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to evaluate actual tariffs")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleTariffRates handles GET /api/tariff-rates
func (h *Handler) HandleTariffRates(w http.ResponseWriter, r *http.Request) {
	all := h.tariffs.AllTariffedSectors()

	rates := make([]map[string]interface{}, 0, len(all))
	for hs2, breakdown := range all {
		name := "Sector " + hs2
		if s, ok := h.provider.GetSector(hs2); ok {
			name = s.SectorName
		}

		maxRate := 0.0
		for _, rate := range breakdown {
			if rate > maxRate {
				maxRate = rate
			}
		}

		rates = append(rates, map[string]interface{}{
			"hs2":          hs2,
			"sector_name":  name,
			"tariff_rates": breakdown,
			"max_tariff":   maxRate,
		})
	}

	// Highest tariff first; hs2 ascending as the deterministic tie-break.
	sort.Slice(rates, func(i, j int) bool {
		mi := rates[i]["max_tariff"].(float64)
		mj := rates[j]["max_tariff"].(float64)
		if mi != mj {
			return mi > mj
		}
		return rates[i]["hs2"].(string) < rates[j]["hs2"].(string)
	})

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"description":            "Actual tariff rates imposed on exports, by sector",
		"tariffs":                rates,
		"total_tariffed_sectors": len(rates),
	})
}

// HandlePartners handles GET /api/partners
func (h *Handler) HandlePartners(w http.ResponseWriter, r *http.Request) {
	partners := make([]map[string]string, 0, len(domain.TargetablePartners))
	for _, p := range domain.TargetablePartners {
		partners = append(partners, map[string]string{
			"id":   string(p),
			"name": p.DisplayName(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"partners": partners,
		"note":     "All other countries are aggregated as 'Other'",
	})
}

// HandleConfig handles GET /api/config
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.engine.Config()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"w_exposure":         cfg.WExposure,
		"w_concentration":    cfg.WConcentration,
		"max_tariff_percent": cfg.MaxTariffPercent,
		"risk_formula":       "risk = (w_exposure * exposure + w_concentration * concentration) * shock",
		"shock_formula":      "shock = tariff_percent / max_tariff_percent",
	})
}

// buildScenario validates a wire-level scenario request into a ScenarioInput,
// writing a 400 response and returning false on any validation failure.
func (h *Handler) buildScenario(w http.ResponseWriter, req scenarioRequest) (risk.ScenarioInput, bool) {
	if req.TariffPercent == nil {
		h.writeError(w, http.StatusBadRequest, "tariff_percent is required")
		return risk.ScenarioInput{}, false
	}

	partners := make([]domain.Partner, 0, len(req.TargetPartners))
	for _, raw := range req.TargetPartners {
		p, err := domain.ParseTargetPartner(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return risk.ScenarioInput{}, false
		}
		partners = append(partners, p)
	}

	scenario, err := h.engine.NewScenario(*req.TariffPercent, partners, req.SectorFilter)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return risk.ScenarioInput{}, false
	}
	return scenario, true
}

// parseCSVParam splits a comma-separated query parameter, trimming blanks.
// Returns nil for an absent parameter so "no filter" and "empty filter"
// stay distinguishable.
func parseCSVParam(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

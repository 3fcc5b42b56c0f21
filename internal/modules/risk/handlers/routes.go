package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers all risk engine routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Reference data
	r.Get("/sectors", h.HandleListSectors)
	r.Get("/sectors/{sectorID}", h.HandleGetSector)
	r.Get("/partners", h.HandlePartners)
	r.Get("/tariff-rates", h.HandleTariffRates)
	r.Get("/config", h.HandleConfig)

	// Scoring
	r.Get("/baseline", h.HandleBaseline)
	r.Post("/scenario", h.HandleScenario)
	r.Post("/compare", h.HandleCompare)
	r.Get("/actual-tariffs", h.HandleActualTariffs)
}

package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all allocation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/allocations", func(r chi.Router) {
		r.Get("/sector", h.HandleGetSectorAllocation) // Breakdown by sector
		r.Get("/asset", h.HandleGetAssetAllocation)   // Breakdown by asset type
	})
}

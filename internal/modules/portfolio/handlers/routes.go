package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/positions", h.HandleGetPositions)
		r.Get("/positions/{symbol}", h.HandleGetPosition)
		r.Put("/positions/{symbol}/price", h.HandleUpdatePrice) // Mark to market
		r.Get("/summary", h.HandleGetSummary)

		r.Route("/performance", func(r chi.Router) {
			r.Get("/history", h.HandleGetPerformanceHistory) // Daily value series
		})
	})
}

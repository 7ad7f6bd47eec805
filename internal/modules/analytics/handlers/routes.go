package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/metrics", h.HandleGetMetrics)         // Performance metrics (?benchmark=0.01,-0.02,...)
		r.Get("/risk", h.HandleGetRisk)               // VaR, CVaR, drawdown details
		r.Get("/correlation", h.HandleGetCorrelation) // Symbol correlation matrix
		r.Post("/optimize", h.HandleOptimize)         // Recommended weights for a risk tolerance
	})
}

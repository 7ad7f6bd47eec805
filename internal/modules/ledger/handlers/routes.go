package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ledger routes.
// List, totals, monthly, top and export accept the filters
// type, symbol, q, from and to.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.Get("/transactions", h.HandleGetTransactions)
		r.Post("/transactions", h.HandleRecordTransaction) // Settle a buy, sell or dividend
		r.Get("/transactions/{id}", h.HandleGetTransaction)

		r.Get("/totals", h.HandleGetTotals)
		r.Get("/monthly", h.HandleGetMonthly)    // Last 12 months
		r.Get("/top", h.HandleGetTopTraded)      // ?n=
		r.Get("/tax/{year}", h.HandleGetTaxSummary) // ?method=fixed|average
		r.Get("/export.csv", h.HandleExportCSV)
	})
}

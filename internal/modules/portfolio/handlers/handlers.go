// Package handlers provides HTTP handlers for portfolio positions and valuation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/analytics"
	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	positionRepo *portfolio.PositionRepository
	settlement   *ledger.SettlementService
	analytics    *analytics.Service
	log          zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(
	positionRepo *portfolio.PositionRepository,
	settlement *ledger.SettlementService,
	analyticsService *analytics.Service,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		positionRepo: positionRepo,
		settlement:   settlement,
		analytics:    analyticsService,
		log:          log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetPositions handles GET /api/portfolio/positions
func (h *Handler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positionRepo.GetAll(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to load positions")
		return
	}

	h.writeData(w, portfolio.Valuations(positions))
}

// HandleGetPosition handles GET /api/portfolio/positions/{symbol}
func (h *Handler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	pos, err := h.positionRepo.GetBySymbol(r.Context(), symbol)
	if err != nil {
		h.handleError(w, err, "Failed to load position")
		return
	}
	if pos == nil {
		h.writeError(w, http.StatusNotFound, "position not found: "+symbol)
		return
	}

	h.writeData(w, pos.Valuation())
}

// UpdatePriceRequest is the body of PUT /api/portfolio/positions/{symbol}/price
type UpdatePriceRequest struct {
	Price *float64 `json:"price"`
}

// HandleUpdatePrice handles PUT /api/portfolio/positions/{symbol}/price
func (h *Handler) HandleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price == nil {
		h.writeError(w, http.StatusBadRequest, "price is required")
		return
	}

	pos, err := h.settlement.UpdatePrice(r.Context(), symbol, *req.Price)
	if err != nil {
		h.handleError(w, err, "Failed to update price")
		return
	}

	h.writeData(w, pos.Valuation())
}

// HandleGetSummary handles GET /api/portfolio/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.Summary(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to build portfolio summary")
		return
	}

	h.writeData(w, summary)
}

// HistoryPoint is one day of the performance history
type HistoryPoint struct {
	Date        string  `json:"date"`
	TotalValue  float64 `json:"total_value"`
	CashBalance float64 `json:"cash_balance"`
}

// HandleGetPerformanceHistory handles GET /api/portfolio/performance/history?days=N
func (h *Handler) HandleGetPerformanceHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	series, source, err := h.analytics.PerformanceHistory(r.Context(), days)
	if err != nil {
		h.handleError(w, err, "Failed to build performance history")
		return
	}

	points := make([]HistoryPoint, len(series))
	for i, s := range series {
		points[i] = HistoryPoint{
			Date:        s.Date.Format(domain.DateLayout),
			TotalValue:  s.TotalValue,
			CashBalance: s.CashBalance,
		}
	}

	h.writeData(w, map[string]interface{}{
		"source": source,
		"points": points,
	})
}

func (h *Handler) handleError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg(msg)
		h.writeError(w, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

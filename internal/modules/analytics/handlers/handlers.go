// Package handlers provides HTTP handlers for performance and risk analytics.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/analytics"
	"github.com/rs/zerolog"
)

// Handler handles analytics HTTP requests
type Handler struct {
	service *analytics.Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// HandleGetMetrics handles GET /api/analytics/metrics
func (h *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	benchmark, err := parseBenchmark(r.URL.Query().Get("benchmark"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.service.Metrics(r.Context(), benchmark)
	if err != nil {
		h.handleError(w, err, "Failed to compute metrics")
		return
	}

	h.writeData(w, m)
}

// HandleGetRisk handles GET /api/analytics/risk
func (h *Handler) HandleGetRisk(w http.ResponseWriter, r *http.Request) {
	risk, err := h.service.Risk(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to compute risk analysis")
		return
	}

	h.writeData(w, risk)
}

// HandleGetCorrelation handles GET /api/analytics/correlation
func (h *Handler) HandleGetCorrelation(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.Correlation(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to compute correlation matrix")
		return
	}

	h.writeData(w, matrix)
}

// OptimizeRequest is the body of POST /api/analytics/optimize
type OptimizeRequest struct {
	RiskTolerance *float64 `json:"risk_tolerance"`
}

// defaultRiskTolerance applies when the request omits risk_tolerance
const defaultRiskTolerance = 0.5

// HandleOptimize handles POST /api/analytics/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tolerance := defaultRiskTolerance
	if req.RiskTolerance != nil {
		tolerance = *req.RiskTolerance
	}

	result, err := h.service.Optimize(r.Context(), tolerance)
	if err != nil {
		h.handleError(w, err, "Failed to optimize portfolio")
		return
	}

	h.writeData(w, result)
}

// parseBenchmark parses comma-separated periodic fractional returns
func parseBenchmark(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	returns := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid benchmark return %q: %w", p, domain.ErrInvalidInput)
		}
		returns = append(returns, v)
	}
	return returns, nil
}

func (h *Handler) handleError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, domain.ErrInvalidInput) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg(msg)
	h.writeError(w, http.StatusInternalServerError, msg)
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

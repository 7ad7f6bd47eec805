// Package handlers provides HTTP handlers for allocation breakdowns.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/allocation"
	"github.com/rs/zerolog"
)

// PositionSource supplies the current holdings
type PositionSource interface {
	GetAll(ctx context.Context) ([]domain.Position, error)
}

// Handler handles allocation HTTP requests
type Handler struct {
	positions PositionSource
	log       zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(positions PositionSource, log zerolog.Logger) *Handler {
	return &Handler{
		positions: positions,
		log:       log.With().Str("handler", "allocation").Logger(),
	}
}

// HandleGetSectorAllocation handles GET /api/allocations/sector
func (h *Handler) HandleGetSectorAllocation(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positions.GetAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load positions")
		h.writeError(w, http.StatusInternalServerError, "Failed to load positions")
		return
	}

	h.writeData(w, allocation.SectorAllocations(positions))
}

// HandleGetAssetAllocation handles GET /api/allocations/asset
func (h *Handler) HandleGetAssetAllocation(w http.ResponseWriter, r *http.Request) {
	positions, err := h.positions.GetAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load positions")
		h.writeError(w, http.StatusInternalServerError, "Failed to load positions")
		return
	}

	h.writeData(w, allocation.AssetAllocations(positions))
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

// Package handlers provides HTTP handlers for recorded portfolio snapshots.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// SnapshotHistory reads recorded snapshots
type SnapshotHistory interface {
	Series(ctx context.Context, days int) ([]domain.PortfolioSnapshot, error)
	GetCount(ctx context.Context) (int, error)
}

// Recorder stores a snapshot of the current holdings
type Recorder interface {
	Record(ctx context.Context) (domain.PortfolioSnapshot, error)
}

// Handler handles snapshot HTTP requests
type Handler struct {
	history  SnapshotHistory
	recorder Recorder
	log      zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(history SnapshotHistory, recorder Recorder, log zerolog.Logger) *Handler {
	return &Handler{
		history:  history,
		recorder: recorder,
		log:      log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleGetSnapshots handles GET /api/snapshots?days=N
// Returns the most recent N recorded days, oldest first; no days returns all.
func (h *Handler) HandleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	series, err := h.history.Series(r.Context(), days)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshots")
		h.writeError(w, http.StatusInternalServerError, "Failed to load snapshots")
		return
	}

	count, err := h.history.GetCount(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count snapshots")
		h.writeError(w, http.StatusInternalServerError, "Failed to load snapshots")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": series,
		"metadata": map[string]interface{}{
			"timestamp":      time.Now().Format(time.RFC3339),
			"recorded_total": count,
		},
	})
}

// HandleGetLatest handles GET /api/snapshots/latest
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	series, err := h.history.Series(r.Context(), 1)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load latest snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to load snapshots")
		return
	}
	if len(series) == 0 {
		h.writeError(w, http.StatusNotFound, "no snapshots recorded")
		return
	}

	h.writeData(w, http.StatusOK, series[0])
}

// HandleRecord handles POST /api/snapshots
// Values the current holdings and stores them as today's snapshot.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.recorder.Record(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to record snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to record snapshot")
		return
	}

	h.writeData(w, http.StatusCreated, snapshot)
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
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

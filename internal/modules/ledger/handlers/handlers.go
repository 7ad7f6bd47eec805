// Package handlers provides HTTP handlers for ledger operations.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/transactions"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Config holds ledger reporting settings
type Config struct {
	TopTradedLimit int
	GainRate       float64
}

// Handler handles ledger HTTP requests
type Handler struct {
	settlement *ledger.SettlementService
	cfg        Config
	log        zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(settlement *ledger.SettlementService, cfg Config, log zerolog.Logger) *Handler {
	if cfg.TopTradedLimit <= 0 {
		cfg.TopTradedLimit = 10
	}
	if cfg.GainRate <= 0 {
		cfg.GainRate = transactions.DefaultGainRate
	}
	return &Handler{
		settlement: settlement,
		cfg:        cfg,
		log:        log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetTransactions handles GET /api/ledger/transactions
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	txns, ok := h.filtered(w, r)
	if !ok {
		return
	}

	h.writeData(w, txns)
}

// RecordRequest is the body of POST /api/ledger/transactions
type RecordRequest struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"` // YYYY-MM-DD, defaults to today
	Symbol    string  `json:"symbol"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Fees      float64 `json:"fees"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	AssetType string  `json:"asset_type"`
}

// HandleRecordTransaction handles POST /api/ledger/transactions
func (h *Handler) HandleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, meta, err := req.toTransaction()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recorded, err := h.settlement.Record(r.Context(), tx, meta)
	if err != nil {
		h.handleError(w, err, "Failed to record transaction")
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope(recorded))
}

func (req RecordRequest) toTransaction() (domain.Transaction, *portfolio.SecurityInfo, error) {
	txType, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		return domain.Transaction{}, nil, err
	}

	tx := domain.Transaction{
		ID:       req.ID,
		Symbol:   req.Symbol,
		Type:     txType,
		Quantity: req.Quantity,
		Price:    req.Price,
		Total:    req.Total,
		Fees:     req.Fees,
	}
	if req.Date != "" {
		tx.Date, err = time.Parse(domain.DateLayout, req.Date)
		if err != nil {
			return domain.Transaction{}, nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", req.Date)
		}
	}

	var meta *portfolio.SecurityInfo
	if req.Name != "" || req.Sector != "" || req.AssetType != "" {
		meta = &portfolio.SecurityInfo{Name: req.Name, Sector: req.Sector}
		if req.AssetType != "" {
			meta.AssetType, err = domain.ParseAssetType(req.AssetType)
			if err != nil {
				return domain.Transaction{}, nil, err
			}
		}
	}

	return tx, meta, nil
}

// HandleGetTransaction handles GET /api/ledger/transactions/{id}
func (h *Handler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.settlement.Transaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err, "Failed to load transaction")
		return
	}

	h.writeData(w, tx)
}

// HandleGetTotals handles GET /api/ledger/totals
func (h *Handler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	txns, ok := h.filtered(w, r)
	if !ok {
		return
	}

	h.writeData(w, transactions.TotalsByType(txns))
}

// HandleGetMonthly handles GET /api/ledger/monthly
func (h *Handler) HandleGetMonthly(w http.ResponseWriter, r *http.Request) {
	txns, ok := h.filtered(w, r)
	if !ok {
		return
	}

	h.writeData(w, transactions.MonthlyVolumes(txns))
}

// HandleGetTopTraded handles GET /api/ledger/top?n=N
func (h *Handler) HandleGetTopTraded(w http.ResponseWriter, r *http.Request) {
	n := h.cfg.TopTradedLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}

	txns, ok := h.filtered(w, r)
	if !ok {
		return
	}

	top, err := transactions.TopTraded(txns, n)
	if err != nil {
		h.handleError(w, err, "Failed to rank symbols")
		return
	}

	h.writeData(w, top)
}

// HandleGetTaxSummary handles GET /api/ledger/tax/{year}?method=fixed|average
func (h *Handler) HandleGetTaxSummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		h.writeError(w, http.StatusBadRequest, "year must be a positive integer")
		return
	}

	var estimator transactions.GainEstimator
	switch method := r.URL.Query().Get("method"); method {
	case "", "fixed":
		estimator = transactions.FixedRateEstimator{Rate: h.cfg.GainRate}
	case "average":
		estimator = transactions.AverageCostEstimator{}
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown estimate method %q", method))
		return
	}

	book, err := h.settlement.Book(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to load ledger")
		return
	}

	h.writeData(w, transactions.YearTaxSummary(book.Transactions, year, estimator))
}

// HandleExportCSV handles GET /api/ledger/export.csv
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	txns, ok := h.filtered(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := transactions.WriteCSV(w, txns); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// filtered loads the ledger and applies the query-string filters. On failure
// the error response has been written and ok is false.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) ([]domain.Transaction, bool) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	book, err := h.settlement.Book(r.Context())
	if err != nil {
		h.handleError(w, err, "Failed to load ledger")
		return nil, false
	}

	txns, err := transactions.Filter(book.Transactions, criteria)
	if err != nil {
		h.handleError(w, err, "Failed to filter transactions")
		return nil, false
	}
	return txns, true
}

func parseCriteria(r *http.Request) (transactions.Criteria, error) {
	q := r.URL.Query()
	c := transactions.Criteria{
		Symbol: q.Get("symbol"),
		Query:  q.Get("q"),
	}

	if raw := q.Get("type"); raw != "" {
		t, err := domain.ParseTransactionType(raw)
		if err != nil {
			return c, err
		}
		c.Type = &t
	}
	for _, bound := range []struct {
		param  string
		target **time.Time
	}{{"from", &c.From}, {"to", &c.To}} {
		raw := q.Get(bound.param)
		if raw == "" {
			continue
		}
		d, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return c, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", bound.param, raw)
		}
		*bound.target = &d
	}

	return c, nil
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

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, envelope(data))
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

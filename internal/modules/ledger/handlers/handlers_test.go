package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/portfolio"
	testingpkg "github.com/aristath/folio/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*chi.Mux, *portfolio.PositionRepository) {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	t.Cleanup(cleanup)

	positionRepo := portfolio.NewPositionRepository(db.Conn(), log)
	settlement := ledger.NewSettlementService(db.Conn(), positionRepo, ledger.NewTransactionRepository(db.Conn(), log), log)
	for _, tx := range testingpkg.NewTransactionFixtures() {
		_, err := settlement.Record(context.Background(), tx, nil)
		require.NoError(t, err)
	}

	router := chi.NewRouter()
	NewHandler(settlement, Config{TopTradedLimit: 2}, log).RegisterRoutes(router)
	return router, positionRepo
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func TestHandleGetTransactions(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{"all", "", http.StatusOK, 5},
		{"by type", "?type=buy", http.StatusOK, 3},
		{"by symbol", "?symbol=aapl", http.StatusOK, 3},
		{"by query", "?q=tx-4", http.StatusOK, 1},
		{"from", "?from=2024-02-01", http.StatusOK, 3},
		{"range", "?from=2024-01-10&to=2024-02-01", http.StatusOK, 2},
		{"bad type", "?type=transfer", http.StatusBadRequest, 0},
		{"bad date", "?from=01/02/2024", http.StatusBadRequest, 0},
		{"inverted range", "?from=2024-03-01&to=2024-01-01", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, "/ledger/transactions"+tt.query, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Len(t, body["data"], tt.count)
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestHandleGetTransaction(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := do(t, router, http.MethodGet, "/ledger/transactions/tx-4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "sell", data["type"])
	assert.Equal(t, 360.0, data["total"])

	rec, _ = do(t, router, http.MethodGet, "/ledger/transactions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRecordTransaction(t *testing.T) {
	router, positions := setupRouter(t)

	rec, body := do(t, router, http.MethodPost, "/ledger/transactions",
		`{"date":"2024-03-01","symbol":"vti","type":"buy","quantity":4,"price":220,"name":"Vanguard Total","sector":"Broad Market","asset_type":"etf"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "VTI", data["symbol"])
	assert.Equal(t, 880.0, data["total"])
	assert.NotEmpty(t, data["id"])

	pos, err := positions.GetBySymbol(context.Background(), "VTI")
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, "Broad Market", pos.Sector)
	assert.Equal(t, 4.0, pos.Quantity)

	rejected := []struct {
		name string
		body string
	}{
		{"malformed body", `{"symbol":`},
		{"unknown type", `{"symbol":"AAPL","type":"gift","quantity":1,"price":1}`},
		{"bad date", `{"date":"March 1","symbol":"AAPL","type":"buy","quantity":1,"price":1}`},
		{"bad asset type", `{"symbol":"XYZ","type":"buy","quantity":1,"price":1,"asset_type":"art"}`},
		{"oversold", `{"symbol":"AAPL","type":"sell","quantity":100,"price":190}`},
		{"duplicate id", `{"id":"tx-1","symbol":"AAPL","type":"buy","quantity":1,"price":1}`},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodPost, "/ledger/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleGetTotals(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := do(t, router, http.MethodGet, "/ledger/totals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	buys := data["buy"].(map[string]interface{})
	assert.Equal(t, 3.0, buys["count"])
	assert.Equal(t, 4280.0, buys["amount"])
	assert.Equal(t, 360.0, data["sell"].(map[string]interface{})["amount"])
	assert.Equal(t, 24.0, data["dividend"].(map[string]interface{})["amount"])
}

func TestHandleGetMonthly(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := do(t, router, http.MethodGet, "/ledger/monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	jan := data[0].(map[string]interface{})
	feb := data[1].(map[string]interface{})
	assert.Equal(t, "2024-01", jan["period"])
	assert.Equal(t, 3000.0, jan["buys"])
	assert.Equal(t, "2024-02", feb["period"])
	assert.Equal(t, 1280.0, feb["buys"])
	assert.Equal(t, 360.0, feb["sells"])
	assert.Equal(t, 24.0, feb["dividends"])
}

func TestHandleGetTopTraded(t *testing.T) {
	router, _ := setupRouter(t)

	rec, body := do(t, router, http.MethodGet, "/ledger/top", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	top := data[0].(map[string]interface{})
	assert.Equal(t, "AAPL", top["symbol"])
	assert.Equal(t, 1860.0, top["volume"])
	assert.Equal(t, 2.0, top["trades"])

	rec, body = do(t, router, http.MethodGet, "/ledger/top?n=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 3)

	for _, q := range []string{"?n=abc", "?n=-1"} {
		rec, _ = do(t, router, http.MethodGet, "/ledger/top"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandleGetTaxSummary(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name     string
		path     string
		status   int
		gain     float64
		method   string
		estimate bool
	}{
		{"default method", "/ledger/tax/2024", http.StatusOK, 72, "fixed_rate", true},
		{"fixed", "/ledger/tax/2024?method=fixed", http.StatusOK, 72, "fixed_rate", true},
		{"average cost", "/ledger/tax/2024?method=average", http.StatusOK, 59, "average_cost", false},
		{"empty year", "/ledger/tax/2023", http.StatusOK, 0, "fixed_rate", true},
		{"bad year", "/ledger/tax/twenty", http.StatusBadRequest, 0, "", false},
		{"bad method", "/ledger/tax/2024?method=fifo", http.StatusBadRequest, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			data := body["data"].(map[string]interface{})
			assert.InDelta(t, tt.gain, data["estimated_realized_gain"], 1e-9)
			assert.Equal(t, tt.method, data["estimate_method"])
			assert.Equal(t, tt.estimate, data["is_estimate"])
		})
	}
}

func TestHandleExportCSV(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ledger/export.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "id,date,type,symbol,quantity,price,total,fees", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "tx-1,2024-01-05,buy,AAPL,"))

	req = httptest.NewRequest(http.MethodGet, "/ledger/export.csv?symbol=MSFT", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, strings.Split(strings.TrimSpace(rec.Body.String()), "\n"), 2)
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/di"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfg := &config.Config{
		DataDir:             t.TempDir(),
		Port:                8001,
		DevMode:             true,
		RiskFreeRate:        0.04,
		AnnualizationFactor: 252,
		DefaultBeta:         1.0,
		SnapshotLookback:    30,
		SimulationSeed:      42,
		TopTradedLimit:      10,
		EstimatedGainRate:   0.2,
		SnapshotSchedule:    "0 0 22 * * *",
		RequestTimeout:      5 * time.Second,
	}

	container, jobs, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container, Jobs: jobs})
}

func request(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	rec, body := request(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "folio", body["service"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, map[string]interface{}{"portfolio": "ok", "history": "ok"}, body["databases"])
}

func TestHealth_UnreachableDatabase(t *testing.T) {
	s := setupServer(t)
	require.NoError(t, s.container.HistoryDB.Close())

	rec, body := request(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body["status"])
	databases := body["databases"].(map[string]interface{})
	assert.Equal(t, "ok", databases["portfolio"])
	assert.NotEqual(t, "ok", databases["history"])
}

func TestSystemStatus(t *testing.T) {
	s := setupServer(t)

	rec, body := request(t, s, http.MethodGet, "/api/system/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "cpu_percent")
	assert.Contains(t, body, "memory_percent")

	databases := body["databases"].([]interface{})
	require.Len(t, databases, 2)
	for _, raw := range databases {
		db := raw.(map[string]interface{})
		assert.Equal(t, true, db["healthy"], db["name"])
	}
	assert.Len(t, body["jobs"], 3)
}

func TestJobs(t *testing.T) {
	s := setupServer(t)

	rec, body := request(t, s, http.MethodGet, "/api/system/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, body["total_jobs"])

	rec, body = request(t, s, http.MethodPost, "/api/system/jobs/record_snapshot", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])

	rec, _ = request(t, s, http.MethodPost, "/api/system/jobs/sync_everything", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIRoutesMounted(t *testing.T) {
	s := setupServer(t)

	rec, _ := request(t, s, http.MethodPost, "/api/ledger/transactions",
		`{"date":"2024-01-05","symbol":"AAA","type":"buy","quantity":10,"price":100,"sector":"Tech"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := request(t, s, http.MethodGet, "/api/portfolio/positions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, body = request(t, s, http.MethodGet, "/api/allocations/sector", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sectors := body["data"].([]interface{})
	require.Len(t, sectors, 1)
	assert.Equal(t, 100.0, sectors[0].(map[string]interface{})["percentage"])

	rec, _ = request(t, s, http.MethodGet, "/api/analytics/risk", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = request(t, s, http.MethodGet, "/api/ledger/totals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1000.0, body["data"].(map[string]interface{})["buy"].(map[string]interface{})["amount"])
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/portfolio/positions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}

func TestSnapshotRoutesMounted(t *testing.T) {
	s := setupServer(t)

	rec, _ := request(t, s, http.MethodPost, "/api/snapshots", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := request(t, s, http.MethodGet, "/api/snapshots/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, body["data"].(map[string]interface{})["total_value"])
}

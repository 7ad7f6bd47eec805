package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/folio/internal/domain"
	testingpkg "github.com/aristath/folio/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPositions struct {
	positions []domain.Position
	err       error
}

func (m mockPositions) GetAll(context.Context) ([]domain.Position, error) {
	return m.positions, m.err
}

func setupRouter(source PositionSource) *chi.Mux {
	router := chi.NewRouter()
	NewHandler(source, zerolog.New(nil).Level(zerolog.Disabled)).RegisterRoutes(router)
	return router
}

func TestHandleGetSectorAllocation(t *testing.T) {
	router := setupRouter(mockPositions{positions: testingpkg.NewPositionFixtures()})

	req := httptest.NewRequest(http.MethodGet, "/allocations/sector", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []domain.SectorAllocation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 5)

	sum := 0.0
	for _, a := range body.Data {
		sum += a.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestHandleGetAssetAllocation(t *testing.T) {
	router := setupRouter(mockPositions{positions: []domain.Position{
		{Symbol: "AAA", AssetType: domain.AssetTypeStock, Quantity: 10, CostBasis: 100, CurrentPrice: 110},
	}})

	req := httptest.NewRequest(http.MethodGet, "/allocations/asset", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []domain.AssetAllocation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []domain.AssetAllocation{{AssetType: "stock", Value: 1100, Percentage: 100}}, body.Data)
}

func TestHandlers_StoreError(t *testing.T) {
	router := setupRouter(mockPositions{err: errors.New("boom")})

	for _, path := range []string{"/allocations/sector", "/allocations/asset"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

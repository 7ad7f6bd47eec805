package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:             t.TempDir(),
		Port:                8001,
		RiskFreeRate:        0.04,
		AnnualizationFactor: 252,
		DefaultBeta:         1.0,
		SnapshotLookback:    30,
		SimulationSeed:      42,
		TopTradedLimit:      10,
		EstimatedGainRate:   0.2,
		SnapshotSchedule:    "0 0 22 * * *",
		RequestTimeout:      time.Second,
	}
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	container, jobs, err := Wire(cfg, log)
	require.NoError(t, err)
	require.NotNil(t, container)
	t.Cleanup(func() { container.Close() })

	assert.NotNil(t, container.PortfolioDB)
	assert.NotNil(t, container.HistoryDB)
	assert.NotNil(t, container.PositionRepo)
	assert.NotNil(t, container.TransactionRepo)
	assert.NotNil(t, container.HistoryRepo)
	assert.NotNil(t, container.SettlementService)
	assert.NotNil(t, container.AnalyticsService)
	require.NotNil(t, container.Scheduler)

	require.NotNil(t, jobs)
	assert.NotNil(t, jobs.RecordSnapshot)
	assert.NotNil(t, jobs.CheckDatabases)
	assert.NotNil(t, jobs.WALCheckpoint)
	assert.Len(t, container.Scheduler.Jobs(), 3)

	for _, name := range []string{"portfolio.db", "history.db"} {
		_, err := os.Stat(filepath.Join(cfg.DataDir, name))
		assert.NoError(t, err, name)
	}
}

func TestWire_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	ctx := context.Background()
	_, err = container.SettlementService.Record(ctx, domain.Transaction{
		Symbol:   "AAA",
		Type:     domain.TransactionTypeBuy,
		Quantity: 10,
		Price:    100,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, container.Scheduler.RunNow(jobs.RecordSnapshot))
	count, err := container.HistoryRepo.GetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, container.Scheduler.RunNow(jobs.CheckDatabases))
	assert.NoError(t, container.Scheduler.RunNow(jobs.WALCheckpoint))

	summary, err := container.AnalyticsService.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PositionCount)
}

func TestWire_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotSchedule = "whenever"

	container, jobs, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, container)
	assert.Nil(t, jobs)
}

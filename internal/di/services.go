package di

import (
	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/analytics"
	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/metrics"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates the repositories over the open databases
func InitializeRepositories(container *Container, log zerolog.Logger) {
	container.PositionRepo = portfolio.NewPositionRepository(container.PortfolioDB.Conn(), log)
	container.TransactionRepo = ledger.NewTransactionRepository(container.PortfolioDB.Conn(), log)
	container.HistoryRepo = snapshots.NewHistoryRepository(container.HistoryDB.Conn(), log)
}

// InitializeServices creates the services on top of the repositories
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) {
	container.SettlementService = ledger.NewSettlementService(
		container.PortfolioDB.Conn(),
		container.PositionRepo,
		container.TransactionRepo,
		log,
	)

	metricsOpts := metrics.DefaultOptions()
	metricsOpts.RiskFreeRate = cfg.RiskFreeRate
	metricsOpts.AnnualizationFactor = float64(cfg.AnnualizationFactor)
	metricsOpts.DefaultBeta = cfg.DefaultBeta

	container.AnalyticsService = analytics.NewService(
		container.SettlementService,
		container.HistoryRepo,
		analytics.Config{
			LookbackDays:    cfg.SnapshotLookback,
			MaxLookbackDays: cfg.MaxLookbackDays,
			Seed:            cfg.SimulationSeed,
			Trend:           snapshots.DefaultTrend,
			Noise:           snapshots.DefaultNoise,
			Metrics:         metricsOpts,
		},
		log,
	)
}

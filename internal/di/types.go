package di

import (
	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/modules/analytics"
	"github.com/aristath/folio/internal/modules/ledger"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/snapshots"
	"github.com/aristath/folio/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// It is created by Wire() and is the single source of truth for service
// instances. The server builds its handlers from it.
type Container struct {
	// Databases
	PortfolioDB *database.DB // positions and the immutable transaction ledger
	HistoryDB   *database.DB // recorded portfolio snapshots

	// Repositories
	PositionRepo    *portfolio.PositionRepository
	TransactionRepo *ledger.TransactionRepository
	HistoryRepo     *snapshots.HistoryRepository

	// Services
	SettlementService *ledger.SettlementService
	AnalyticsService  *analytics.Service

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs so they can be
// triggered manually
type JobInstances struct {
	RecordSnapshot *snapshots.RecordJob
	CheckDatabases *scheduler.CheckDatabasesJob
	WALCheckpoint  *scheduler.WALCheckpointJob
}

// Databases returns every open database
func (c *Container) Databases() []*database.DB {
	return []*database.DB{c.PortfolioDB, c.HistoryDB}
}

// Close closes every open database
func (c *Container) Close() error {
	var firstErr error
	for _, db := range c.Databases() {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

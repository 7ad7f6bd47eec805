package di

import (
	"fmt"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/snapshots"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/rs/zerolog"
)

// Maintenance schedules (seconds-enabled cron)
const (
	checkDatabasesSchedule = "0 0 * * * *"    // hourly
	walCheckpointSchedule  = "0 */30 * * * *" // every 30 minutes
)

// RegisterJobs creates the background jobs and schedules them
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)

	jobs := &JobInstances{
		RecordSnapshot: snapshots.NewRecordJob(container.PositionRepo, container.HistoryRepo, log),
		CheckDatabases: scheduler.NewCheckDatabasesJob(log, container.Databases()...),
		WALCheckpoint:  scheduler.NewWALCheckpointJob(log, container.Databases()...),
	}

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.SnapshotSchedule, jobs.RecordSnapshot},
		{checkDatabasesSchedule, jobs.CheckDatabases},
		{walCheckpointSchedule, jobs.WALCheckpoint},
	}
	for _, reg := range registrations {
		if err := container.Scheduler.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", reg.job.Name(), err)
		}
	}

	log.Info().Int("jobs", len(registrations)).Msg("Background jobs registered")
	return jobs, nil
}

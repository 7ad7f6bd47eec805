package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	err  error
	runs atomic.Int32
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))

	require.NoError(t, s.AddJob("0 0 22 * * *", &countingJob{name: "record_snapshot"}))
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "check_databases"}))

	err := s.AddJob("@every 1h", &countingJob{name: "record_snapshot"})
	assert.Error(t, err, "duplicate names are rejected")

	err = s.AddJob("not a schedule", &countingJob{name: "broken"})
	assert.Error(t, err)

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "check_databases", jobs[0].Name)
	assert.Equal(t, "record_snapshot", jobs[1].Name)
	assert.Equal(t, "0 0 22 * * *", jobs[1].Schedule)
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))

	ok := &countingJob{name: "ok"}
	failing := &countingJob{name: "failing", err: errors.New("disk full")}
	require.NoError(t, s.AddJob("@every 1h", ok))
	require.NoError(t, s.AddJob("@every 1h", failing))

	assert.NoError(t, s.RunNow(ok))
	assert.EqualError(t, s.RunNow(failing), "disk full")
	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(1), failing.runs.Load())

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "disk full", jobs[0].LastErr)
	assert.False(t, jobs[0].LastRun.IsZero())
	assert.Empty(t, jobs[1].LastErr)
	assert.False(t, jobs[1].LastRun.IsZero())
}

func TestScheduler_RunNowUnregistered(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))
	job := &countingJob{name: "adhoc"}

	assert.NoError(t, s.RunNow(job))
	assert.Equal(t, int32(1), job.runs.Load())
	assert.Empty(t, s.Jobs())
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.New(nil).Level(zerolog.Disabled))
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "idle"}))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	s.Stop()
}

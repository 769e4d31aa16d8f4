package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work. Errors are logged and the schedule continues.
type Job func(ctx context.Context) error

type entry struct {
	name string
	spec string
	job  Job
}

// Scheduler runs jobs on standard five field cron expressions.
type Scheduler struct {
	location *time.Location
	entries  []entry
}

func NewScheduler(location *time.Location) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{location: location}
}

// Add registers a job. The expression is validated immediately.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	s.entries = append(s.entries, entry{name: name, spec: spec, job: job})
	return nil
}

// Run starts the jobs and blocks until ctx is cancelled, then waits for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	for _, e := range s.entries {
		id, err := c.AddFunc(e.spec, func() {
			start := time.Now()
			logger.Info().Str("job", e.name).Msg("scheduled job started")
			if err := e.job(ctx); err != nil {
				logger.Error().Err(err).Str("job", e.name).Msg("scheduled job failed")
				return
			}
			logger.Info().Str("job", e.name).Dur("elapsed", time.Since(start)).Msg("scheduled job finished")
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", e.name, err)
		}
		logger.Info().
			Str("job", e.name).
			Str("schedule", e.spec).
			Time("next", c.Entry(id).Schedule.Next(time.Now().In(s.location))).
			Msg("job scheduled")
	}

	c.Start()
	<-ctx.Done()

	logger.Info().Msg("stopping scheduler")
	<-c.Stop().Done()
	return nil
}

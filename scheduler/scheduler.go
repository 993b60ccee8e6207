// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Job is one unit of periodic work. Errors are logged and never stop the
// schedule.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	expr  string
	sched cron.Schedule
	jobs  []Job
	log   *log.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New parses a standard 5-field cron expression.
func New(expr string, logger *log.Logger, jobs ...Job) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule '%s': %w", expr, err)
	}
	return &Scheduler{
		expr:  expr,
		sched: sched,
		jobs:  jobs,
		log:   logger,
		now:   time.Now,
		after: time.After,
	}, nil
}

// Run blocks, running every job at each scheduled time until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", "schedule", s.expr, "jobs", len(s.jobs))
	for {
		now := s.now()
		next := s.sched.Next(now)
		s.log.Debug("next run", "at", next.Format(time.RFC3339), "in", next.Sub(now).Round(time.Second))

		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-s.after(next.Sub(now)):
		}
		s.RunOnce(ctx)
	}
}

// RunOnce runs every job in order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.log.Warn("job failed", "job", job.Name, "err", err)
			continue
		}
		s.log.Debug("job complete", "job", job.Name, "took", time.Since(start))
	}
}

// Package scheduler runs the bot's periodic jobs on cron schedules in a fixed
// time zone.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twicebot/twicebot/twicebot/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler wraps a cron runner. Runs of the same job never overlap and a
// panicking job is logged instead of crashing the process.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger
	entries map[string]cron.EntryID
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, append([]any{slog.String("type", "job")}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.String("type", "error"), slog.Any("error", err)}, keysAndValues...)...)
}

func New(loc *time.Location, timeout time.Duration) *Scheduler {
	log := slog.With(slog.String("service", "scheduler"))
	cl := cronLogger{logger: log}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: timeout,
		logger:  log,
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers job on a six-field cron spec.
func (s *Scheduler) Add(spec string, job Job) error {
	if _, ok := s.entries[job.Name()]; ok {
		return fmt.Errorf("job %s already scheduled", job.Name())
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.run(job)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, job.Name(), err)
	}
	s.entries[job.Name()] = id

	s.logger.Info("Job scheduled",
		slog.String("type", "job"),
		slog.String("name", job.Name()),
		slog.String("schedule", spec))
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	logger.LogJob(job.Name(), time.Since(start), err)
}

// Next reports the next run time of a scheduled job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.LogSystem("Scheduler started", slog.Int("jobs", len(s.entries)))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

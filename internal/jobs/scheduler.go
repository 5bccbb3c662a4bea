// Package jobs runs the periodic background work of the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"simlab/config"
)

const statusAdvanceTimeout = 30 * time.Second

// StatusAdvancer moves schedule entries along their lifecycle by wall clock.
type StatusAdvancer interface {
	AdvanceStatuses(ctx context.Context) (int, error)
}

// Scheduler cron runner for the background jobs
type Scheduler struct {
	cron     *cron.Cron
	advancer StatusAdvancer
	logger   *zap.Logger
}

// NewScheduler registers the enabled jobs. Nothing runs until Start.
func NewScheduler(cfg *config.JobsConfig, advancer StatusAdvancer, loc *time.Location, logger *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		advancer: advancer,
		logger:   logger,
	}

	if cfg.StatusAdvanceEnabled {
		spec := cfg.StatusAdvanceSpec
		if spec == "" {
			spec = "@every 1m"
		}
		if _, err := s.cron.AddFunc(spec, s.advanceStatuses); err != nil {
			return nil, fmt.Errorf("register status job %q: %w", spec, err)
		}
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("background jobs started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("background jobs did not finish before shutdown")
	}
}

func (s *Scheduler) advanceStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), statusAdvanceTimeout)
	defer cancel()

	n, err := s.advancer.AdvanceStatuses(ctx)
	if err != nil {
		s.logger.Error("advance schedule statuses failed", zap.Int("advanced", n), zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("schedule statuses advanced", zap.Int("advanced", n))
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

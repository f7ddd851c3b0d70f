package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AnalyticsRebuilder recomputes every tenant aggregate from the ledger
type AnalyticsRebuilder interface {
	RebuildAll(ctx context.Context) (int, error)
}

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron      *cron.Cron
	rebuilder AnalyticsRebuilder
	spec      string
	log       *zap.Logger
}

// NewScheduler creates a new Scheduler. An empty spec disables the
// analytics rebuild.
func NewScheduler(rebuilder AnalyticsRebuilder, spec, timezone string, log *zap.Logger) (*Scheduler, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
		}
		loc = l
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		rebuilder: rebuilder,
		spec:      spec,
		log:       log,
	}, nil
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.log.Info("Analytics rebuild job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RebuildAnalytics(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule analytics rebuild %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("Job scheduler started", zap.String("analytics_rebuild", s.spec))
	return nil
}

// RebuildAnalytics runs one rebuild of every tenant aggregate
func (s *Scheduler) RebuildAnalytics(ctx context.Context) {
	start := time.Now()
	rebuilt, err := s.rebuilder.RebuildAll(ctx)
	if err != nil {
		s.log.Error("Scheduled analytics rebuild finished with errors",
			zap.Error(err),
			zap.Int("rebuilt", rebuilt),
			zap.Duration("duration", time.Since(start)))
		return
	}

	s.log.Info("Scheduled analytics rebuild finished",
		zap.Int("rebuilt", rebuilt),
		zap.Duration("duration", time.Since(start)))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Job scheduler stopped")
}

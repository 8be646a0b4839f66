package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = time.Minute

// SiteRefresher reloads the cached site list.
type SiteRefresher interface {
	RefreshSites(ctx context.Context) ([]string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	refresher SiteRefresher
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(refresher SiteRefresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		logger:    logger,
	}
}

// Start registers the site refresh job on the given standard five-field cron
// spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refreshSites); err != nil {
		return fmt.Errorf("schedule site refresh %q: %w", spec, err)
	}

	s.logger.Info("starting scheduler", zap.String("site_refresh", spec))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshSites() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	sites, err := s.refresher.RefreshSites(ctx)
	if err != nil {
		s.logger.Error("failed to refresh sites", zap.Error(err))
		return
	}
	s.logger.Debug("sites refreshed", zap.Int("count", len(sites)))
}

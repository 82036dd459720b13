package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/slinet/ehfetch/internal/config"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/internal/download"
	"go.uber.org/zap"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	mgr    *download.Manager
	store  *database.DownloadStore
	logger *zap.Logger
}

// New creates a new scheduler
func New(cfg *config.Config, mgr *download.Manager, store *database.DownloadStore, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cfg:    cfg,
		mgr:    mgr,
		store:  store,
		logger: logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	// Retry failed downloads
	if s.cfg.Scheduler.RetryFailedEnabled {
		_, err := s.cron.AddFunc(s.cfg.Scheduler.RetryFailedCron, func() {
			s.logger.Info("starting scheduled retry of failed downloads")
			if err := s.retryFailed(); err != nil {
				s.logger.Error("retry of failed downloads failed", zap.Error(err))
			}
			s.logger.Info("retry of failed downloads completed")
		})
		if err != nil {
			return err
		}
		s.logger.Info("retry failed task registered",
			zap.String("cron", s.cfg.Scheduler.RetryFailedCron))
	} else {
		s.logger.Info("retry failed task is disabled")
	}

	s.cron.Start()
	s.logger.Info("scheduler started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// retryFailed re-queues every failed download record
func (s *Scheduler) retryFailed() error {
	ctx := context.Background()

	failed, err := s.store.ListByState(ctx, database.StateFailed)
	if err != nil {
		return err
	}
	if len(failed) == 0 {
		return nil
	}

	s.logger.Info("re-queueing failed downloads", zap.Int("count", len(failed)))
	for _, d := range failed {
		if err := s.mgr.Start(ctx, d.Gid, d.Token, d.Title, d.Label); err != nil {
			s.logger.Error("failed to re-queue download", zap.Int64("gid", d.Gid), zap.Error(err))
		}
	}
	return nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/guptahg47869-hub/casting-tracker/internal/casting/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the nightly reserve snapshot so the office can chart
// balances over time.
type Scheduler struct {
	cron     *cron.Cron
	reserves *service.ReserveService
	logger   *zap.Logger
}

func New(reserves *service.ReserveService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		reserves: reserves,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// 02:00 daily, snapshots carry the previous day's closing balances
	_, err := s.cron.AddFunc("0 2 * * *", s.snapshotReserves)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) snapshotReserves() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	count, err := s.reserves.Snapshot(ctx, date)
	if err != nil {
		s.logger.Error("Reserve snapshot failed", zap.String("date", date), zap.Error(err))
		return
	}
	s.logger.Info("Reserve snapshot written", zap.String("date", date), zap.Int("metals", count))
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/service"
)

// Scheduler runs the background month-start check so subscription credits
// refill even when nobody touches a credit-sensitive operation for days.
type Scheduler struct {
	studio   *service.Studio
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewScheduler(studio *service.Studio, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		studio:   studio,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")
	go s.runMonthStartTask(ctx)
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runMonthStartTask checks once at startup and then daily. The check
// itself is idempotent per calendar month, so the frequency only affects
// how quickly a rolled-over month is noticed.
func (s *Scheduler) runMonthStartTask(ctx context.Context) {
	s.monthStartCheck(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.monthStartCheck(ctx)
		case <-s.stopChan:
			s.logger.Info("Month-start task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Month-start task cancelled")
			return
		}
	}
}

func (s *Scheduler) monthStartCheck(ctx context.Context) {
	result := s.studio.RunMonthStartCheck(ctx)
	if result.Refilled > 0 {
		s.logger.Info("Month-start check refilled subscriptions",
			zap.String("month", result.Month),
			zap.Int("refilled", result.Refilled),
		)
	}
}

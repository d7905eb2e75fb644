// Package scheduler runs the periodic price refresh.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"cotador/internal/models"
)

// Refresher is the operation the scheduler drives.
type Refresher interface {
	RefreshPrices(ctx context.Context) (models.PriceDB, error)
}

// Scheduler triggers a price refresh on a cron spec.
type Scheduler struct {
	cron *cron.Cron
}

// New builds a scheduler for the given cron spec. An empty spec returns
// a nil scheduler, which is safe to Stop.
func New(spec string, refresher Refresher) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		start := time.Now()
		db, err := refresher.RefreshPrices(context.Background())
		if err != nil {
			zap.L().Error("scheduled refresh failed", zap.Error(err))
			return
		}
		zap.L().Info("scheduled refresh done",
			zap.Int("markets", len(db)),
			zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return nil, eris.Wrapf(err, "scheduler: bad cron spec %q", spec)
	}

	return &Scheduler{cron: c}, nil
}

// Start begins the schedule.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	zap.L().Info("price refresh scheduled")
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}

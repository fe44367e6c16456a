// Package refresher polls the persisted slot so that saves made by another
// instance sharing the same database or redis become visible here.
package refresher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher re-reads the persisted sequence. *store.Store satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// Service runs Refresh on a fixed interval.
type Service struct {
	target   Refresher
	interval time.Duration
	log      *zap.Logger
}

// NewService creates a poller. A non-positive interval disables it.
func NewService(target Refresher, interval time.Duration, log *zap.Logger) *Service {
	return &Service{target: target, interval: interval, log: log}
}

// Run polls until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("slot refresher is disabled")
		return
	}
	s.log.Info("starting slot refresher", zap.Duration("interval", s.interval))

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("slot refresher shutting down")
			return
		case <-timer.C:
			s.RefreshOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// RefreshOnce performs a single poll. Failures are logged and the current
// contents are kept.
func (s *Service) RefreshOnce(ctx context.Context) bool {
	changed, err := s.target.Refresh(ctx)
	if err != nil {
		s.log.Warn("slot refresh failed, keeping current records", zap.Error(err))
		return false
	}
	if changed {
		s.log.Debug("slot refresh picked up a new sequence")
	}
	return changed
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultSnapshotInterval = 6 * time.Hour
	snapshotRunTimeout      = time.Minute
)

// SnapshotService periodically records an alignment snapshot so drift and
// weekly insights have history to diff against.
type SnapshotService struct {
	vision *VisionService
	logger *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSnapshotService(vs *VisionService, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		vision:   vs,
		logger:   logger,
		interval: defaultSnapshotInterval,
		stopCh:   make(chan struct{}),
	}
}

// SetInterval must be called before Start. A non-positive interval disables
// the worker.
func (s *SnapshotService) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *SnapshotService) Start() {
	if s.interval <= 0 {
		s.logger.Info("snapshot worker disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("snapshot worker started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), snapshotRunTimeout)
				_, _ = s.RunOnce(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("snapshot worker stopped")
				return
			}
		}
	}()
}

func (s *SnapshotService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *SnapshotService) RunOnce(ctx context.Context) (domain.Snapshot, error) {
	snap, err := s.vision.ComputeAndRecord(ctx)
	if err != nil {
		s.logger.Error("failed to record snapshot", zap.Error(err))
		return domain.Snapshot{}, err
	}
	s.logger.Info("snapshot recorded",
		zap.Float64("alignment", snap.Alignment.Overall),
		zap.Float64("drift", snap.Drift.Overall),
		zap.Int("action_queue", len(snap.ActionQueue)),
		zap.Int("tension_flags", len(snap.TensionFlags)))
	return snap, nil
}

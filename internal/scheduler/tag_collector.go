package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkshelf/internal/domain"
	"github.com/MrSnakeDoc/linkshelf/internal/logger"
)

// DefaultGCInterval is used when no interval is configured
const DefaultGCInterval = 24 * time.Hour

// OrphanTagCollector periodically removes tags no bookmark uses anymore.
// Stores without a separate tag vocabulary make it a no-op.
type OrphanTagCollector struct {
	pruner   domain.TagPruner
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewOrphanTagCollector creates a new collector for store
func NewOrphanTagCollector(store domain.Store, log logger.Logger, interval time.Duration) *OrphanTagCollector {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	pruner, _ := store.(domain.TagPruner)

	return &OrphanTagCollector{
		pruner:   pruner,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Enabled reports whether the store has anything to collect
func (gc *OrphanTagCollector) Enabled() bool {
	return gc.pruner != nil
}

// Start begins the periodic collection
func (gc *OrphanTagCollector) Start(ctx context.Context) error {
	if !gc.Enabled() {
		gc.logger.Debug("store keeps no tag vocabulary, tag collector disabled")
		return nil
	}

	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial tag collection failed", logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("tag collection failed", logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (gc *OrphanTagCollector) Stop() {
	close(gc.stopCh)
}

// Collect prunes orphan tags once and returns how many were removed
func (gc *OrphanTagCollector) Collect(ctx context.Context) (int64, error) {
	if !gc.Enabled() {
		return 0, nil
	}

	n, err := gc.pruner.PruneOrphanTags(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		gc.logger.Info("orphan tags collected", logger.Int64("deleted", n))
	} else {
		gc.logger.Debug("no orphan tags to collect")
	}
	return n, nil
}

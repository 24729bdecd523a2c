package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/internal/metrics"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

type QueueReclaimerConfig struct {
	StaleAfter time.Duration
	Interval   time.Duration
}

// QueueReclaimer returns entries stuck in PROCESSING, e.g. after a crash
// mid-pipeline, to PENDING or fails them once attempts are exhausted.
type QueueReclaimer struct {
	queue   store.QueueStore
	cfg     QueueReclaimerConfig
	metrics *metrics.Metrics
	now     func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewQueueReclaimer(queue store.QueueStore, cfg QueueReclaimerConfig, m *metrics.Metrics, now func() time.Time) *QueueReclaimer {
	if now == nil {
		now = time.Now
	}
	return &QueueReclaimer{
		queue:     queue,
		cfg:       cfg,
		metrics:   m,
		now:       now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (r *QueueReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ai.worker.queue_reclaimer"})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "queue reclaimer started",
		"interval", r.cfg.Interval,
		"stale_after", r.cfg.StaleAfter)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "queue reclaimer stopping")
			return
		case <-ticker.C:
			if _, _, err := r.ReclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "queue reclaim cycle error", "error", err)
			}
		}
	}
}

func (r *QueueReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

func (r *QueueReclaimer) ReclaimOnce(ctx context.Context) (requeued, failed int64, err error) {
	now := r.now()
	requeued, failed, err = r.queue.ReclaimStale(ctx, now.Add(-r.cfg.StaleAfter), now, ReasonStaleProcessing)
	if err != nil {
		return 0, 0, fmt.Errorf("reclaiming stale entries: %w", err)
	}
	if requeued > 0 || failed > 0 {
		slog.WarnContext(ctx, "reclaimed stale queue entries",
			"requeued", requeued,
			"failed", failed)
	}
	r.metrics.Reclaimed(requeued, failed)
	return requeued, failed, nil
}

package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
)

// BatchRunner is implemented by Processor.
type BatchRunner interface {
	ProcessBatch(ctx context.Context, now time.Time) (BatchResult, error)
}

// Scheduler triggers a batch on a fixed interval, the in-process
// equivalent of the cron endpoint. Batches never overlap.
type Scheduler struct {
	runner   BatchRunner
	interval time.Duration
	now      func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewScheduler(runner BatchRunner, interval time.Duration, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		runner:    runner,
		interval:  interval,
		now:       now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ai.worker.scheduler"})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "scheduler started", "interval", s.interval)

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "scheduler stopping")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.runner.ProcessBatch(ctx, s.now()); err != nil {
		slog.ErrorContext(ctx, "scheduled batch failed", "error", err)
	}
}

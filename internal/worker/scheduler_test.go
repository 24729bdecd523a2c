package worker_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Raphi52/OnlyVIP-sub000/internal/worker"
)

type countingRunner struct {
	mu    sync.Mutex
	calls int
	last  time.Time
}

func (r *countingRunner) ProcessBatch(ctx context.Context, now time.Time) (worker.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = now
	return worker.BatchResult{}, nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var _ = Describe("Scheduler", func() {
	It("runs a batch immediately and then on every tick", func() {
		runner := &countingRunner{}
		now := time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC)
		s := worker.NewScheduler(runner, 10*time.Millisecond, func() time.Time { return now })

		go s.Run(context.Background())
		Eventually(runner.count).Should(BeNumerically(">=", 3))
		s.Stop()

		Expect(runner.last).To(Equal(now))
	})
})

var _ = Describe("QueueReclaimer", func() {
	It("reclaims entries claimed before the stale cutoff", func() {
		queueStore := newMockQueueStore()
		now := time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC)
		r := worker.NewQueueReclaimer(queueStore, worker.QueueReclaimerConfig{
			StaleAfter: 10 * time.Minute,
			Interval:   time.Minute,
		}, nil, func() time.Time { return now })

		requeued, failed, err := r.ReclaimOnce(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(requeued).To(Equal(int64(2)))
		Expect(failed).To(Equal(int64(1)))
		Expect(queueStore.reclaimArgs).To(Equal([]time.Time{now.Add(-10 * time.Minute), now}))
	})
})

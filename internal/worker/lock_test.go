package worker_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/Raphi52/OnlyVIP-sub000/common/distlock"
	"github.com/Raphi52/OnlyVIP-sub000/internal/worker"
)

var _ = Describe("ConversationLocker", func() {
	var (
		ctx    context.Context
		mr     *miniredis.Miniredis
		locker worker.ConversationLocker
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(mr.Close)

		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)
		locker = worker.NewConversationLocker(distlock.NewLocker(client, "lock:conversation", time.Minute))
	})

	It("admits one holder per conversation", func() {
		release, ok, err := locker.Acquire(ctx, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		_, ok, err = locker.Acquire(ctx, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		_, ok, err = locker.Acquire(ctx, 301)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		release()
		_, ok, err = locker.Acquire(ctx, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("expires with the TTL", func() {
		_, ok, _ := locker.Acquire(ctx, 300)
		Expect(ok).To(BeTrue())

		mr.FastForward(2 * time.Minute)
		_, ok, err := locker.Acquire(ctx, 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})
})

package worker

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Raphi52/OnlyVIP-sub000/common/distlock"
)

type redisConversationLocker struct {
	locker *distlock.Locker
}

func NewConversationLocker(locker *distlock.Locker) ConversationLocker {
	return &redisConversationLocker{locker: locker}
}

func (l *redisConversationLocker) Acquire(ctx context.Context, conversationID int64) (func(), bool, error) {
	lock, ok, err := l.locker.TryAcquire(ctx, strconv.FormatInt(conversationID, 10))
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.WarnContext(ctx, "failed to release conversation lock", "error", err)
		}
	}, true, nil
}

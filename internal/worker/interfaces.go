package worker

import (
	"context"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
)

// Consumer abstracts the background task stream for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// PersonalityRouter is implemented by brain.Router.
type PersonalityRouter interface {
	Current(ctx context.Context, conv *model.Conversation) (*model.Personality, error)
	Resolve(ctx context.Context, conv *model.Conversation) (*model.Personality, error)
	Refresh(ctx context.Context, conv *model.Conversation, current *model.Personality, history []model.Message) (*model.Personality, error)
}

type ObjectionHandler interface {
	Handle(ctx context.Context, in brain.ObjectionInput) (*brain.ObjectionResult, error)
}

type ScriptMatcher interface {
	Match(ctx context.Context, mc brain.MatchContext) (*brain.MatchedScript, error)
}

type ResponseGenerator interface {
	Generate(ctx context.Context, in brain.GenerateInput) (string, error)
}

type UsageTracker interface {
	TrackUsage(ctx context.Context, matched *brain.MatchedScript, conversationID int64, messageID *int64, creatorSlug string, responseTime *int, now time.Time) error
}

// ConversationLocker serializes processing per conversation. ok is false
// when another run holds the conversation.
type ConversationLocker interface {
	Acquire(ctx context.Context, conversationID int64) (release func(), ok bool, err error)
}

type MemoryExtractor interface {
	Extract(ctx context.Context, task brain.FanTask) (int, error)
}

type NoteUpdater interface {
	Update(ctx context.Context, task brain.FanTask) error
}

type FanQualifier interface {
	Qualify(ctx context.Context, task brain.FanTask) (int, string, error)
}

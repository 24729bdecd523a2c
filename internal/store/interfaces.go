package store

import (
	"context"
	"errors"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist, or a
// conditional update matched no row.
var ErrNotFound = errors.New("not found")

// ErrInsufficientCredits is returned when a conditional debit finds a balance
// lower than the requested amount.
var ErrInsufficientCredits = errors.New("insufficient credits")

// QueueStore owns the AI response queue. Every mutation after Claim is
// conditional on status = PROCESSING.
type QueueStore interface {
	// Enqueue is idempotent on message id; created is false when an entry existed.
	Enqueue(ctx context.Context, entry *model.QueueEntry) (stored *model.QueueEntry, created bool, err error)
	GetByID(ctx context.Context, id int64) (*model.QueueEntry, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.QueueEntry, error)
	// Claim moves PENDING -> PROCESSING and increments attempts in one statement.
	Claim(ctx context.Context, id int64, now time.Time) (bool, *model.QueueEntry, error)
	// ReleaseClaim undoes a claim without consuming an attempt.
	ReleaseClaim(ctx context.Context, id int64, scheduledAt time.Time) error
	Complete(ctx context.Context, id int64, result model.QueueResult, now time.Time) error
	Skip(ctx context.Context, id int64, reason string, now time.Time) error
	Fail(ctx context.Context, id int64, reason string, now time.Time) error
	Requeue(ctx context.Context, id int64, reason string, scheduledAt time.Time) error
	// ReclaimStale returns entries stuck in PROCESSING since before claimedBefore.
	ReclaimStale(ctx context.Context, claimedBefore, now time.Time, reason string) (requeued, failed int64, err error)
}

type MessageStore interface {
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	// ListRecent returns the newest messages of a conversation, oldest first.
	ListRecent(ctx context.Context, conversationID int64, limit int) ([]model.Message, error)
	MarkFanMessagesRead(ctx context.Context, conversationID int64) (int64, error)
}

type ConversationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	// SwitchPersonality updates the assignment and writes the audit row.
	SwitchPersonality(ctx context.Context, sw model.PersonalitySwitch) error
	TouchActivity(ctx context.Context, id int64, at time.Time) error
	// SetAIMode is how a handoff suspends automation for the conversation.
	SetAIMode(ctx context.Context, id int64, mode model.AIMode) error
	// AssignChatter keeps an existing assignment, otherwise picks the creator's
	// active chatter with the fewest handed-off conversations. Returns nil
	// when the creator has none.
	AssignChatter(ctx context.Context, id int64) (*int64, error)
}

type PersonalityStore interface {
	GetByID(ctx context.Context, id int64) (*model.Personality, error)
	ListActiveByCreator(ctx context.Context, creatorSlug string) ([]model.Personality, error)
}

type ScriptStore interface {
	GetByID(ctx context.Context, id int64) (*model.Script, error)
	ListCandidates(ctx context.Context, q model.ScriptQuery) ([]model.Script, error)
	IncrementUsage(ctx context.Context, scriptID int64) error
	// RecordSale bumps sales/revenue and recomputes conversion_rate = sales/messages_sent.
	RecordSale(ctx context.Context, scriptID int64, amount int) error
}

type ScriptUsageStore interface {
	Create(ctx context.Context, usage *model.ScriptUsage) error
	// FindAttributable returns the newest unattributed "sent" usage created in [from, until].
	FindAttributable(ctx context.Context, conversationID int64, from, until time.Time) (*model.ScriptUsage, error)
	// MarkAttributed is conditional on the usage still being unattributed.
	MarkAttributed(ctx context.Context, usageID int64, amount int, at time.Time) (bool, error)
}

type FanStore interface {
	GetStats(ctx context.Context, creatorSlug string, fanID int64) (*model.FanStats, error)
	UpdateNote(ctx context.Context, creatorSlug string, fanID int64, note string) error
	UpdateQualification(ctx context.Context, creatorSlug string, fanID int64, score int, stage string) error
}

type FanMemoryStore interface {
	Create(ctx context.Context, memory *model.FanMemory) error
	ListByFan(ctx context.Context, creatorSlug string, fanID int64, limit int) ([]model.FanMemory, error)
}

type CreatorStore interface {
	GetBySlug(ctx context.Context, slug string) (*model.Creator, error)
}

type CreditStore interface {
	Balance(ctx context.Context, creatorSlug string) (int, error)
	// Debit subtracts amount if the balance covers it and records a transaction.
	Debit(ctx context.Context, creatorSlug string, amount int, ref CreditRef) (userID int64, newBalance int, err error)
}

// CreditRef links a credit transaction to the message that caused it.
type CreditRef struct {
	Reason         string
	MessageID      int64
	ConversationID int64
}

type SuggestionStore interface {
	Create(ctx context.Context, s *model.AISuggestion) error
}

type HandoffStore interface {
	Create(ctx context.Context, h *model.Handoff) error
}

type ObjectionStore interface {
	Create(ctx context.Context, o *model.ObjectionLog) error
}

type MediaStore interface {
	GetByID(ctx context.Context, id int64) (*model.MediaItem, error)
	// ListUnsent returns the creator's media never attached in this conversation.
	ListUnsent(ctx context.Context, creatorSlug string, conversationID int64) ([]model.MediaItem, error)
}

package model

import "time"

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "PENDING"
	QueueStatusProcessing QueueStatus = "PROCESSING"
	QueueStatusCompleted  QueueStatus = "COMPLETED"
	QueueStatusFailed     QueueStatus = "FAILED"
	QueueStatusSkipped    QueueStatus = "SKIPPED"
)

// QueueEntry is one inbound fan message awaiting an automated reply.
type QueueEntry struct {
	ID             int64
	MessageID      int64
	ConversationID int64
	CreatorSlug    string
	ScheduledAt    time.Time
	Status         QueueStatus
	Attempts       int
	MaxAttempts    int
	Error          *string
	Result         QueueResult
	ClaimedAt      *time.Time
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// QueueResult is the persisted outcome payload of a processed entry.
type QueueResult struct {
	Response        *string
	MediaID         *int64
	ShouldSendMedia bool
	MediaDecision   *MediaDecisionType
	TeaseText       *string
}

func (e QueueEntry) AttemptsRemaining() bool {
	return e.Attempts < e.MaxAttempts
}

// Terminal statuses are never picked up again by the batch processor.
func (s QueueStatus) Terminal() bool {
	switch s {
	case QueueStatusCompleted, QueueStatusFailed, QueueStatusSkipped:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an entry with the given attempt counters may
// move from one status to another.
//
//	PENDING    -> PROCESSING
//	PROCESSING -> COMPLETED | FAILED | SKIPPED
//	PROCESSING -> PENDING              (retry or released claim, attempts < max)
//	FAILED     -> PENDING              (attempts < max)
func CanTransition(from, to QueueStatus, attempts, maxAttempts int) bool {
	switch from {
	case QueueStatusPending:
		return to == QueueStatusProcessing
	case QueueStatusProcessing:
		switch to {
		case QueueStatusCompleted, QueueStatusFailed, QueueStatusSkipped:
			return true
		case QueueStatusPending:
			return attempts < maxAttempts
		}
		return false
	case QueueStatusFailed:
		return to == QueueStatusPending && attempts < maxAttempts
	default:
		return false
	}
}

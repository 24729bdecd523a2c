package model

import "time"

const SuggestionStatusPending = "PENDING"

// AISuggestion is a generated reply awaiting human approval in assisted mode.
type AISuggestion struct {
	ID             int64
	ConversationID int64
	QueueEntryID   int64
	MessageID      int64
	Content        string
	MediaID        *int64
	IsPPV          bool
	PPVPrice       *int
	PersonalityID  *int64
	Status         string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (s AISuggestion) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

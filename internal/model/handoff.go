package model

import "time"

type Handoff struct {
	ID             int64
	ConversationID int64
	CreatorSlug    string
	MessageID      int64
	Trigger        string
	TriggerValue   *string
	// ChatterID is nil when the creator has no active chatter.
	ChatterID      *int64
	CreatedAt      time.Time
}

// ObjectionLog audits a detected fan objection.
type ObjectionLog struct {
	ID              int64
	ConversationID  int64
	MessageID       int64
	ObjectionType   string
	Pattern         string
	Language        string
	OriginalPrice   *int
	DiscountedPrice *int
	CreatedAt       time.Time
}

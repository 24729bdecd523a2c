package model

import "time"

// Fan qualification stages, ordered by value.
const (
	FanStageNew     = "new"
	FanStageEngaged = "engaged"
	FanStageWarm    = "warm"
	FanStageBuyer   = "buyer"
	FanStageWhale   = "whale"
)

// FanStats is the per fan, per creator relationship snapshot.
type FanStats struct {
	FanID              int64
	CreatorSlug        string
	Username           string
	DisplayName        *string
	Credits            int
	TotalSpent         int
	TotalMessages      int
	PurchaseCount      int
	Stage              *string
	QualificationScore int
	PersonalNote       *string
	IsAIOnly           bool
	JoinedAt           time.Time
	LastActiveAt       *time.Time
	LastPurchaseAt     *time.Time
}

func (f FanStats) Name() string {
	if f.DisplayName != nil && *f.DisplayName != "" {
		return *f.DisplayName
	}
	return f.Username
}

// FanMemory is a long-term fact extracted from the fan's messages.
type FanMemory struct {
	ID              int64
	FanID           int64
	CreatorSlug     string
	Category        string
	Content         string
	Confidence      float64
	SourceMessageID int64
	CreatedAt       time.Time
}

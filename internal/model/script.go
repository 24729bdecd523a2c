package model

import (
	"strings"
	"time"
)

const (
	ScriptStatusApproved = "APPROVED"
	ScriptStatusDraft    = "DRAFT"

	FanStageAny = "any"

	DefaultScriptMinConfidence = 0.3
)

// Script is a human-authored reusable message template with matching
// metadata and performance counters.
type Script struct {
	ID               int64
	AgencyID         *int64
	CreatorSlug      *string // nil = available to every creator of the agency
	Name             string
	Content          string
	Category         string
	Intent           *string
	TriggerKeywords  []string
	TriggerPatterns  []string
	FanStage         *string
	ConversionRate   float64
	SuccessScore     float64
	Priority         int
	MinConfidence    float64
	AllowAIModify    bool
	PreserveCore     *string
	SuggestedPrice   *int
	NextOnSuccessID  *int64
	NextOnRejectID   *int64
	IsActive         bool
	Status           string
	UsageCount       int
	MessagesSent     int
	SalesGenerated   int
	RevenueGenerated int
	Media            []ScriptMedia
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ScriptMedia struct {
	MediaID  int64
	Position int
}

// EffectiveMinConfidence falls back to the default threshold when unset.
func (s Script) EffectiveMinConfidence() float64 {
	if s.MinConfidence <= 0 {
		return DefaultScriptMinConfidence
	}
	return s.MinConfidence
}

// ScriptQuery filters the candidate pool for matching. Intent and Category
// are set together when an intent was detected.
type ScriptQuery struct {
	AgencyID    *int64
	CreatorSlug string
	Intent      *string
	Category    *string
	FanStage    *string
}

// Admits applies the candidate filter in memory. Stores push the same
// predicate into SQL; the matcher re-checks it.
func (q ScriptQuery) Admits(s Script) bool {
	if !s.IsActive || s.Status != ScriptStatusApproved {
		return false
	}
	if !sameAgency(q.AgencyID, s.AgencyID) {
		return false
	}
	if s.CreatorSlug != nil && *s.CreatorSlug != q.CreatorSlug {
		return false
	}
	if q.Intent != nil {
		intentMatch := s.Intent != nil && *s.Intent == *q.Intent
		categoryMatch := q.Category != nil && *q.Category != "" && strings.HasPrefix(s.Category, *q.Category)
		if !intentMatch && !categoryMatch {
			return false
		}
	}
	if s.FanStage != nil && *s.FanStage != FanStageAny {
		if q.FanStage == nil || *q.FanStage != *s.FanStage {
			return false
		}
	}
	return true
}

func sameAgency(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

const ScriptUsageStatusSent = "sent"

// ScriptUsage links a script to a sent message for attribution.
type ScriptUsage struct {
	ID                  int64
	ScriptID            int64
	ConversationID      int64
	MessageID           *int64
	CreatorSlug         string
	Status              string
	ResultedInSale      bool
	SaleAmount          *int
	ResponseTimeSeconds *int
	AttributedAt        *time.Time
	CreatedAt           time.Time
}

// Sale is an inbound purchase event used for attribution.
type Sale struct {
	ConversationID int64
	Amount         int
	OccurredAt     time.Time
}

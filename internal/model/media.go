package model

import "time"

type MediaDecisionType string

const (
	MediaDecisionFree  MediaDecisionType = "FREE"
	MediaDecisionPPV   MediaDecisionType = "PPV"
	MediaDecisionTease MediaDecisionType = "TEASE"
	MediaDecisionNone  MediaDecisionType = "NONE"
)

type MediaItem struct {
	ID          int64
	CreatorSlug string
	Type        string // photo | video
	URL         string
	PreviewURL  string
	PPVPrice    int
	IsFree      bool
	Tags        []string
	CreatedAt   time.Time
}

// MediaDecision is the media engine's plan for the outgoing message.
type MediaDecision struct {
	ShouldSend bool
	Type       MediaDecisionType
	Media      *MediaItem
	TeaseText  *string
}

func (d MediaDecision) IsPPV() bool {
	return d.ShouldSend && d.Type == MediaDecisionPPV && d.Media != nil
}

func (d MediaDecision) IsTease() bool {
	return d.Type == MediaDecisionTease && d.TeaseText != nil && *d.TeaseText != ""
}

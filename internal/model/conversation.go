package model

import "time"

type AIMode string

const (
	AIModeAuto     AIMode = "auto"
	AIModeAssisted AIMode = "assisted"
	AIModeDisabled AIMode = "disabled"
)

// Personality switch reasons recorded on the conversation for audit.
const (
	SwitchReasonAutoAssign   = "auto_assign"
	SwitchReasonAutoTone     = "auto_tone"
	SwitchReasonAutoLanguage = "auto_language"
)

// Conversation is the fan <-> creator thread. Its personality assignment is
// only ever changed through the router.
type Conversation struct {
	ID                 int64
	CreatorSlug        string
	FanID              int64
	PersonalityID      *int64
	AIMode             AIMode
	AutoToneSwitch     bool
	AutoLanguageSwitch bool
	AssignedChatterID  *int64
	LastMessageAt      *time.Time
	CreatedAt          time.Time
}

// PersonalitySwitch is the audit record of a router decision.
type PersonalitySwitch struct {
	ConversationID          int64
	PersonalityID           int64
	Reason                  string
	PreviousPersonalityName *string
	DetectedLanguage        *string
	DetectedTone            *string
	SwitchedAt              time.Time
}

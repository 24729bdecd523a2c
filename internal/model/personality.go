package model

import "time"

type GiveUpAction string

const (
	GiveUpActionStop    GiveUpAction = "stop"
	GiveUpActionMinimal GiveUpAction = "minimal"
)

// Personality is a configured AI persona. Traits are decoded from the JSON
// column when the row is loaded.
type Personality struct {
	ID          int64
	CreatorSlug string
	Name        string
	Description string
	Language    string
	Tone        string
	IsDefault   bool
	IsActive    bool
	Traits      PersonalityTraits
	Media       MediaSettings
	GiveUp      GiveUpSettings
	CreatedAt   time.Time
}

type PersonalityTraits struct {
	ToneTags   []string `json:"tone_tags"`
	EmojiLevel int      `json:"emoji_level"`
	StyleNotes string   `json:"style_notes"`
}

// MediaSettings control how generous the persona is with attachments.
// Frequency and PPVRatio are fractions in [0,1].
type MediaSettings struct {
	Frequency float64 `json:"frequency"`
	PPVRatio  float64 `json:"ppv_ratio"`
	Teasing   bool    `json:"teasing"`
}

type GiveUpSettings struct {
	Enabled          bool         `json:"enabled"`
	MessageThreshold int          `json:"message_threshold"`
	Action           GiveUpAction `json:"action"`
}

func (p Personality) HasTone(tone string) bool {
	if p.Tone == tone {
		return true
	}
	for _, t := range p.Traits.ToneTags {
		if t == tone {
			return true
		}
	}
	return false
}

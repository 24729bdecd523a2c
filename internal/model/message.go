package model

import "time"

type Message struct {
	ID                  int64
	ConversationID      int64
	SenderID            int64
	ReceiverID          int64
	Text                string
	FromFan             bool
	IsPPV               bool
	PPVPrice            *int
	IsAIGenerated       bool
	AIPersonalityID     *int64
	ResponseTimeSeconds *int
	IsRead              bool
	Media               []MessageMedia
	CreatedAt           time.Time
}

type MessageMedia struct {
	MediaID    int64  `json:"mediaId"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Position   int    `json:"position"`
}

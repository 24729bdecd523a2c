package dto

import (
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type ProcessMessageRequest struct {
	MessageID      int64  `json:"messageId" binding:"required"`
	CreatorSlug    string `json:"creatorSlug" binding:"required"`
	ConversationID int64  `json:"conversationId" binding:"required"`
}

type QueueResultResponse struct {
	Response        *string `json:"response"`
	MediaID         *int64  `json:"mediaId"`
	ShouldSendMedia bool    `json:"shouldSendMedia"`
	MediaDecision   *string `json:"mediaDecision"`
	TeaseText       *string `json:"teaseText"`
}

type QueueEntryResponse struct {
	ID             int64                `json:"id"`
	MessageID      int64                `json:"messageId"`
	ConversationID int64                `json:"conversationId"`
	CreatorSlug    string               `json:"creatorSlug"`
	Status         string               `json:"status"`
	Attempts       int                  `json:"attempts"`
	MaxAttempts    int                  `json:"maxAttempts"`
	Error          *string              `json:"error"`
	Result         *QueueResultResponse `json:"result,omitempty"`
	ScheduledAt    time.Time            `json:"scheduledAt"`
	ProcessedAt    *time.Time           `json:"processedAt"`
}

func ToQueueEntryResponse(e *model.QueueEntry) QueueEntryResponse {
	resp := QueueEntryResponse{
		ID:             e.ID,
		MessageID:      e.MessageID,
		ConversationID: e.ConversationID,
		CreatorSlug:    e.CreatorSlug,
		Status:         string(e.Status),
		Attempts:       e.Attempts,
		MaxAttempts:    e.MaxAttempts,
		Error:          e.Error,
		ScheduledAt:    e.ScheduledAt,
		ProcessedAt:    e.ProcessedAt,
	}
	if e.Status == model.QueueStatusCompleted {
		r := &QueueResultResponse{
			Response:        e.Result.Response,
			MediaID:         e.Result.MediaID,
			ShouldSendMedia: e.Result.ShouldSendMedia,
			TeaseText:       e.Result.TeaseText,
		}
		if e.Result.MediaDecision != nil {
			d := string(*e.Result.MediaDecision)
			r.MediaDecision = &d
		}
		resp.Result = r
	}
	return resp
}

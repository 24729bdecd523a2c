package dto

import (
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type RecordSaleRequest struct {
	ConversationID int64      `json:"conversationId" binding:"required"`
	Amount         int        `json:"amount" binding:"required,gt=0"`
	OccurredAt     *time.Time `json:"occurredAt"`
}

type RecordSaleResponse struct {
	Attributed bool                 `json:"attributed"`
	Usage      *ScriptUsageResponse `json:"usage,omitempty"`
}

type ScriptUsageResponse struct {
	ID             int64  `json:"id"`
	ScriptID       int64  `json:"scriptId"`
	ConversationID int64  `json:"conversationId"`
	MessageID      *int64 `json:"messageId"`
	SaleAmount     *int   `json:"saleAmount"`
}

func ToRecordSaleResponse(u *model.ScriptUsage) RecordSaleResponse {
	if u == nil {
		return RecordSaleResponse{}
	}
	return RecordSaleResponse{
		Attributed: true,
		Usage: &ScriptUsageResponse{
			ID:             u.ID,
			ScriptID:       u.ScriptID,
			ConversationID: u.ConversationID,
			MessageID:      u.MessageID,
			SaleAmount:     u.SaleAmount,
		},
	}
}

package store

import (
	"context"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type suggestionStore struct {
	db DBTX
}

func newSuggestionStore(db DBTX) SuggestionStore {
	return &suggestionStore{db: db}
}

func (s *suggestionStore) Create(ctx context.Context, sg *model.AISuggestion) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_suggestions (id, conversation_id, queue_entry_id, message_id, content, media_id,
			is_ppv, ppv_price, personality_id, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sg.ID, sg.ConversationID, sg.QueueEntryID, sg.MessageID, sg.Content, sg.MediaID,
		sg.IsPPV, sg.PPVPrice, sg.PersonalityID, sg.Status, sg.ExpiresAt, sg.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting suggestion: %w", err)
	}
	return nil
}

type handoffStore struct {
	db DBTX
}

func newHandoffStore(db DBTX) HandoffStore {
	return &handoffStore{db: db}
}

func (s *handoffStore) Create(ctx context.Context, h *model.Handoff) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO handoffs (id, conversation_id, creator_slug, message_id, trigger, trigger_value,
			chatter_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.ConversationID, h.CreatorSlug, h.MessageID, h.Trigger, h.TriggerValue,
		h.ChatterID, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting handoff: %w", err)
	}
	return nil
}

type objectionStore struct {
	db DBTX
}

func newObjectionStore(db DBTX) ObjectionStore {
	return &objectionStore{db: db}
}

func (s *objectionStore) Create(ctx context.Context, o *model.ObjectionLog) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO objection_logs (id, conversation_id, message_id, objection_type, pattern, language,
			original_price, discounted_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.ConversationID, o.MessageID, o.ObjectionType, o.Pattern, o.Language,
		o.OriginalPrice, o.DiscountedPrice, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting objection log: %w", err)
	}
	return nil
}

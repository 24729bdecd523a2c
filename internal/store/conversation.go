package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type conversationStore struct {
	db DBTX
}

func newConversationStore(db DBTX) ConversationStore {
	return &conversationStore{db: db}
}

func (s *conversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	var (
		c    model.Conversation
		mode string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, creator_slug, fan_id, ai_personality_id, ai_mode, auto_tone_switch,
			auto_language_switch, assigned_chatter_id, last_message_at, created_at
		FROM conversations WHERE id = $1`, id).Scan(
		&c.ID, &c.CreatorSlug, &c.FanID, &c.PersonalityID, &mode, &c.AutoToneSwitch,
		&c.AutoLanguageSwitch, &c.AssignedChatterID, &c.LastMessageAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	c.AIMode = model.AIMode(mode)
	return &c, nil
}

func (s *conversationStore) SwitchPersonality(ctx context.Context, sw model.PersonalitySwitch) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE conversations SET ai_personality_id = $2 WHERE id = $1`,
		sw.ConversationID, sw.PersonalityID)
	if err := expectOne(tag, err, "switching personality"); err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO conversation_personality_switches (conversation_id, personality_id, reason,
			previous_personality_name, detected_language, detected_tone, switched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sw.ConversationID, sw.PersonalityID, sw.Reason, sw.PreviousPersonalityName,
		sw.DetectedLanguage, sw.DetectedTone, sw.SwitchedAt)
	if err != nil {
		return fmt.Errorf("recording personality switch: %w", err)
	}
	return nil
}

func (s *conversationStore) TouchActivity(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`, id, at)
	return expectOne(tag, err, "touching conversation")
}

func (s *conversationStore) SetAIMode(ctx context.Context, id int64, mode model.AIMode) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE conversations SET ai_mode = $2 WHERE id = $1`, id, string(mode))
	return expectOne(tag, err, "setting AI mode")
}

func (s *conversationStore) AssignChatter(ctx context.Context, id int64) (*int64, error) {
	var chatterID *int64
	err := s.db.QueryRow(ctx, `
		UPDATE conversations c
		SET assigned_chatter_id = COALESCE(c.assigned_chatter_id, (
			SELECT a.chatter_id
			FROM chatter_creator_assignments a
			LEFT JOIN conversations o ON o.assigned_chatter_id = a.chatter_id
				AND o.creator_slug = a.creator_slug AND o.ai_mode = 'disabled'
			WHERE a.creator_slug = c.creator_slug AND a.is_active
			GROUP BY a.chatter_id
			ORDER BY count(o.id) ASC, a.chatter_id ASC
			LIMIT 1))
		WHERE c.id = $1
		RETURNING c.assigned_chatter_id`, id).Scan(&chatterID)
	if err != nil {
		return nil, notFound(err)
	}
	return chatterID, nil
}

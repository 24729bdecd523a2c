package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const messageColumns = `id, conversation_id, sender_id, receiver_id, text, from_fan, is_ppv, ppv_price,
	is_ai_generated, ai_personality_id, response_time_seconds, is_read, media, created_at`

type messageStore struct {
	db DBTX
}

func newMessageStore(db DBTX) MessageStore {
	return &messageStore{db: db}
}

func (s *messageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	msg, err := scanMessage(s.db.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	media := msg.Media
	if media == nil {
		media = []model.MessageMedia{}
	}
	mediaJSON, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("marshal message media: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Text, msg.FromFan,
		msg.IsPPV, msg.PPVPrice, msg.IsAIGenerated, msg.AIPersonalityID, msg.ResponseTimeSeconds,
		msg.IsRead, mediaJSON, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (s *messageStore) ListRecent(ctx context.Context, conversationID int64, limit int) ([]model.Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT * FROM (
			SELECT `+messageColumns+`
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent messages: %w", err)
	}
	return collect(rows, scanMessage)
}

func (s *messageStore) MarkFanMessagesRead(ctx context.Context, conversationID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE messages SET is_read = true
		WHERE conversation_id = $1 AND from_fan = true AND is_read = false`, conversationID)
	if err != nil {
		return 0, fmt.Errorf("marking messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row scanner) (*model.Message, error) {
	var (
		m         model.Message
		mediaJSON []byte
	)
	if err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Text, &m.FromFan, &m.IsPPV,
		&m.PPVPrice, &m.IsAIGenerated, &m.AIPersonalityID, &m.ResponseTimeSeconds, &m.IsRead,
		&mediaJSON, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(mediaJSON) > 0 {
		if err := json.Unmarshal(mediaJSON, &m.Media); err != nil {
			return nil, fmt.Errorf("unmarshal message media: %w", err)
		}
	}
	return &m, nil
}

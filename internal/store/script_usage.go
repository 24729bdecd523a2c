package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type scriptUsageStore struct {
	db DBTX
}

func newScriptUsageStore(db DBTX) ScriptUsageStore {
	return &scriptUsageStore{db: db}
}

func (s *scriptUsageStore) Create(ctx context.Context, u *model.ScriptUsage) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO script_usages (id, script_id, conversation_id, message_id, creator_slug, status,
			resulted_in_sale, response_time_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)`,
		u.ID, u.ScriptID, u.ConversationID, u.MessageID, u.CreatorSlug, u.Status,
		u.ResponseTimeSeconds, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting script usage: %w", err)
	}
	return nil
}

func (s *scriptUsageStore) FindAttributable(ctx context.Context, conversationID int64, from, until time.Time) (*model.ScriptUsage, error) {
	var u model.ScriptUsage
	err := s.db.QueryRow(ctx, `
		SELECT id, script_id, conversation_id, message_id, creator_slug, status, resulted_in_sale,
			sale_amount, response_time_seconds, attributed_at, created_at
		FROM script_usages
		WHERE conversation_id = $1 AND status = 'sent' AND resulted_in_sale = false
			AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, conversationID, from, until).Scan(
		&u.ID, &u.ScriptID, &u.ConversationID, &u.MessageID, &u.CreatorSlug, &u.Status,
		&u.ResultedInSale, &u.SaleAmount, &u.ResponseTimeSeconds, &u.AttributedAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *scriptUsageStore) MarkAttributed(ctx context.Context, usageID int64, amount int, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE script_usages
		SET resulted_in_sale = true, sale_amount = $2, attributed_at = $3
		WHERE id = $1 AND resulted_in_sale = false`, usageID, amount, at)
	if err != nil {
		return false, fmt.Errorf("marking usage attributed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

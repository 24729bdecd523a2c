package store

import (
	"context"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type fanMemoryStore struct {
	db DBTX
}

func newFanMemoryStore(db DBTX) FanMemoryStore {
	return &fanMemoryStore{db: db}
}

func (s *fanMemoryStore) Create(ctx context.Context, m *model.FanMemory) error {
	// Same fact twice for the same fan is kept once.
	_, err := s.db.Exec(ctx, `
		INSERT INTO fan_memories (id, fan_id, creator_slug, category, content, confidence,
			source_message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (creator_slug, fan_id, content) DO NOTHING`,
		m.ID, m.FanID, m.CreatorSlug, m.Category, m.Content, m.Confidence, m.SourceMessageID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting fan memory: %w", err)
	}
	return nil
}

func (s *fanMemoryStore) ListByFan(ctx context.Context, creatorSlug string, fanID int64, limit int) ([]model.FanMemory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, fan_id, creator_slug, category, content, confidence, source_message_id, created_at
		FROM fan_memories
		WHERE creator_slug = $1 AND fan_id = $2
		ORDER BY confidence DESC, created_at DESC
		LIMIT $3`, creatorSlug, fanID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing fan memories: %w", err)
	}
	return collect(rows, func(row scanner) (*model.FanMemory, error) {
		var m model.FanMemory
		if err := row.Scan(&m.ID, &m.FanID, &m.CreatorSlug, &m.Category, &m.Content,
			&m.Confidence, &m.SourceMessageID, &m.CreatedAt); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

package store

import (
	"context"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const mediaColumns = `m.id, m.creator_slug, m.type, m.url, m.preview_url, m.ppv_price, m.is_free, m.tags, m.created_at`

type mediaStore struct {
	db DBTX
}

func newMediaStore(db DBTX) MediaStore {
	return &mediaStore{db: db}
}

func (s *mediaStore) GetByID(ctx context.Context, id int64) (*model.MediaItem, error) {
	item, err := scanMedia(s.db.QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media_items m WHERE m.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *mediaStore) ListUnsent(ctx context.Context, creatorSlug string, conversationID int64) ([]model.MediaItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+mediaColumns+`
		FROM media_items m
		WHERE m.creator_slug = $1
			AND NOT EXISTS (
				SELECT 1 FROM messages msg, jsonb_array_elements(msg.media) att
				WHERE msg.conversation_id = $2 AND (att->>'mediaId')::bigint = m.id
			)
		ORDER BY m.created_at DESC, m.id DESC`, creatorSlug, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing unsent media: %w", err)
	}
	return collect(rows, scanMedia)
}

func scanMedia(row scanner) (*model.MediaItem, error) {
	var m model.MediaItem
	var tags []byte
	if err := row.Scan(&m.ID, &m.CreatorSlug, &m.Type, &m.URL, &m.PreviewURL, &m.PPVPrice,
		&m.IsFree, &tags, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(tags, &m.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal media tags: %w", err)
	}
	return &m, nil
}

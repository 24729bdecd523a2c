package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

const personalityColumns = `id, creator_slug, name, description, language, tone, is_default, is_active,
	traits, media_settings, give_up, created_at`

type personalityStore struct {
	db DBTX
}

func newPersonalityStore(db DBTX) PersonalityStore {
	return &personalityStore{db: db}
}

func (s *personalityStore) GetByID(ctx context.Context, id int64) (*model.Personality, error) {
	p, err := scanPersonality(s.db.QueryRow(ctx,
		`SELECT `+personalityColumns+` FROM ai_personalities WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *personalityStore) ListActiveByCreator(ctx context.Context, creatorSlug string) ([]model.Personality, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+personalityColumns+`
		FROM ai_personalities
		WHERE creator_slug = $1 AND is_active = true
		ORDER BY is_default DESC, created_at ASC, id ASC`, creatorSlug)
	if err != nil {
		return nil, fmt.Errorf("listing personalities: %w", err)
	}
	return collect(rows, scanPersonality)
}

// scanPersonality decodes the JSON settings columns once, at load time.
func scanPersonality(row scanner) (*model.Personality, error) {
	var p model.Personality
	var traits, mediaSettings, giveUp []byte
	if err := row.Scan(
		&p.ID, &p.CreatorSlug, &p.Name, &p.Description, &p.Language, &p.Tone, &p.IsDefault,
		&p.IsActive, &traits, &mediaSettings, &giveUp, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalOptional(traits, &p.Traits); err != nil {
		return nil, fmt.Errorf("unmarshal personality traits: %w", err)
	}
	if err := unmarshalOptional(mediaSettings, &p.Media); err != nil {
		return nil, fmt.Errorf("unmarshal personality media settings: %w", err)
	}
	if err := unmarshalOptional(giveUp, &p.GiveUp); err != nil {
		return nil, fmt.Errorf("unmarshal personality give-up settings: %w", err)
	}
	return &p, nil
}

func unmarshalOptional(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

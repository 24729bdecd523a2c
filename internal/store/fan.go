package store

import (
	"context"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type fanStore struct {
	db DBTX
}

func newFanStore(db DBTX) FanStore {
	return &fanStore{db: db}
}

func (s *fanStore) GetStats(ctx context.Context, creatorSlug string, fanID int64) (*model.FanStats, error) {
	var f model.FanStats
	err := s.db.QueryRow(ctx, `
		SELECT fan_id, creator_slug, username, display_name, credits, total_spent, total_messages,
			purchase_count, stage, qualification_score, personal_note, is_ai_only, joined_at,
			last_active_at, last_purchase_at
		FROM fan_stats
		WHERE creator_slug = $1 AND fan_id = $2`, creatorSlug, fanID).Scan(
		&f.FanID, &f.CreatorSlug, &f.Username, &f.DisplayName, &f.Credits, &f.TotalSpent,
		&f.TotalMessages, &f.PurchaseCount, &f.Stage, &f.QualificationScore, &f.PersonalNote,
		&f.IsAIOnly, &f.JoinedAt, &f.LastActiveAt, &f.LastPurchaseAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (s *fanStore) UpdateNote(ctx context.Context, creatorSlug string, fanID int64, note string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE fan_stats SET personal_note = $3 WHERE creator_slug = $1 AND fan_id = $2`,
		creatorSlug, fanID, note)
	return expectOne(tag, err, "updating personal note")
}

func (s *fanStore) UpdateQualification(ctx context.Context, creatorSlug string, fanID int64, score int, stage string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE fan_stats SET qualification_score = $3, stage = $4
		WHERE creator_slug = $1 AND fan_id = $2`, creatorSlug, fanID, score, stage)
	if err := expectOne(tag, err, "updating qualification"); err != nil {
		return fmt.Errorf("fan %d: %w", fanID, err)
	}
	return nil
}

package store

import (
	"context"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
)

type creatorStore struct {
	db DBTX
}

func newCreatorStore(db DBTX) CreatorStore {
	return &creatorStore{db: db}
}

func (s *creatorStore) GetBySlug(ctx context.Context, slug string) (*model.Creator, error) {
	var c model.Creator
	err := s.db.QueryRow(ctx, `
		SELECT slug, user_id, display_name, agency_id, ai_provider, ai_model, ai_api_key,
			ppv_price, subscription_price, tip_price, default_personality_id
		FROM creators WHERE slug = $1`, slug).Scan(
		&c.Slug, &c.UserID, &c.DisplayName, &c.AgencyID, &c.AIProvider, &c.AIModel, &c.AIAPIKey,
		&c.PPVPrice, &c.SubscriptionPrice, &c.TipPrice, &c.DefaultPersonalityID,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

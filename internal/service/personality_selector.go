package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

type personalitySelector struct {
	creators      store.CreatorStore
	personalities store.PersonalityStore
}

// NewPersonalitySelector prefers the creator's configured default, then a
// personality flagged is_default, then the first active one.
func NewPersonalitySelector(creators store.CreatorStore, personalities store.PersonalityStore) brain.PersonalitySelector {
	return &personalitySelector{creators: creators, personalities: personalities}
}

func (s *personalitySelector) Select(ctx context.Context, creatorSlug string, _ *model.Conversation) (*model.Personality, error) {
	active, err := s.personalities.ListActiveByCreator(ctx, creatorSlug)
	if err != nil {
		return nil, fmt.Errorf("listing personalities: %w", err)
	}
	if len(active) == 0 {
		return nil, nil
	}

	creator, err := s.creators.GetBySlug(ctx, creatorSlug)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading creator: %w", err)
	}
	if creator != nil && creator.DefaultPersonalityID != nil {
		for i := range active {
			if active[i].ID == *creator.DefaultPersonalityID {
				return &active[i], nil
			}
		}
	}

	for i := range active {
		if active[i].IsDefault {
			return &active[i], nil
		}
	}
	return &active[0], nil
}

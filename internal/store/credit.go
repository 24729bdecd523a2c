package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
)

type creditStore struct {
	db DBTX
}

func newCreditStore(db DBTX) CreditStore {
	return &creditStore{db: db}
}

func (s *creditStore) Balance(ctx context.Context, creatorSlug string) (int, error) {
	var balance int
	err := s.db.QueryRow(ctx,
		`SELECT ai_credits FROM creator_credits WHERE creator_slug = $1`, creatorSlug).Scan(&balance)
	if err != nil {
		return 0, notFound(err)
	}
	return balance, nil
}

// Debit is a single conditional UPDATE so two concurrent charges can never
// take the balance below zero.
func (s *creditStore) Debit(ctx context.Context, creatorSlug string, amount int, ref CreditRef) (int64, int, error) {
	var (
		userID     int64
		newBalance int
	)
	err := s.db.QueryRow(ctx, `
		UPDATE creator_credits
		SET ai_credits = ai_credits - $2
		WHERE creator_slug = $1 AND ai_credits >= $2
		RETURNING user_id, ai_credits`, creatorSlug, amount).Scan(&userID, &newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrInsufficientCredits
		}
		return 0, 0, fmt.Errorf("debiting credits: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO credit_transactions (id, creator_slug, user_id, amount, reason, message_id,
			conversation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		id.New(), creatorSlug, userID, -amount, ref.Reason, ref.MessageID, ref.ConversationID)
	if err != nil {
		return 0, 0, fmt.Errorf("recording credit transaction: %w", err)
	}

	return userID, newBalance, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

const creditReasonAIMessage = "ai_message"

type CreditBalance struct {
	HasCredits bool
	Balance    int
}

type ChargeRef struct {
	MessageID      int64
	ConversationID int64
}

type ChargeResult struct {
	Charged       bool
	ChargedUserID int64
	NewBalance    int
	Error         string
}

// CreditService is the creator's AI-chat credit ledger.
type CreditService interface {
	HasCredits(ctx context.Context, creatorSlug string) (CreditBalance, error)
	ChargeOneCredit(ctx context.Context, creatorSlug string, ref ChargeRef) (ChargeResult, error)
}

type creditService struct {
	credits store.CreditStore
}

func NewCreditService(credits store.CreditStore) CreditService {
	return &creditService{credits: credits}
}

// HasCredits treats a creator without a ledger row as having no credits.
func (s *creditService) HasCredits(ctx context.Context, creatorSlug string) (CreditBalance, error) {
	balance, err := s.credits.Balance(ctx, creatorSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CreditBalance{}, nil
		}
		return CreditBalance{}, fmt.Errorf("reading credit balance: %w", err)
	}
	return CreditBalance{HasCredits: balance > 0, Balance: balance}, nil
}

// ChargeOneCredit reports an empty balance in the result, not as an error.
func (s *creditService) ChargeOneCredit(ctx context.Context, creatorSlug string, ref ChargeRef) (ChargeResult, error) {
	userID, balance, err := s.credits.Debit(ctx, creatorSlug, 1, store.CreditRef{
		Reason:         creditReasonAIMessage,
		MessageID:      ref.MessageID,
		ConversationID: ref.ConversationID,
	})
	if err != nil {
		if errors.Is(err, store.ErrInsufficientCredits) {
			slog.WarnContext(ctx, "credit charge refused, balance empty", "creator_slug", creatorSlug)
			return ChargeResult{Error: err.Error()}, nil
		}
		return ChargeResult{}, fmt.Errorf("charging credit: %w", err)
	}
	return ChargeResult{Charged: true, ChargedUserID: userID, NewBalance: balance}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

const (
	HandoffTriggerKeyword     = "keyword"
	HandoffTriggerHighSpender = "high_spender"
	HandoffTriggerSafety      = "safety"
)

// DefaultHighSpenderThreshold is the lifetime spend (credits) above which a
// human takes over.
const DefaultHighSpenderThreshold = 50000

var handoffKeywords = []string{
	"real person", "talk to you for real", "are you a bot", "refund", "chargeback",
	"meet up", "meet in person", "phone number", "whatsapp", "snapchat", "custom video",
}

var safetyKeywords = []string{
	"kill myself", "hurt myself", "suicide", "i'm underage", "i am underage", "i'm 16", "i'm 17",
}

type HandoffDecision struct {
	ShouldHandoff bool
	Trigger       string
	TriggerValue  *string
}

// HandoffService decides when a human must take a conversation over.
type HandoffService interface {
	ShouldHandoff(ctx context.Context, conversationID int64, messageText string) (HandoffDecision, error)
	CreateHandoff(ctx context.Context, conversationID, messageID int64, decision HandoffDecision) (*model.Handoff, error)
}

type handoffService struct {
	conversations        store.ConversationStore
	fans                 store.FanStore
	txRunner             TxRunner
	highSpenderThreshold int
	now                  func() time.Time
}

func NewHandoffService(conversations store.ConversationStore, fans store.FanStore, txRunner TxRunner, highSpenderThreshold int) HandoffService {
	if highSpenderThreshold <= 0 {
		highSpenderThreshold = DefaultHighSpenderThreshold
	}
	return &handoffService{
		conversations:        conversations,
		fans:                 fans,
		txRunner:             txRunner,
		highSpenderThreshold: highSpenderThreshold,
		now:                  time.Now,
	}
}

func (s *handoffService) ShouldHandoff(ctx context.Context, conversationID int64, messageText string) (HandoffDecision, error) {
	text := strings.ToLower(messageText)

	for _, kw := range safetyKeywords {
		if strings.Contains(text, kw) {
			return HandoffDecision{ShouldHandoff: true, Trigger: HandoffTriggerSafety, TriggerValue: &kw}, nil
		}
	}
	for _, kw := range handoffKeywords {
		if strings.Contains(text, kw) {
			return HandoffDecision{ShouldHandoff: true, Trigger: HandoffTriggerKeyword, TriggerValue: &kw}, nil
		}
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return HandoffDecision{}, fmt.Errorf("loading conversation: %w", err)
	}
	stats, err := s.fans.GetStats(ctx, conv.CreatorSlug, conv.FanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return HandoffDecision{}, nil
		}
		return HandoffDecision{}, fmt.Errorf("loading fan stats: %w", err)
	}
	if stats.TotalSpent >= s.highSpenderThreshold {
		value := strconv.Itoa(stats.TotalSpent)
		return HandoffDecision{ShouldHandoff: true, Trigger: HandoffTriggerHighSpender, TriggerValue: &value}, nil
	}

	return HandoffDecision{}, nil
}

// CreateHandoff assigns a human chatter, records the handoff and disables AI
// on the conversation so later messages wait for the human.
func (s *handoffService) CreateHandoff(ctx context.Context, conversationID, messageID int64, decision HandoffDecision) (*model.Handoff, error) {
	var handoff *model.Handoff

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		conv, err := stores.Conversations().GetByID(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("loading conversation: %w", err)
		}

		chatterID, err := stores.Conversations().AssignChatter(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("assigning chatter: %w", err)
		}

		handoff = &model.Handoff{
			ID:             id.New(),
			ConversationID: conversationID,
			CreatorSlug:    conv.CreatorSlug,
			MessageID:      messageID,
			Trigger:        decision.Trigger,
			TriggerValue:   decision.TriggerValue,
			ChatterID:      chatterID,
			CreatedAt:      s.now(),
		}
		if err := stores.Handoffs().Create(ctx, handoff); err != nil {
			return fmt.Errorf("creating handoff: %w", err)
		}
		if err := stores.Conversations().SetAIMode(ctx, conversationID, model.AIModeDisabled); err != nil {
			return fmt.Errorf("disabling AI: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if handoff.ChatterID == nil {
		slog.WarnContext(ctx, "no active chatter for creator, handoff unassigned",
			"trigger", decision.Trigger,
			"handoff_id", handoff.ID)
		return handoff, nil
	}
	slog.InfoContext(ctx, "conversation handed off to a human",
		"trigger", decision.Trigger,
		"handoff_id", handoff.ID,
		"chatter_id", *handoff.ChatterID)
	return handoff, nil
}

package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// Qualifier scores how likely a fan is to buy, 0 to 100.
type Qualifier struct {
	fans     store.FanStore
	messages store.MessageStore
	intents  *IntentDetector
}

func NewQualifier(fans store.FanStore, messages store.MessageStore, intents *IntentDetector) *Qualifier {
	return &Qualifier{fans: fans, messages: messages, intents: intents}
}

func (q *Qualifier) Qualify(ctx context.Context, task FanTask) (int, string, error) {
	stats, err := q.fans.GetStats(ctx, task.CreatorSlug, task.FanID)
	if err != nil {
		return 0, "", fmt.Errorf("loading fan stats: %w", err)
	}
	msg, err := q.messages.GetByID(ctx, task.MessageID)
	if err != nil {
		return 0, "", fmt.Errorf("loading message: %w", err)
	}

	intent := q.intents.Detect(msg.Text)
	buying := intent.Detected() && strings.HasPrefix(intent.Category, CategorySales)

	score := QualificationScore(*stats, buying)
	stage := StageForScore(score)

	if err := q.fans.UpdateQualification(ctx, task.CreatorSlug, task.FanID, score, stage); err != nil {
		return 0, "", fmt.Errorf("saving qualification: %w", err)
	}

	slog.DebugContext(ctx, "fan qualified",
		"score", score,
		"stage", stage,
		"purchase_intent", buying)
	return score, stage, nil
}

// QualificationScore weighs spending first, then purchase history, activity
// and the intent of the latest message.
func QualificationScore(stats model.FanStats, purchaseIntent bool) int {
	score := min(stats.TotalSpent/20, 50)
	score += min(stats.PurchaseCount*5, 20)
	score += min(stats.TotalMessages/4, 15)
	if purchaseIntent {
		score += 15
	}
	return min(score, 100)
}

func StageForScore(score int) string {
	switch {
	case score < 20:
		return model.FanStageNew
	case score < 45:
		return model.FanStageEngaged
	case score < 70:
		return model.FanStageWarm
	case score < 90:
		return model.FanStageBuyer
	default:
		return model.FanStageWhale
	}
}

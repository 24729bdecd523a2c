package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

const DefaultAttributionWindow = 24 * time.Hour

// Attributor tracks script usage and credits sales to the script that
// preceded them.
type Attributor struct {
	tx     TxRunner
	window time.Duration
}

func NewAttributor(tx TxRunner, window time.Duration) *Attributor {
	if window <= 0 {
		window = DefaultAttributionWindow
	}
	return &Attributor{tx: tx, window: window}
}

// TrackUsage records that a script contributed to an outgoing message.
func (a *Attributor) TrackUsage(ctx context.Context, matched *MatchedScript, conversationID int64, messageID *int64, creatorSlug string, responseTime *int, now time.Time) error {
	return a.tx.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.ScriptUsages().Create(ctx, &model.ScriptUsage{
			ID:                  id.New(),
			ScriptID:            matched.Script.ID,
			ConversationID:      conversationID,
			MessageID:           messageID,
			CreatorSlug:         creatorSlug,
			Status:              model.ScriptUsageStatusSent,
			ResponseTimeSeconds: responseTime,
			CreatedAt:           now,
		}); err != nil {
			return fmt.Errorf("creating script usage: %w", err)
		}
		if err := stores.Scripts().IncrementUsage(ctx, matched.Script.ID); err != nil {
			return fmt.Errorf("incrementing script usage: %w", err)
		}
		return nil
	})
}

// AttributeSale credits the sale to the newest unattributed usage of the
// conversation inside the window. It returns nil when nothing qualifies.
func (a *Attributor) AttributeSale(ctx context.Context, sale model.Sale) (*model.ScriptUsage, error) {
	var attributed *model.ScriptUsage

	err := a.tx.WithTx(ctx, func(stores StoreProvider) error {
		usage, err := stores.ScriptUsages().FindAttributable(ctx, sale.ConversationID, sale.OccurredAt.Add(-a.window), sale.OccurredAt)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("finding attributable usage: %w", err)
		}

		ok, err := stores.ScriptUsages().MarkAttributed(ctx, usage.ID, sale.Amount, sale.OccurredAt)
		if err != nil {
			return err
		}
		if !ok {
			// Claimed by a concurrent sale
			return nil
		}

		if err := stores.Scripts().RecordSale(ctx, usage.ScriptID, sale.Amount); err != nil {
			return fmt.Errorf("recording script sale: %w", err)
		}

		amount := sale.Amount
		at := sale.OccurredAt
		usage.ResultedInSale = true
		usage.SaleAmount = &amount
		usage.AttributedAt = &at
		attributed = usage
		return nil
	})
	if err != nil {
		return nil, err
	}

	if attributed != nil {
		slog.InfoContext(ctx, "sale attributed to script",
			"script_id", attributed.ScriptID,
			"usage_id", attributed.ID,
			"amount", sale.Amount)
	}
	return attributed, nil
}

package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Raphi52/OnlyVIP-sub000/core/db"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Queue() store.QueueStore
	Messages() store.MessageStore
	Conversations() store.ConversationStore
	Credits() store.CreditStore
	Suggestions() store.SuggestionStore
	Handoffs() store.HandoffStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(store.NewStores(tx))
	})
}

package brain

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Raphi52/OnlyVIP-sub000/core/db"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

// StoreProvider exposes stores needed by transactional operations in the brain package.
// This is a local interface to avoid import cycles (service → brain, not brain → service).
type StoreProvider interface {
	Scripts() store.ScriptStore
	ScriptUsages() store.ScriptUsageStore
}

// TxRunner runs functions within a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(store.NewStores(tx))
	})
}

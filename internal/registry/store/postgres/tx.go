package postgres

import (
	"context"
	"database/sql"
	"time"

	"secreg/internal/registry/service"
	dErrors "secreg/pkg/domain-errors"
	txcontext "secreg/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// registryLockKey is the advisory lock every registry transaction takes. Writers
// hold it exclusively for the whole transaction, which totally orders mutations
// across processes and keeps sequential IDs gap-free and outbox seq order equal
// to commit order. Readers hold it shared so they never observe a writer halfway.
const registryLockKey int64 = 0x5ec7e9

const (
	writeLockSQL = `SELECT pg_advisory_xact_lock($1)`
	readLockSQL  = `SELECT pg_advisory_xact_lock_shared($1)`
)

// Tx runs each registry operation in one SQL transaction under the registry lock.
type Tx struct {
	db      *sql.DB
	stores  service.Stores
	timeout time.Duration
}

func NewTx(db *sql.DB, stores service.Stores) *Tx {
	return &Tx{db: db, stores: stores, timeout: defaultTxTimeout}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return t.run(ctx, nil, writeLockSQL, fn)
}

// RunInReadTx runs fn in a read-only transaction under the shared registry lock.
func (t *Tx) RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return t.run(ctx, &sql.TxOptions{ReadOnly: true}, readLockSQL, fn)
}

func (t *Tx) run(ctx context.Context, opts *sql.TxOptions, lockSQL string, fn func(ctx context.Context, stores service.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, lockSQL, registryLockKey); err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: lock wait timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire registry lock")
	}

	if err := fn(txcontext.WithTx(ctx, tx), t.stores); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}

package service

import (
	"context"
	"sync"
	"time"

	dErrors "secreg/pkg/domain-errors"
)

// defaultTxTimeout is the maximum duration for one registry transaction.
const defaultTxTimeout = 5 * time.Second

// inMemoryTx serializes every mutation behind one global lock, which makes the
// in-memory registries linearizable: each operation observes only committed state
// and no two writers interleave. Readers share the lock with each other.
type inMemoryTx struct {
	mu      sync.RWMutex
	stores  Stores
	timeout time.Duration
}

// NewInMemoryTx wraps in-memory stores in a single-writer transaction boundary.
func NewInMemoryTx(stores Stores) StoreTx {
	return &inMemoryTx{stores: stores, timeout: defaultTxTimeout}
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return t.run(ctx, t.mu.Lock, t.mu.Unlock, fn)
}

func (t *inMemoryTx) RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return t.run(ctx, t.mu.RLock, t.mu.RUnlock, fn)
}

func (t *inMemoryTx) run(ctx context.Context, lock, unlock func(), fn func(ctx context.Context, stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	lock()
	defer unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.stores)
}

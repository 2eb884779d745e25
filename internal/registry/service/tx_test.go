package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secreg/internal/registry/store/memory"
	dErrors "secreg/pkg/domain-errors"
)

func TestInMemoryTx_ReadersShareLock(t *testing.T) {
	tx := NewInMemoryTx(StoresOf(memory.New()))
	ctx := context.Background()

	holding := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- tx.RunInReadTx(ctx, func(context.Context, Stores) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- tx.RunInReadTx(ctx, func(context.Context, Stores) error { return nil })
	}()

	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second reader blocked behind first reader")
	}

	close(release)
	require.NoError(t, <-firstDone)
}

func TestInMemoryTx_WriterExcludesReaders(t *testing.T) {
	tx := NewInMemoryTx(StoresOf(memory.New()))
	ctx := context.Background()

	holding := make(chan struct{})
	release := make(chan struct{})
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- tx.RunInTx(ctx, func(context.Context, Stores) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	// The reader's deadline passes while it waits on the writer.
	readCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	time.AfterFunc(150*time.Millisecond, func() { close(release) })
	ran := false
	err := tx.RunInReadTx(readCtx, func(context.Context, Stores) error {
		ran = true
		return nil
	})

	require.NoError(t, <-writerDone)
	assert.False(t, ran, "reader ran while writer held the lock")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout), "expected timeout, got %v", err)
}

func TestInMemoryTx_CancelledContext(t *testing.T) {
	tx := NewInMemoryTx(StoresOf(memory.New()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tx.RunInReadTx(ctx, func(context.Context, Stores) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

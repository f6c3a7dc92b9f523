// Package operation manages the blocking motion operations of a base so that only one runs at a
// time and every operation can be cancelled through its context.
package operation

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// SingleOperationManager ensures only 1 operation is happening a time.
// An operation can be nested, so if there is already an operation in progress,
// it can have sub-operations without an issue.
type SingleOperationManager struct {
	mu        sync.Mutex
	currentOp *anOp
}

// CancelRunning cancel's a current operation unless it's mine.
func (sm *SingleOperationManager) CancelRunning(ctx context.Context) {
	if ctx.Value(somCtxKeySingleOp) != nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cancelInLock(ctx)
}

// OpRunning returns if there is a current operation.
func (sm *SingleOperationManager) OpRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.currentOp != nil
}

// CurrentName returns the name the running operation was started with, or "" when idle.
func (sm *SingleOperationManager) CurrentName() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.currentOp == nil {
		return ""
	}
	return sm.currentOp.name
}

type somCtxKey byte

const somCtxKeySingleOp = somCtxKey(iota)

// New creates a new operation, cancels previous, returns a new context and function to call when done.
func (sm *SingleOperationManager) New(ctx context.Context) (context.Context, func()) {
	return sm.NewNamed(ctx, "")
}

// NewNamed is New with a label that CurrentName reports while the operation runs.
func (sm *SingleOperationManager) NewNamed(ctx context.Context, name string) (context.Context, func()) {
	// handle nested ops
	if ctx.Value(somCtxKeySingleOp) != nil {
		return ctx, func() {}
	}

	sm.mu.Lock()

	// first cancel any old operation
	sm.cancelInLock(ctx)

	theOp := &anOp{name: name}

	ctx = context.WithValue(ctx, somCtxKeySingleOp, theOp)

	theOp.ctx, theOp.cancelFunc = context.WithCancel(ctx)
	sm.currentOp = theOp
	sm.mu.Unlock()

	return theOp.ctx, func() {
		theOp.cancelFunc()
		sm.mu.Lock()
		if theOp == sm.currentOp {
			sm.currentOp = nil
		}
		sm.mu.Unlock()
	}
}

// RunTicking starts a new named operation and calls step once per period until step reports it is
// done, step fails, or the operation's context is cancelled. The first step runs immediately.
func (sm *SingleOperationManager) RunTicking(
	ctx context.Context,
	name string,
	clk clock.Clock,
	period time.Duration,
	step func(ctx context.Context) (bool, error),
) error {
	ctx, finish := sm.NewNamed(ctx, name)
	defer finish()

	ticker := clk.Ticker(period)
	defer ticker.Stop()

	for {
		done, err := step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (sm *SingleOperationManager) cancelInLock(ctx context.Context) {
	myOp := ctx.Value(somCtxKeySingleOp)
	op := sm.currentOp

	if op == nil || myOp == op {
		return
	}

	op.cancelFunc()

	sm.currentOp = nil
}

type anOp struct {
	name       string
	ctx        context.Context
	cancelFunc context.CancelFunc
}

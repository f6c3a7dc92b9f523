package operation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestSingleOperationManager(t *testing.T) {
	ctx := context.Background()
	som := SingleOperationManager{}

	t.Run("nested operation does not cancel parent", func(t *testing.T) {
		ctx1, close1 := som.NewNamed(ctx, "rotate")
		defer close1()
		test.That(t, som.CurrentName(), test.ShouldEqual, "rotate")
		_, close2 := som.New(ctx1)
		defer close2()
		test.That(t, ctx1.Err(), test.ShouldBeNil)
	})

	t.Run("new operation cancels the running one", func(t *testing.T) {
		var wg sync.WaitGroup
		var firstErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			firstErr = som.RunTicking(context.Background(), "drive", clock.New(), time.Millisecond,
				func(ctx context.Context) (bool, error) { return false, nil })
		}()

		for !som.OpRunning() {
			time.Sleep(time.Millisecond)
		}
		test.That(t, som.CurrentName(), test.ShouldEqual, "drive")

		err := som.RunTicking(ctx, "rotate", clock.New(), time.Millisecond,
			func(ctx context.Context) (bool, error) { return true, nil })
		test.That(t, err, test.ShouldBeNil)

		wg.Wait()
		test.That(t, errors.Is(firstErr, context.Canceled), test.ShouldBeTrue)
		test.That(t, som.OpRunning(), test.ShouldBeFalse)
	})

	t.Run("CancelRunning", func(t *testing.T) {
		opCtx, done := som.New(ctx)
		defer done()
		som.CancelRunning(ctx)
		test.That(t, opCtx.Err(), test.ShouldNotBeNil)
		test.That(t, som.OpRunning(), test.ShouldBeFalse)
	})
}

func TestRunTicking(t *testing.T) {
	ctx := context.Background()
	som := SingleOperationManager{}

	t.Run("steps until done", func(t *testing.T) {
		count := 0
		err := som.RunTicking(ctx, "count", clock.New(), time.Millisecond, func(ctx context.Context) (bool, error) {
			count++
			return count == 5, nil
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, count, test.ShouldEqual, 5)
	})

	t.Run("step error stops the loop", func(t *testing.T) {
		boom := errors.New("boom")
		err := som.RunTicking(ctx, "fail", clock.New(), time.Millisecond, func(ctx context.Context) (bool, error) {
			return false, boom
		})
		test.That(t, err, test.ShouldEqual, boom)
	})

	t.Run("ticks follow the clock", func(t *testing.T) {
		mock := clock.NewMock()
		var mu sync.Mutex
		count := 0
		errCh := make(chan error, 1)
		go func() {
			errCh <- som.RunTicking(ctx, "mocked", mock, time.Second, func(ctx context.Context) (bool, error) {
				mu.Lock()
				defer mu.Unlock()
				count++
				return count == 3, nil
			})
		}()
		for {
			select {
			case err := <-errCh:
				test.That(t, err, test.ShouldBeNil)
				mu.Lock()
				test.That(t, count, test.ShouldEqual, 3)
				mu.Unlock()
				return
			default:
				mock.Add(time.Second)
				time.Sleep(time.Millisecond)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := som.RunTicking(cctx, "cancelled", clock.New(), time.Hour, func(ctx context.Context) (bool, error) {
			return false, nil
		})
		test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	})
}

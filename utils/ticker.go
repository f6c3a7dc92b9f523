package utils

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/contournav/logging"
)

// SlowLogger starts a goroutine that warns periodically for as long as an operation is running.
// It does not interrupt the operation. The returned function stops the goroutine. A non-positive
// first interval disables the logger.
func SlowLogger(
	ctx context.Context, clk clock.Clock, first time.Duration, msg, fieldName, fieldVal string, logger logging.Logger,
) func() {
	if first <= 0 {
		return func() {}
	}
	slowTicker := clk.Ticker(first)
	firstTick := true

	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := clk.Now()
	go func() {
		for {
			select {
			case <-slowTicker.C:
				elapsed := clk.Since(startTime).Round(time.Millisecond).String()
				logger.CWarnw(ctx, msg, fieldName, fieldVal, "time_elapsed", elapsed)
				if firstTick {
					slowTicker.Reset(2 * first)
					firstTick = false
				}
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return func() { slowTicker.Stop(); cancel() }
}

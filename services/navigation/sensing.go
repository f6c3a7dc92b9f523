package navigation

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/contournav/lidar"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/services/motion"
)

// ObstacleSensor turns range scans into world frame obstacles. It uses whatever pose is current
// when a scan completes.
type ObstacleSensor struct {
	Sensor    lidar.Sensor
	Gate      lidar.RangeGate
	Tracker   *obstacle.Tracker
	Localizer motion.Localizer
	Logger    logging.Logger
}

// SenseOnce takes one scan. It returns the obstacle and true when a new estimate was accepted, and
// lidar.ErrNoReturns when nothing is inside the range gate.
func (o *ObstacleSensor) SenseOnce(ctx context.Context) (obstacle.Obstacle, bool, error) {
	scan, err := o.Sensor.Scan(ctx)
	if err != nil {
		return obstacle.Obstacle{}, false, errors.Wrap(err, "scan failed")
	}
	points := scan.Measurements(o.Gate).Points()
	if len(points) == 0 {
		return obstacle.Obstacle{}, false, lidar.ErrNoReturns
	}
	pose, err := o.Localizer.CurrentPose(ctx)
	if err != nil {
		if errors.Is(err, motion.ErrNoPose) {
			return obstacle.Obstacle{}, false, nil
		}
		return obstacle.Obstacle{}, false, err
	}
	return o.Tracker.Update(points, pose)
}

// Run senses every period and sends accepted obstacles to out until ctx is done. Sends never
// block: an obstacle the reader has not taken yet is replaced by the newer one.
func (o *ObstacleSensor) Run(ctx context.Context, clk clock.Clock, period time.Duration, out chan obstacle.Obstacle) {
	ticker := clk.Ticker(period)
	defer ticker.Stop()
	for {
		obs, ok, err := o.SenseOnce(ctx)
		switch {
		case errors.Is(err, lidar.ErrNoReturns):
			// nothing in range
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			o.Logger.CWarnw(ctx, "obstacle sensing failed", "error", err)
		case ok:
			publishLatest(out, obs)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func publishLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

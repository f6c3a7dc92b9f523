// Package motion implements the closed-loop controller that turns a base toward a waypoint and
// drives it there using live pose feedback.
package motion

import (
	"context"
	"math"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/contournav/components/base"
	"go.viam.com/contournav/config"
	"go.viam.com/contournav/control"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/operation"
	"go.viam.com/contournav/spatialmath"
	"go.viam.com/contournav/utils"
)

// State is what the controller is doing.
type State int32

// The controller moves IDLE → ROTATING → DRIVING → IDLE for every waypoint that needs a turn, and
// IDLE → DRIVING → IDLE otherwise.
const (
	StateIdle State = iota
	StateRotating
	StateDriving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRotating:
		return "rotating"
	case StateDriving:
		return "driving"
	default:
		return "unknown"
	}
}

// Direction is a turning direction.
type Direction int

// Turning directions, signed like an angular velocity.
const (
	Clockwise        Direction = -1
	CounterClockwise Direction = 1
)

func (d Direction) String() string {
	if d == Clockwise {
		return "clockwise"
	}
	return "counter-clockwise"
}

// RotationDirection returns the shorter way from current to desired: the sign of their difference
// wrapped to (-π, π]. A zero difference counts as counter-clockwise.
func RotationDirection(current, desired float64) Direction {
	if spatialmath.HeadingDiff(desired, current) < 0 {
		return Clockwise
	}
	return CounterClockwise
}

// RotationDirectionByVectors makes the same decision by rotating the desired heading's unit vector
// by 2π - current, so that current lies on +x, and turning clockwise when it lands below the x axis.
func RotationDirectionByVectors(current, desired float64) Direction {
	ref := 2*math.Pi - current
	sinRef, cosRef := math.Sincos(ref)
	sinD, cosD := math.Sincos(desired)
	if cosD*sinRef+sinD*cosRef < 0 {
		return Clockwise
	}
	return CounterClockwise
}

// Controller drives a base toward one waypoint at a time. Only one of Rotate and DriveToGoal runs
// at once; starting one cancels the other.
type Controller struct {
	conf      config.Config
	base      base.Base
	localizer Localizer
	clk       clock.Clock
	logger    logging.Logger

	linear  control.Gain
	angular control.Gain

	opMgr operation.SingleOperationManager
	state atomic.Int32
}

// NewController returns a controller for b. A nil clk uses the wall clock.
func NewController(
	conf *config.Config,
	b base.Base,
	localizer Localizer,
	clk clock.Clock,
	logger logging.Logger,
) (*Controller, error) {
	if err := conf.Validate("motion"); err != nil {
		return nil, err
	}
	linear, err := control.NewGain("linear", conf.KLinear, conf.MaxLinear)
	if err != nil {
		return nil, err
	}
	angular, err := control.NewGain("angular", conf.KAngular, conf.MaxAngular)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Controller{
		conf:      *conf,
		base:      b,
		localizer: localizer,
		clk:       clk,
		logger:    logger,
		linear:    linear,
		angular:   angular,
	}, nil
}

// State returns what the controller is currently doing.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// currentPose returns the latest pose. ok is false while the localizer has nothing yet.
func (c *Controller) currentPose(ctx context.Context) (spatialmath.Pose, bool, error) {
	pose, err := c.localizer.CurrentPose(ctx)
	if err != nil {
		if errors.Is(err, ErrNoPose) {
			return spatialmath.Pose{}, false, nil
		}
		return spatialmath.Pose{}, false, errors.Wrap(err, "cannot read pose")
	}
	return pose, true, nil
}

// Rotate turns the base in place until it faces target within the angular tolerance, then
// commands zero velocity. It turns at a constant rate in the shorter direction.
func (c *Controller) Rotate(ctx context.Context, target spatialmath.Point2D) (err error) {
	c.state.Store(int32(StateRotating))
	defer c.state.Store(int32(StateIdle))
	stopSlow := utils.SlowLogger(ctx, c.clk, c.conf.SlowOpWarning, "rotation still running", "target", target.String(), c.logger)
	defer stopSlow()
	defer func() {
		err = multierr.Combine(err, c.stop(ctx))
	}()

	var desired float64
	haveDesired := false
	return c.opMgr.RunTicking(ctx, "rotate", c.clk, c.conf.RotateTick, func(ctx context.Context) (bool, error) {
		pose, ok, err := c.currentPose(ctx)
		if err != nil || !ok {
			return false, err
		}
		if !haveDesired {
			desired = pose.HeadingTo(target)
			haveDesired = true
			c.logger.CDebugf(ctx, "rotating from %.3f to %.3f rad", pose.Heading, desired)
		}
		if math.Abs(spatialmath.HeadingDiff(desired, pose.Heading)) < c.conf.AngularTolerance {
			return true, nil
		}
		dir := RotationDirection(pose.Heading, desired)
		cmd := base.VelocityCommand{Angular: float64(dir) * c.conf.RotateSpeed}
		return false, c.base.SetVelocity(ctx, cmd.Saturate(c.conf.MaxLinear, c.conf.MaxAngular))
	})
}

// DriveToGoal drives until the base is within the linear tolerance of steer. Heading is corrected
// toward steer while speed is proportional to the remaining distance to speed, so the base slows
// ahead of an upcoming stop. It always ends by commanding zero velocity.
func (c *Controller) DriveToGoal(ctx context.Context, steer, speed spatialmath.Point2D) (err error) {
	c.state.Store(int32(StateDriving))
	defer c.state.Store(int32(StateIdle))
	stopSlow := utils.SlowLogger(ctx, c.clk, c.conf.SlowOpWarning, "drive still running", "target", steer.String(), c.logger)
	defer stopSlow()
	defer func() {
		err = multierr.Combine(err, c.stop(ctx))
	}()

	return c.opMgr.RunTicking(ctx, "drive", c.clk, c.conf.DriveTick, func(ctx context.Context) (bool, error) {
		pose, ok, err := c.currentPose(ctx)
		if err != nil || !ok {
			return false, err
		}
		if pose.DistanceTo(steer) <= c.conf.LinearTolerance {
			return true, nil
		}
		return false, c.base.SetVelocity(ctx, c.DriveCommand(pose, steer, speed))
	})
}

// DriveCommand is the command DriveToGoal issues at pose.
func (c *Controller) DriveCommand(pose spatialmath.Pose, steer, speed spatialmath.Point2D) base.VelocityCommand {
	return base.VelocityCommand{
		Linear:  c.linear.Output(pose.DistanceTo(speed)),
		Angular: c.angular.Output(spatialmath.HeadingDiff(pose.HeadingTo(steer), pose.Heading)),
	}
}

// Stop cancels the running operation and stops the base.
func (c *Controller) Stop(ctx context.Context) error {
	c.opMgr.CancelRunning(ctx)
	return c.stop(ctx)
}

// stop sends an explicit zero command, even when ctx is already done.
func (c *Controller) stop(ctx context.Context) error {
	return c.base.SetVelocity(context.WithoutCancel(ctx), base.VelocityCommand{})
}

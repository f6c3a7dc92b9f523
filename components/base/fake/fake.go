// Package fake implements a fake base that integrates unicycle kinematics, so it can stand in for
// both the actuator and the localizer.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/contournav/components/base"
	"go.viam.com/contournav/spatialmath"
)

const (
	defaultWidthM  = 0.16
	defaultRadiusM = 0.175
)

// Base is a fake base that moves according to the commands it is given.
//
// With a positive step every command is applied for exactly step of simulated time when it
// arrives, which makes simulations independent of wall time. With a zero step the previous
// command is integrated over the time elapsed on the clock.
type Base struct {
	mu         sync.Mutex
	clk        clock.Clock
	step       time.Duration
	pose       spatialmath.Pose
	current    base.VelocityCommand
	lastUpdate time.Time
	consumers  int
	closed     bool
	watchers   []chan spatialmath.Pose

	// Commands holds every command received, in order.
	Commands   []base.VelocityCommand
	CloseCount int
}

// NewBase returns a fake base at start with one consumer.
func NewBase(start spatialmath.Pose, step time.Duration, clk clock.Clock) *Base {
	if clk == nil {
		clk = clock.New()
	}
	return &Base{
		clk:        clk,
		step:       step,
		pose:       spatialmath.NewPose(start.X, start.Y, start.Heading),
		lastUpdate: clk.Now(),
		consumers:  1,
	}
}

// SetConsumers sets how many consumers the base reports.
func (b *Base) SetConsumers(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers = n
}

// SetPose teleports the base.
func (b *Base) SetPose(pose spatialmath.Pose) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pose = spatialmath.NewPose(pose.X, pose.Y, pose.Heading)
	b.lastUpdate = b.clk.Now()
	b.publishInLock()
}

// WatchPose registers ch to receive the pose after every stepped command. Only the latest pose is
// kept: a pose the reader has not taken yet is replaced. ch must be buffered.
func (b *Base) WatchPose(ch chan spatialmath.Pose) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watchers = append(b.watchers, ch)
	b.publishInLock()
}

func (b *Base) publishInLock() {
	for _, ch := range b.watchers {
		select {
		case ch <- b.pose:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b.pose:
		default:
		}
	}
}

// SetVelocity applies cmd.
func (b *Base) SetVelocity(ctx context.Context, cmd base.VelocityCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("fake base is closed")
	}
	b.Commands = append(b.Commands, cmd)
	if b.step > 0 {
		b.pose = integrate(b.pose, cmd, b.step.Seconds())
		b.current = cmd
		b.publishInLock()
		return nil
	}
	b.advanceInLock()
	b.current = cmd
	return nil
}

// Consumers returns the configured consumer count.
func (b *Base) Consumers(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumers, nil
}

// Stop sets a zero velocity.
func (b *Base) Stop(ctx context.Context) error {
	return b.SetVelocity(ctx, base.VelocityCommand{})
}

// IsMoving reports whether the last command was non-zero.
func (b *Base) IsMoving(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.current.IsZero(), nil
}

// Properties returns the base's properties.
func (b *Base) Properties(ctx context.Context) (base.Properties, error) {
	return base.Properties{WidthMeters: defaultWidthM, RadiusMeters: defaultRadiusM}, nil
}

// Close stops accepting commands.
func (b *Base) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	b.closed = true
	b.current = base.VelocityCommand{}
	return nil
}

// CurrentPose returns the integrated pose.
func (b *Base) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.step <= 0 {
		b.advanceInLock()
	}
	return b.pose, nil
}

// LastCommand returns the most recent command, or a zero command if none was sent.
func (b *Base) LastCommand() base.VelocityCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Commands) == 0 {
		return base.VelocityCommand{}
	}
	return b.Commands[len(b.Commands)-1]
}

func (b *Base) advanceInLock() {
	now := b.clk.Now()
	b.pose = integrate(b.pose, b.current, now.Sub(b.lastUpdate).Seconds())
	b.lastUpdate = now
}

// integrate moves pose along the arc cmd traces in dt seconds.
func integrate(pose spatialmath.Pose, cmd base.VelocityCommand, dt float64) spatialmath.Pose {
	if dt <= 0 {
		return pose
	}
	dTheta := cmd.Angular * dt
	if math.Abs(dTheta) < 1e-12 {
		sin, cos := math.Sincos(pose.Heading)
		return spatialmath.NewPose(pose.X+cmd.Linear*dt*cos, pose.Y+cmd.Linear*dt*sin, pose.Heading)
	}
	r := cmd.Linear / cmd.Angular
	heading := pose.Heading + dTheta
	return spatialmath.NewPose(
		pose.X+r*(math.Sin(heading)-math.Sin(pose.Heading)),
		pose.Y-r*(math.Cos(heading)-math.Cos(pose.Heading)),
		heading,
	)
}

package fake

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/contournav/components/base"
	"go.viam.com/contournav/spatialmath"
)

func TestSteppedBase(t *testing.T) {
	ctx := context.Background()
	b := NewBase(spatialmath.NewPose(0, 0, 0), 100*time.Millisecond, nil)

	n, err := b.Consumers(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 1)

	for i := 0; i < 10; i++ {
		test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1}), test.ShouldBeNil)
	}
	pose, err := b.CurrentPose(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.X, test.ShouldAlmostEqual, 1)
	test.That(t, pose.Y, test.ShouldAlmostEqual, 0)

	moving, err := b.IsMoving(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moving, test.ShouldBeTrue)

	// a half turn in place
	for i := 0; i < 10; i++ {
		test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Angular: math.Pi}), test.ShouldBeNil)
	}
	pose, _ = b.CurrentPose(ctx)
	test.That(t, pose.X, test.ShouldAlmostEqual, 1)
	test.That(t, pose.Heading, test.ShouldAlmostEqual, math.Pi)

	// a zero command does not move it
	test.That(t, b.Stop(ctx), test.ShouldBeNil)
	after, _ := b.CurrentPose(ctx)
	test.That(t, after, test.ShouldResemble, pose)
	test.That(t, b.LastCommand(), test.ShouldResemble, base.VelocityCommand{})
	test.That(t, b.Commands, test.ShouldHaveLength, 21)

	moving, _ = b.IsMoving(ctx)
	test.That(t, moving, test.ShouldBeFalse)
}

func TestClockedBase(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	b := NewBase(spatialmath.NewPose(1, 1, math.Pi/2), 0, clk)

	test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 0.5}), test.ShouldBeNil)
	clk.Add(2 * time.Second)
	pose, err := b.CurrentPose(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.X, test.ShouldAlmostEqual, 1)
	test.That(t, pose.Y, test.ShouldAlmostEqual, 2)

	// a quarter circle of radius 1 turning left
	test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1, Angular: 1}), test.ShouldBeNil)
	quarterTurn := math.Pi / 2 * float64(time.Second)
	clk.Add(time.Duration(quarterTurn))
	pose, _ = b.CurrentPose(ctx)
	test.That(t, pose.X, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, pose.Y, test.ShouldAlmostEqual, 3, 1e-6)
	test.That(t, pose.Heading, test.ShouldAlmostEqual, math.Pi, 1e-6)

	b.SetPose(spatialmath.NewPose(0, 0, -math.Pi/2))
	pose, _ = b.CurrentPose(ctx)
	test.That(t, pose.Heading, test.ShouldAlmostEqual, 3*math.Pi/2)
}

func TestConsumersAndClose(t *testing.T) {
	ctx := context.Background()
	b := NewBase(spatialmath.Pose{}, time.Millisecond, nil)
	b.SetConsumers(0)
	n, err := b.Consumers(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 0)

	props, err := b.Properties(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, props.RadiusMeters, test.ShouldEqual, defaultRadiusM)

	test.That(t, b.Close(ctx), test.ShouldBeNil)
	test.That(t, b.CloseCount, test.ShouldEqual, 1)
	test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1}), test.ShouldNotBeNil)
}

func TestIntegrate(t *testing.T) {
	pose := integrate(spatialmath.NewPose(0, 0, 0), base.VelocityCommand{Linear: 1, Angular: math.Pi}, 1)
	// half circle of radius 1/π
	test.That(t, pose.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pose.Y, test.ShouldAlmostEqual, 2/math.Pi, 1e-9)
	test.That(t, pose.Heading, test.ShouldAlmostEqual, math.Pi, 1e-9)

	same := integrate(pose, base.VelocityCommand{Linear: 5}, 0)
	test.That(t, same, test.ShouldResemble, pose)
}

func TestWatchPose(t *testing.T) {
	ctx := context.Background()
	b := NewBase(spatialmath.NewPose(1, 0, 0), 100*time.Millisecond, nil)
	poses := make(chan spatialmath.Pose, 1)
	b.WatchPose(poses)
	test.That(t, <-poses, test.ShouldResemble, spatialmath.NewPose(1, 0, 0))

	// unread poses are replaced by the newest one
	test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1}), test.ShouldBeNil)
	test.That(t, b.SetVelocity(ctx, base.VelocityCommand{Linear: 1}), test.ShouldBeNil)
	latest := <-poses
	test.That(t, latest.X, test.ShouldAlmostEqual, 1.2)
	test.That(t, poses, test.ShouldHaveLength, 0)

	b.SetPose(spatialmath.NewPose(5, 5, 0))
	test.That(t, <-poses, test.ShouldResemble, spatialmath.NewPose(5, 5, 0))
}

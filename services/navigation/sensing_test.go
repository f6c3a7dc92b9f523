package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/contournav/components/base/fake"
	"go.viam.com/contournav/config"
	"go.viam.com/contournav/lidar"
	lidarfake "go.viam.com/contournav/lidar/fake"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/services/motion"
	"go.viam.com/contournav/spatialmath"
)

func newObstacleSensor(t *testing.T, b *fake.Base, localizer motion.Localizer) (*ObstacleSensor, *lidarfake.Lidar) {
	t.Helper()
	logger := logging.NewTestLogger(t)
	conf := config.Default()
	sensor := lidarfake.NewLidar(b, conf.SensorOffset.Point())
	return &ObstacleSensor{
		Sensor:    sensor,
		Gate:      lidar.RangeGate{Min: conf.ScanMinRange, Max: conf.ScanMaxRange},
		Tracker:   obstacle.NewTracker(obstacle.NewEstimator(conf, logger), logger),
		Localizer: localizer,
		Logger:    logger,
	}, sensor
}

func TestSenseOnce(t *testing.T) {
	ctx := context.Background()
	b := fake.NewBase(spatialmath.NewPose(0.5, 0, 0), time.Millisecond, nil)
	sensing, sensor := newObstacleSensor(t, b, b)

	// nothing in range
	_, ok, err := sensing.SenseOnce(ctx)
	test.That(t, errors.Is(err, lidar.ErrNoReturns), test.ShouldBeTrue)
	test.That(t, ok, test.ShouldBeFalse)

	truth := obstacle.Obstacle{Center: spatialmath.NewPoint2D(1.5, 0), Radius: 0.3}
	sensor.SetObstacle(&truth)
	obs, ok, err := sensing.SenseOnce(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, spatialmath.Distance(obs.Center, truth.Center), test.ShouldBeLessThan, 1e-6)
	test.That(t, obs.Radius, test.ShouldAlmostEqual, 0.3, 1e-6)

	// the obstacle is out of the range gate from far away, the tracker keeps the old estimate
	b.SetPose(spatialmath.NewPose(-5, 0, 0))
	_, ok, err = sensing.SenseOnce(ctx)
	test.That(t, errors.Is(err, lidar.ErrNoReturns), test.ShouldBeTrue)
	test.That(t, ok, test.ShouldBeFalse)
	current, held := sensing.Tracker.Current()
	test.That(t, held, test.ShouldBeTrue)
	test.That(t, current, test.ShouldResemble, obs)
}

func TestSenseWaitsForPose(t *testing.T) {
	b := fake.NewBase(spatialmath.NewPose(0.5, 0, 0), time.Millisecond, nil)
	sensing, sensor := newObstacleSensor(t, b, &motion.PoseSnapshot{})
	sensor.SetObstacle(&obstacle.Obstacle{Center: spatialmath.NewPoint2D(1.5, 0), Radius: 0.3})
	_, ok, err := sensing.SenseOnce(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestObstacleSensorRun(t *testing.T) {
	b := fake.NewBase(spatialmath.NewPose(0.5, 0, 0), time.Millisecond, nil)
	sensing, sensor := newObstacleSensor(t, b, b)
	sensor.SetObstacle(&obstacle.Obstacle{Center: spatialmath.NewPoint2D(1.5, 0), Radius: 0.3})

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan obstacle.Obstacle, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sensing.Run(ctx, clock.New(), time.Millisecond, out)
	}()
	obs := <-out
	test.That(t, obs.Radius, test.ShouldAlmostEqual, 0.3, 1e-6)
	cancel()
	<-done
	test.That(t, sensor.ScanCount, test.ShouldBeGreaterThanOrEqualTo, 1)
}

func TestObstacleSensorRunEmptyGateIsQuiet(t *testing.T) {
	b := fake.NewBase(spatialmath.NewPose(0.5, 0, 0), time.Millisecond, nil)
	sensing, sensor := newObstacleSensor(t, b, b)
	logger, logs := logging.NewObservedTestLogger(t)
	sensing.Logger = logger

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan obstacle.Obstacle, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sensing.Run(ctx, clock.New(), time.Millisecond, out)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done
	test.That(t, sensor.ScanCount, test.ShouldBeGreaterThanOrEqualTo, 2)
	test.That(t, out, test.ShouldHaveLength, 0)
	test.That(t, logs.FilterMessage("obstacle sensing failed").Len(), test.ShouldEqual, 0)
}

func TestPublishLatest(t *testing.T) {
	ch := make(chan int, 1)
	publishLatest(ch, 1)
	publishLatest(ch, 2)
	test.That(t, <-ch, test.ShouldEqual, 2)
	test.That(t, ch, test.ShouldHaveLength, 0)
}

// Package navigation contains the supervisor that runs a mission: it keeps the path deformed
// around the latest obstacle and sequences the motion controller leg by leg.
package navigation

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"go.viam.com/contournav/components/base"
	"go.viam.com/contournav/config"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/motionplan"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/services/motion"
	"go.viam.com/contournav/spatialmath"
	"go.viam.com/contournav/utils"
)

// ErrNoConsumers is returned when the base reports nobody is listening for velocity commands.
var ErrNoConsumers = errors.New("connectivity error: base has no velocity command consumers")

// Status describes where a mission is.
type Status uint8

// The set of mission statuses.
const (
	StatusPending = Status(iota)
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Feeds are the asynchronous producers a mission listens to. Either may be nil when the caller
// updates the MissionContext directly.
type Feeds struct {
	Poses     <-chan spatialmath.Pose
	Obstacles <-chan obstacle.Obstacle
}

// ProgressFunc is called after every completed leg with the fraction of waypoints consumed.
type ProgressFunc func(progress float64)

// Supervisor runs one mission.
type Supervisor struct {
	id         uuid.UUID
	conf       config.Config
	mission    *MissionContext
	base       base.Base
	controller *motion.Controller
	logger     logging.Logger
	workers    utils.StoppableWorkers

	progress   atomic.Float64
	status     atomic.Uint32
	onProgress ProgressFunc
}

// NewSupervisor returns a supervisor for mission that drives b. It starts consuming feeds right
// away; Close stops it. A nil clk uses the wall clock.
func NewSupervisor(
	conf *config.Config,
	mission *MissionContext,
	b base.Base,
	feeds Feeds,
	clk clock.Clock,
	logger logging.Logger,
) (*Supervisor, error) {
	id := uuid.New()
	logger = logger.WithFields("mission", id.String())
	controller, err := motion.NewController(conf, b, mission.Localizer(), clk, logger.Sublogger("motion"))
	if err != nil {
		return nil, err
	}
	s := &Supervisor{
		id:         id,
		conf:       *conf,
		mission:    mission,
		base:       b,
		controller: controller,
		logger:     logger,
		workers:    utils.NewStoppableWorkers(),
	}
	if feeds.Poses != nil {
		s.workers.AddWorkers(func(ctx context.Context) {
			consume(ctx, feeds.Poses, mission.UpdatePose)
		})
	}
	if feeds.Obstacles != nil {
		s.workers.AddWorkers(func(ctx context.Context) {
			consume(ctx, feeds.Obstacles, mission.UpdateObstacle)
		})
	}
	return s, nil
}

func consume[T any](ctx context.Context, ch <-chan T, store func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			store(v)
		}
	}
}

// OnProgress registers f to be called after every leg.
func (s *Supervisor) OnProgress(f ProgressFunc) {
	s.onProgress = f
}

// ID identifies the mission in logs.
func (s *Supervisor) ID() uuid.UUID {
	return s.id
}

// Progress returns the fraction of waypoints consumed, in [0, 1].
func (s *Supervisor) Progress() float64 {
	return s.progress.Load()
}

// Status returns where the mission is.
func (s *Supervisor) Status() Status {
	return Status(s.status.Load())
}

// Controller returns the motion controller the supervisor drives.
func (s *Supervisor) Controller() *motion.Controller {
	return s.controller
}

// Visualization returns the latest obstacle and path.
func (s *Supervisor) Visualization() motionplan.Visualization {
	return s.mission.Visualization()
}

// Run drives the whole path. Before each leg it checks the base still has consumers and
// re-deforms the rest of the path around the latest obstacle. It turns in place when departing a
// stop waypoint, and on the first leg, then drives steering toward the leg's waypoint while taking
// speed from the next stop.
func (s *Supervisor) Run(ctx context.Context) (err error) {
	s.status.Store(uint32(StatusRunning))
	defer func() {
		if err != nil {
			s.status.Store(uint32(StatusFailed))
			s.logger.CWarnw(ctx, "mission failed", "error", err, "progress", s.Progress())
			return
		}
		s.status.Store(uint32(StatusSucceeded))
		s.logger.CInfof(ctx, "mission complete")
	}()

	total := s.mission.Len()
	s.logger.CInfof(ctx, "starting mission over %d waypoints", total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.checkConnectivity(ctx); err != nil {
			return err
		}

		var departingStop bool
		var steer, speed spatialmath.Point2D
		s.mission.withPath(func(path motionplan.Path) {
			s.deformRemaining(ctx, path, i)
			departingStop = i == 0 || path[i-1].Stop
			steer = path[i].Point
			speed = path[path.NextStop(i)].Point
		})

		if departingStop {
			if err := s.controller.Rotate(ctx, steer); err != nil {
				return errors.Wrapf(err, "rotating toward waypoint %d", i)
			}
		}
		if err := s.controller.DriveToGoal(ctx, steer, speed); err != nil {
			return errors.Wrapf(err, "driving to waypoint %d", i)
		}

		progress := float64(i+1) / float64(total)
		s.progress.Store(progress)
		s.logger.CDebugf(ctx, "reached waypoint %d/%d at %v, progress %.0f%%", i+1, total, steer, progress*100)
		if s.onProgress != nil {
			s.onProgress(progress)
		}
	}
	return nil
}

func (s *Supervisor) checkConnectivity(ctx context.Context) error {
	n, err := s.base.Consumers(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot query base consumers")
	}
	if n == 0 {
		return ErrNoConsumers
	}
	return nil
}

// deformRemaining deforms path[i:] around the latest obstacle, if there is one.
func (s *Supervisor) deformRemaining(ctx context.Context, path motionplan.Path, i int) {
	obs, ok := s.mission.Obstacle()
	if !ok {
		return
	}
	rest, err := path.Remaining(i)
	if err != nil {
		s.logger.CWarnw(ctx, "cannot deform path", "error", err)
		return
	}
	result := motionplan.Deform(rest, obs, obs.EffectiveRadius(s.conf.RobotRadius, s.conf.ContourMargin), s.logger)
	if len(result.Runs) > 0 {
		s.logger.CInfof(ctx, "deformed %d intrusion run(s) around %v from waypoint %d", len(result.Runs), obs, i)
	}
}

// Close stops the feeds and the base.
func (s *Supervisor) Close(ctx context.Context) error {
	s.workers.Stop()
	return multierr.Combine(
		s.controller.Stop(ctx),
		s.base.Stop(ctx),
	)
}

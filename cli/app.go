// Package cli contains the contournav command line application.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/contournav/components/base/fake"
	"go.viam.com/contournav/config"
	"go.viam.com/contournav/lidar"
	lidarfake "go.viam.com/contournav/lidar/fake"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/motionplan"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/services/navigation"
	"go.viam.com/contournav/spatialmath"
)

const (
	// Flags.
	flagConfig         = "config"
	flagDebug          = "debug"
	flagPath           = "path"
	flagCols           = "cols"
	flagRows           = "rows"
	flagSpacing        = "spacing"
	flagOriginX        = "origin-x"
	flagOriginY        = "origin-y"
	flagObstacleX      = "obstacle-x"
	flagObstacleY      = "obstacle-y"
	flagObstacleRadius = "obstacle-radius"
	flagStep           = "step"
	flagTable          = "table"
)

// NewApp returns the contournav application, writing results to out.
func NewApp(out io.Writer) *cli.App {
	pathFlags := []cli.Flag{
		&cli.PathFlag{
			Name:  flagPath,
			Usage: "read waypoints from `FILE`, a JSON list of {\"position\": [x, y], \"stop\": bool}",
		},
		&cli.IntFlag{Name: flagCols, Value: 10, Usage: "waypoints per row of the generated sweep"},
		&cli.IntFlag{Name: flagRows, Value: 10, Usage: "rows of the generated sweep"},
		&cli.Float64Flag{Name: flagSpacing, Value: 1, Usage: "distance between sweep waypoints in meters"},
		&cli.Float64Flag{Name: flagOriginX, Value: 1, Usage: "x of the first sweep waypoint"},
		&cli.Float64Flag{Name: flagOriginY, Value: 1, Usage: "y of the first sweep waypoint"},
		&cli.Float64Flag{Name: flagObstacleX, Usage: "obstacle center x"},
		&cli.Float64Flag{Name: flagObstacleY, Usage: "obstacle center y"},
		&cli.Float64Flag{Name: flagObstacleRadius, Usage: "obstacle radius, 0 for no obstacle"},
	}

	return &cli.App{
		Name:      "contournav",
		Usage:     "follow a waypoint path around a circular obstacle",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "log mission progress at debug level regardless of log_level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "simulate",
				Usage:  "run a mission against a simulated base and range sensor",
				Flags:  append(pathFlags, &cli.DurationFlag{Name: flagStep, Value: 10 * time.Millisecond, Usage: "simulated time per velocity command"}),
				Action: simulateAction,
			},
			{
				Name:   "deform",
				Usage:  "deform a path around an obstacle and print it",
				Flags:  append(pathFlags, &cli.BoolFlag{Name: flagTable, Usage: "print a waypoint table instead of JSON"}),
				Action: deformAction,
			},
			{
				Name:  "defaults",
				Usage: "print the default configuration",
				Action: func(c *cli.Context) error {
					return printJSON(c.App.Writer, config.Default())
				},
			},
		},
	}
}

func setup(c *cli.Context) (*config.Config, logging.Logger, error) {
	conf, err := config.Read(c.Path(flagConfig))
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewLogger("contournav")
	if conf.LogLevel != "" {
		level, err := logging.LevelFromString(conf.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		logger.SetLevel(level)
	}
	return conf, logger, nil
}

func loadPath(c *cli.Context) (motionplan.Path, error) {
	if file := c.Path(flagPath); file != "" {
		//nolint:gosec
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var markers []motionplan.Marker
		if err := json.Unmarshal(data, &markers); err != nil {
			return nil, errors.Wrapf(err, "cannot parse path %q", file)
		}
		return motionplan.PathFromMarkers(markers), nil
	}
	return motionplan.Serpentine(
		c.Int(flagCols), c.Int(flagRows), c.Float64(flagSpacing),
		spatialmath.NewPoint2D(c.Float64(flagOriginX), c.Float64(flagOriginY)),
	)
}

// obstacleFlag returns the obstacle given on the command line, or nil.
func obstacleFlag(c *cli.Context) (*obstacle.Obstacle, error) {
	radius := c.Float64(flagObstacleRadius)
	if radius == 0 {
		return nil, nil
	}
	obs := &obstacle.Obstacle{
		Center: spatialmath.NewPoint2D(c.Float64(flagObstacleX), c.Float64(flagObstacleY)),
		Radius: radius,
	}
	if !obs.IsValid() {
		return nil, errors.Errorf("invalid obstacle %v", obs)
	}
	return obs, nil
}

func deformAction(c *cli.Context) error {
	conf, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()
	path, err := loadPath(c)
	if err != nil {
		return err
	}
	obs, err := obstacleFlag(c)
	if err != nil {
		return err
	}
	if obs == nil {
		return errors.New("deform needs an obstacle, set --obstacle-radius")
	}
	result := motionplan.Deform(path, *obs, obs.EffectiveRadius(conf.RobotRadius, conf.ContourMargin), logger)
	if c.Bool(flagTable) {
		_, err := fmt.Fprintln(c.App.Writer, path.Table())
		return err
	}
	return printJSON(c.App.Writer, struct {
		motionplan.Visualization
		Runs    []motionplan.Run `json:"runs"`
		Clamped int              `json:"clamped"`
	}{motionplan.NewVisualization(path, obs), result.Runs, result.Clamped})
}

func simulateAction(c *cli.Context) (err error) {
	conf, logger, err := setup(c)
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()
	path, err := loadPath(c)
	if err != nil {
		return err
	}
	obs, err := obstacleFlag(c)
	if err != nil {
		return err
	}

	var start spatialmath.Pose
	if len(path) > 0 {
		start = spatialmath.NewPose(path[0].Point.X, path[0].Point.Y, 0)
	}
	b := fake.NewBase(start, c.Duration(flagStep), nil)
	poses := make(chan spatialmath.Pose, 1)
	b.WatchPose(poses)
	obstacles := make(chan obstacle.Obstacle, 1)

	mission := navigation.NewMissionContext(path)
	sup, err := navigation.NewSupervisor(conf, mission, b, navigation.Feeds{Poses: poses, Obstacles: obstacles}, nil, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sup.Close(context.Background()))
	}()
	sup.OnProgress(func(p float64) {
		logger.Infow("progress", "mission", sup.ID().String(), "done", p)
	})

	sensor := lidarfake.NewLidar(b, conf.SensorOffset.Point())
	sensor.SetObstacle(obs)
	estimator := obstacle.NewEstimator(conf, logger.Sublogger("obstacle"))
	sensing := &navigation.ObstacleSensor{
		Sensor:    sensor,
		Gate:      lidar.RangeGate{Min: conf.ScanMinRange, Max: conf.ScanMaxRange},
		Tracker:   obstacle.NewTracker(estimator, logger.Sublogger("obstacle")),
		Localizer: mission.Localizer(),
		Logger:    logger.Sublogger("sensing"),
	}
	ctx := c.Context
	if c.Bool(flagDebug) {
		ctx = logging.EnableDebugMode(ctx, "simulate")
	}
	group, groupCtx := errgroup.WithContext(ctx)
	missionCtx, missionDone := context.WithCancel(groupCtx)
	group.Go(func() error {
		sensing.Run(missionCtx, clock.New(), conf.MissionTick, obstacles)
		return nil
	})
	group.Go(func() error {
		defer missionDone()
		return sup.Run(missionCtx)
	})
	if err := group.Wait(); err != nil {
		return err
	}
	return printJSON(c.App.Writer, sup.Visualization())
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package fake implements a simulated planar range sensor that sees a single circular obstacle.
package fake

import (
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/contournav/lidar"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/spatialmath"
)

const (
	defaultBeams    = 360
	defaultMaxRange = 3.5
)

// PoseSource supplies the pose of the robot carrying the sensor.
type PoseSource interface {
	CurrentPose(ctx context.Context) (spatialmath.Pose, error)
}

// Lidar ray casts every beam against the current obstacle.
type Lidar struct {
	mu       sync.Mutex
	source   PoseSource
	offset   spatialmath.Point2D
	obstacle *obstacle.Obstacle
	noise    func() float64

	Beams    int
	MaxRange float64
	// ScanCount is the number of scans taken.
	ScanCount int
}

// NewLidar returns a full-circle sensor. Sensor frame points relate to the robot frame by
// robot = sensor - offset, matching how the obstacle estimator reads them back.
func NewLidar(source PoseSource, offset spatialmath.Point2D) *Lidar {
	return &Lidar{
		source:   source,
		offset:   offset,
		Beams:    defaultBeams,
		MaxRange: defaultMaxRange,
	}
}

// SetObstacle replaces the obstacle the sensor sees. nil clears it.
func (l *Lidar) SetObstacle(obs *obstacle.Obstacle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if obs == nil {
		l.obstacle = nil
		return
	}
	cp := *obs
	l.obstacle = &cp
}

// SetNoise adds noise() to every return that hits.
func (l *Lidar) SetNoise(noise func() float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.noise = noise
}

// Scan returns one sweep from -π to π.
func (l *Lidar) Scan(ctx context.Context) (lidar.Scan, error) {
	pose, err := l.source.CurrentPose(ctx)
	if err != nil {
		return lidar.Scan{}, errors.Wrap(err, "fake lidar cannot locate itself")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ScanCount++
	if l.Beams <= 0 {
		return lidar.Scan{}, errors.Errorf("fake lidar needs a positive beam count, got %d", l.Beams)
	}

	scan := lidar.Scan{
		AngleMin:       -math.Pi,
		AngleIncrement: 2 * math.Pi / float64(l.Beams),
		Ranges:         make([]float64, l.Beams),
	}
	origin := pose.Transform(l.offset.Mul(-1))
	for i := range scan.Ranges {
		scan.Ranges[i] = math.NaN()
		if l.obstacle == nil {
			continue
		}
		heading := pose.Heading + scan.AngleAt(i)
		dir := spatialmath.NewPoint2D(math.Cos(heading), math.Sin(heading))
		r, ok := castRay(origin, dir, l.obstacle.Center, l.obstacle.Radius)
		if !ok || r > l.MaxRange {
			continue
		}
		if l.noise != nil {
			r += l.noise()
		}
		scan.Ranges[i] = r
	}
	return scan, nil
}

// castRay returns the distance along the unit vector dir from origin to the nearest
// intersection with the circle.
func castRay(origin, dir, center spatialmath.Point2D, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := dir.Dot(oc)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := -b - sq; t > 0 {
		return t, true
	}
	if t := -b + sq; t > 0 {
		return t, true
	}
	return 0, false
}

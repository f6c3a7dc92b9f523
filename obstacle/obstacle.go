// Package obstacle estimates a single circular obstacle from range sensor boundary points and
// expresses it in the world frame.
package obstacle

import (
	"fmt"
	"math"

	"go.viam.com/contournav/spatialmath"
)

// An Obstacle is a circle in the world frame. Each new estimate replaces the previous one.
type Obstacle struct {
	Center spatialmath.Point2D `json:"center"`
	Radius float64             `json:"radius"`
}

// EffectiveRadius is the exclusion radius used for intrusion tests: the obstacle radius grown by
// the robot's own radius and a safety margin.
func (o Obstacle) EffectiveRadius(robotRadius, margin float64) float64 {
	return o.Radius + robotRadius + margin
}

// IsValid reports whether the obstacle has a finite center and a strictly positive finite radius.
func (o Obstacle) IsValid() bool {
	return spatialmath.IsFinite(o.Center) && o.Radius > 0 && !math.IsInf(o.Radius, 1)
}

func (o Obstacle) String() string {
	return fmt.Sprintf("circle at (%.3f, %.3f) r=%.3f", o.Center.X, o.Center.Y, o.Radius)
}

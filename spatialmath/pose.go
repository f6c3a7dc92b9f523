// Package spatialmath defines the planar geometry shared by the estimator, the
// path deformer and the motion controller.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Point2D is a point on the ground plane, in meters.
type Point2D = r2.Point

// NewPoint2D returns the point (x, y).
func NewPoint2D(x, y float64) Point2D {
	return r2.Point{X: x, Y: y}
}

// Pose is a planar pose. Heading is kept in [0, 2π).
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// NewPose returns a pose with its heading wrapped to [0, 2π).
func NewPose(x, y, heading float64) Pose {
	return Pose{X: x, Y: y, Heading: WrapHeading(heading)}
}

// Point returns the position of the pose.
func (p Pose) Point() Point2D {
	return r2.Point{X: p.X, Y: p.Y}
}

// DistanceTo returns the euclidean distance from the pose position to target.
func (p Pose) DistanceTo(target Point2D) float64 {
	return Distance(p.Point(), target)
}

// HeadingTo returns the heading in [0, 2π) the pose would need to face target.
func (p Pose) HeadingTo(target Point2D) float64 {
	return HeadingTo(p.Point(), target)
}

// Transform maps a point expressed in the frame of p into the frame p is expressed in.
func (p Pose) Transform(local Point2D) Point2D {
	sin, cos := math.Sincos(p.Heading)
	return r2.Point{
		X: p.X + local.X*cos - local.Y*sin,
		Y: p.Y + local.X*sin + local.Y*cos,
	}
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3frad)", p.X, p.Y, p.Heading)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point2D) float64 {
	return a.Sub(b).Norm()
}

// HeadingTo returns the heading in [0, 2π) of the vector from "from" to "to".
func HeadingTo(from, to Point2D) float64 {
	return WrapHeading(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// IsFinite reports whether both coordinates of p are finite.
func IsFinite(p Point2D) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

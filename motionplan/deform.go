package motionplan

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/spatialmath"
)

// Tolerance is how far inside the effective radius a waypoint must be to count as intruding.
// Waypoints already projected onto the boundary are therefore left alone.
const Tolerance = 1e-9

// ErrInvalidGeometry marks a boundary projection whose asin argument fell outside [-1, 1].
var ErrInvalidGeometry = errors.New("invalid geometry: projection argument out of asin domain")

// A Run is a maximal stretch of intruding waypoints, Start and End inclusive.
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DeformResult describes what a Deform call changed.
type DeformResult struct {
	Runs []Run
	// Clamped counts projections whose asin argument had to be clamped.
	Clamped int
}

// Intrudes reports whether p lies inside the effective radius around center.
func Intrudes(p, center spatialmath.Point2D, effectiveRadius float64) bool {
	return spatialmath.Distance(p, center) < effectiveRadius-Tolerance
}

// ProjectToBoundary moves p onto the circle of radius effectiveRadius around center, on the same
// side of center in x that p is on. y is kept. The returned bool is true when the asin argument
// was outside [-1, 1] and had to be clamped, in which case y is moved to the nearest pole.
//
// The side choice only looks at x, which assumes the path runs roughly along the x axis.
func ProjectToBoundary(p, center spatialmath.Point2D, effectiveRadius float64) (spatialmath.Point2D, bool) {
	arg := (center.Y - p.Y) / effectiveRadius
	clamped := false
	if arg > 1 || arg < -1 || math.IsNaN(arg) {
		clamped = true
		switch {
		case arg > 1:
			arg = 1
		case arg < -1:
			arg = -1
		default:
			arg = 0
		}
	}
	angle := math.Asin(arg)
	dx := effectiveRadius * math.Cos(angle)
	x := center.X - dx
	if p.X > center.X {
		x = center.X + dx
	}
	y := p.Y
	if clamped {
		y = center.Y - effectiveRadius*arg
	}
	return spatialmath.NewPoint2D(x, y), clamped
}

// Deform rewrites path in place so that no waypoint lies inside effectiveRadius of obs. For each
// intrusion run the waypoint just before it and the one just after it become stops, and every
// waypoint of the run is projected onto the boundary. Running it again with the same obstacle
// changes nothing.
func Deform(path Path, obs obstacle.Obstacle, effectiveRadius float64, logger logging.Logger) DeformResult {
	var result DeformResult
	for i := 0; i < len(path); {
		if !Intrudes(path[i].Point, obs.Center, effectiveRadius) {
			i++
			continue
		}
		run := Run{Start: i, End: i}
		for run.End+1 < len(path) && Intrudes(path[run.End+1].Point, obs.Center, effectiveRadius) {
			run.End++
		}

		if run.Start > 0 {
			path[run.Start-1].Stop = true
		}
		if run.End+1 < len(path) {
			path[run.End+1].Stop = true
		}
		for j := run.Start; j <= run.End; j++ {
			if projectWaypoint(path, j, obs, effectiveRadius, logger) {
				result.Clamped++
			}
		}

		result.Runs = append(result.Runs, run)
		i = run.End + 1
	}
	return result
}

// projectWaypoint moves path[j] onto the boundary and reports whether the projection was clamped.
func projectWaypoint(path Path, j int, obs obstacle.Obstacle, effectiveRadius float64, logger logging.Logger) bool {
	projected, clamped := ProjectToBoundary(path[j].Point, obs.Center, effectiveRadius)
	if clamped && logger != nil {
		logger.Warnw("clamped boundary projection", "error", ErrInvalidGeometry,
			"waypoint", j, "point", path[j].String(), "obstacle", obs.String())
	}
	path[j].Point = projected
	return clamped
}

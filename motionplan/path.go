// Package motionplan holds the waypoint path a mission follows and the deformer that routes it
// around an obstacle.
package motionplan

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/contournav/spatialmath"
)

// A Waypoint is a path point. Stop marks a maneuver boundary: the robot turns in place before
// leaving it and slows down while approaching it.
type Waypoint struct {
	Point spatialmath.Point2D `json:"position"`
	Stop  bool                `json:"stop"`
}

// NewWaypoint returns a waypoint at (x, y).
func NewWaypoint(x, y float64, stop bool) Waypoint {
	return Waypoint{Point: spatialmath.NewPoint2D(x, y), Stop: stop}
}

func (w Waypoint) String() string {
	if w.Stop {
		return fmt.Sprintf("(%.3f, %.3f)!", w.Point.X, w.Point.Y)
	}
	return fmt.Sprintf("(%.3f, %.3f)", w.Point.X, w.Point.Y)
}

// A Path is an ordered waypoint sequence. Deformation changes coordinates and flags in place,
// never count or order.
type Path []Waypoint

// NewPath returns a path through points with only the last one flagged as a stop.
func NewPath(points ...spatialmath.Point2D) Path {
	path := lo.Map(points, func(p spatialmath.Point2D, _ int) Waypoint {
		return Waypoint{Point: p}
	})
	if len(path) > 0 {
		path[len(path)-1].Stop = true
	}
	return path
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Points returns the waypoint positions.
func (p Path) Points() []spatialmath.Point2D {
	return lo.Map(p, func(w Waypoint, _ int) spatialmath.Point2D {
		return w.Point
	})
}

// StopIndices returns the indices of every stop waypoint.
func (p Path) StopIndices() []int {
	return lo.FilterMap(p, func(w Waypoint, i int) (int, bool) {
		return i, w.Stop
	})
}

// NextStop returns the index of the first stop waypoint at or after from, or the last index when
// there is none.
func (p Path) NextStop(from int) int {
	for i := from; i < len(p); i++ {
		if p[i].Stop {
			return i
		}
	}
	return len(p) - 1
}

// Remaining returns the suffix of p starting at waypointIndex. It shares memory with p so that
// deforming it deforms p.
func (p Path) Remaining(waypointIndex int) (Path, error) {
	if waypointIndex < 0 {
		return nil, errors.New("could not access path with negative waypoint index")
	}
	if waypointIndex > len(p) {
		return nil, errors.Errorf("could not access path index %d, must be at most %d", waypointIndex, len(p))
	}
	return p[waypointIndex:], nil
}

// Table renders the path as a table with one row per waypoint.
func (p Path) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "X", "Y", "Stop"})
	for i, w := range p {
		stop := ""
		if w.Stop {
			stop = "yes"
		}
		t.AppendRow(table.Row{i, fmt.Sprintf("%.3f", w.Point.X), fmt.Sprintf("%.3f", w.Point.Y), stop})
	}
	return t.Render()
}

package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/contournav/spatialmath"
)

// Serpentine returns a boustrophedon sweep of rows×cols waypoints spaced apart, starting at origin.
// Rows run along x, alternating direction, and advance along +y. The last waypoint of every row is
// a stop, since the robot turns there.
func Serpentine(cols, rows int, spacing float64, origin spatialmath.Point2D) (Path, error) {
	if cols < 1 || rows < 1 {
		return nil, errors.Errorf("serpentine needs at least one row and column, got %dx%d", cols, rows)
	}
	if !(spacing > 0) {
		return nil, errors.Errorf("serpentine spacing must be positive, got %v", spacing)
	}
	path := make(Path, 0, cols*rows)
	for r := 0; r < rows; r++ {
		y := origin.Y + float64(r)*spacing
		for c := 0; c < cols; c++ {
			col := c
			if r%2 == 1 {
				col = cols - 1 - c
			}
			path = append(path, Waypoint{
				Point: spatialmath.NewPoint2D(origin.X+float64(col)*spacing, y),
				Stop:  c == cols-1,
			})
		}
	}
	return path, nil
}

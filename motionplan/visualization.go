package motionplan

import (
	"github.com/samber/lo"

	"go.viam.com/contournav/obstacle"
)

// A Marker is a waypoint as handed to a renderer.
type Marker struct {
	Position [2]float64 `json:"position"`
	Stop     bool       `json:"stop"`
}

// Visualization is the data a renderer needs to draw the current mission. Rendering is external.
type Visualization struct {
	Obstacle  *obstacle.Obstacle `json:"obstacle,omitempty"`
	Waypoints []Marker           `json:"waypoints"`
}

// NewVisualization snapshots path and the obstacle, if any.
func NewVisualization(path Path, obs *obstacle.Obstacle) Visualization {
	vis := Visualization{
		Waypoints: lo.Map(path, func(w Waypoint, _ int) Marker {
			return Marker{Position: [2]float64{w.Point.X, w.Point.Y}, Stop: w.Stop}
		}),
	}
	if obs != nil {
		cp := *obs
		vis.Obstacle = &cp
	}
	return vis
}

// PathFromMarkers is the inverse of the waypoint half of NewVisualization.
func PathFromMarkers(markers []Marker) Path {
	return lo.Map(markers, func(m Marker, _ int) Waypoint {
		return NewWaypoint(m.Position[0], m.Position[1], m.Stop)
	})
}

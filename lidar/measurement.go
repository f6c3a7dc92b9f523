// Package lidar adapts planar range scans into cartesian boundary points in the sensor frame.
package lidar

import (
	"math"

	"go.viam.com/contournav/spatialmath"
)

// Measurements is a set of measurements in beam order.
type Measurements []*Measurement

// Points returns the cartesian coordinates of every measurement, in order.
func (ms Measurements) Points() []spatialmath.Point2D {
	points := make([]spatialmath.Point2D, 0, len(ms))
	for _, m := range ms {
		points = append(points, m.Point())
	}
	return points
}

// A Measurement is a single range return.
type Measurement struct {
	angle    float64
	distance float64
	x        float64
	y        float64
}

// NewMeasurement returns a measurement at the given angle (radians, counter-clockwise from the
// sensor's +x axis) and distance (meters).
func NewMeasurement(angle, distance float64) *Measurement {
	return &Measurement{
		angle:    angle,
		distance: distance,
		x:        distance * math.Cos(angle),
		y:        distance * math.Sin(angle),
	}
}

// Angle is in radians.
func (m *Measurement) Angle() float64 {
	return m.angle
}

// AngleDeg is Angle in degrees.
func (m *Measurement) AngleDeg() float64 {
	return spatialmath.RadToDeg(m.angle)
}

func (m *Measurement) Distance() float64 {
	return m.distance
}

func (m *Measurement) Coords() (float64, float64) {
	return m.x, m.y
}

// Point returns the measurement as a point in the sensor frame.
func (m *Measurement) Point() spatialmath.Point2D {
	return spatialmath.NewPoint2D(m.x, m.y)
}

package lidar

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// A Scan is one sweep of a planar range sensor. Ranges[i] was measured at AngleMin + i*AngleIncrement.
// NaN ranges are returns the sensor could not resolve.
type Scan struct {
	AngleMin       float64   `json:"angle_min"`
	AngleIncrement float64   `json:"angle_increment"`
	Ranges         []float64 `json:"ranges"`
}

// AngleAt returns the beam angle of index i.
func (s Scan) AngleAt(i int) float64 {
	return s.AngleMin + float64(i)*s.AngleIncrement
}

// A RangeGate keeps only returns strictly between Min and Max.
type RangeGate struct {
	Min float64
	Max float64
}

// Contains reports whether r passes the gate. NaN never does.
func (g RangeGate) Contains(r float64) bool {
	return g.Min < r && r < g.Max
}

// Measurements converts the returns that pass the gate, preserving beam order.
func (s Scan) Measurements(gate RangeGate) Measurements {
	ms := make(Measurements, 0, len(s.Ranges))
	for i, r := range s.Ranges {
		if math.IsNaN(r) || !gate.Contains(r) {
			continue
		}
		ms = append(ms, NewMeasurement(s.AngleAt(i), r))
	}
	return ms
}

// A Sensor produces scans.
type Sensor interface {
	Scan(ctx context.Context) (Scan, error)
}

// ErrNoReturns is returned when a scan has no return inside the range gate.
var ErrNoReturns = errors.New("no returns inside the range gate")

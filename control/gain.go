// Package control contains the feedback laws used by the motion controller.
package control

import (
	"math"

	"github.com/pkg/errors"
)

// Gain is a saturated proportional block: Output(e) = clamp(K·e, ±Max).
type Gain struct {
	Name string
	K    float64
	Max  float64
}

// NewGain returns a validated proportional block.
func NewGain(name string, k, maxOutput float64) (Gain, error) {
	g := Gain{Name: name, K: k, Max: maxOutput}
	if err := g.Validate(); err != nil {
		return Gain{}, err
	}
	return g, nil
}

// Validate checks the gain and its saturation are usable.
func (g Gain) Validate() error {
	if math.IsNaN(g.K) || math.IsInf(g.K, 0) {
		return errors.Errorf("gain block %s has a non-finite gain", g.Name)
	}
	if !(g.Max > 0) || math.IsInf(g.Max, 0) {
		return errors.Errorf("gain block %s needs a positive finite saturation, got %v", g.Name, g.Max)
	}
	return nil
}

// Output returns the saturated proportional response to err. Any finite or infinite input yields a
// value within [-Max, Max]; NaN maps to 0.
func (g Gain) Output(err float64) float64 {
	if math.IsNaN(err) {
		return 0
	}
	y := g.K * err
	if math.IsNaN(y) {
		// K == 0 with an infinite error
		return 0
	}
	return math.Max(-g.Max, math.Min(g.Max, y))
}

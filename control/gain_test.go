package control

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestGainConfig(t *testing.T) {
	for _, c := range []struct {
		k, max float64
		err    string
	}{
		{1.89345, 1, ""},
		{math.NaN(), 1, "gain block g has a non-finite gain"},
		{1, 0, "gain block g needs a positive finite saturation, got 0"},
		{1, math.Inf(1), "gain block g needs a positive finite saturation, got +Inf"},
	} {
		_, err := NewGain("g", c.k, c.max)
		if c.err == "" {
			test.That(t, err, test.ShouldBeNil)
		} else {
			test.That(t, err, test.ShouldBeError, c.err)
		}
	}
}

func TestGainOutput(t *testing.T) {
	g, err := NewGain("linear", 4, 1.5)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, g.Output(0.1), test.ShouldAlmostEqual, 0.4)
	test.That(t, g.Output(-0.1), test.ShouldAlmostEqual, -0.4)
	for _, e := range []float64{10, 1e9, math.MaxFloat64, math.Inf(1)} {
		test.That(t, g.Output(e), test.ShouldEqual, 1.5)
		test.That(t, g.Output(-e), test.ShouldEqual, -1.5)
	}
	test.That(t, g.Output(math.NaN()), test.ShouldEqual, 0)

	zero := Gain{Name: "zero", K: 0, Max: 1}
	test.That(t, zero.Output(math.Inf(1)), test.ShouldEqual, 0)
}

package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestWrapHeading(t *testing.T) {
	for _, tc := range []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
		{-7 * math.Pi / 2, math.Pi / 2},
	} {
		test.That(t, WrapHeading(tc.in), test.ShouldAlmostEqual, tc.out, 1e-12)
	}

	for a := -20.0; a < 20; a += 0.013 {
		w := WrapHeading(a)
		test.That(t, w, test.ShouldBeGreaterThanOrEqualTo, 0)
		test.That(t, w, test.ShouldBeLessThan, 2*math.Pi)
	}
}

func TestWrapSigned(t *testing.T) {
	test.That(t, WrapSigned(3*math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2, 1e-12)
	test.That(t, WrapSigned(math.Pi), test.ShouldAlmostEqual, math.Pi, 1e-12)
	test.That(t, WrapSigned(-math.Pi), test.ShouldAlmostEqual, math.Pi, 1e-12)
	test.That(t, HeadingDiff(0.1, 2*math.Pi-0.1), test.ShouldAlmostEqual, 0.2, 1e-12)
	test.That(t, HeadingDiff(2*math.Pi-0.1, 0.1), test.ShouldAlmostEqual, -0.2, 1e-12)

	for a := -20.0; a < 20; a += 0.017 {
		w := WrapSigned(a)
		test.That(t, w, test.ShouldBeGreaterThan, -math.Pi)
		test.That(t, w, test.ShouldBeLessThanOrEqualTo, math.Pi)
	}
}

func TestSaturate(t *testing.T) {
	test.That(t, Saturate(5, 1), test.ShouldEqual, 1)
	test.That(t, Saturate(-5, 1), test.ShouldEqual, -1)
	test.That(t, Saturate(0.3, 1), test.ShouldEqual, 0.3)
	test.That(t, Saturate(math.MaxFloat64, 2), test.ShouldEqual, 2)
	test.That(t, Saturate(math.Inf(-1), 2), test.ShouldEqual, -2)
	test.That(t, Saturate(3, 0), test.ShouldEqual, 0)
}

func TestPose(t *testing.T) {
	p := NewPose(1, 2, -math.Pi/2)
	test.That(t, p.Heading, test.ShouldAlmostEqual, 3*math.Pi/2, 1e-12)
	test.That(t, p.DistanceTo(NewPoint2D(4, 6)), test.ShouldAlmostEqual, 5, 1e-12)
	test.That(t, p.HeadingTo(NewPoint2D(1, 0)), test.ShouldAlmostEqual, 3*math.Pi/2, 1e-12)
	test.That(t, p.HeadingTo(NewPoint2D(0, 2)), test.ShouldAlmostEqual, math.Pi, 1e-12)

	world := NewPose(1, 1, math.Pi/2).Transform(NewPoint2D(1, 0))
	test.That(t, world.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, world.Y, test.ShouldAlmostEqual, 2, 1e-12)
}

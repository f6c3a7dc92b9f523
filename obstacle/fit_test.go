package obstacle

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/contournav/spatialmath"
)

func arc(center spatialmath.Point2D, radius, from, to float64, n int) []spatialmath.Point2D {
	points := make([]spatialmath.Point2D, 0, n)
	for i := 0; i < n; i++ {
		theta := from + (to-from)*float64(i)/float64(n-1)
		points = append(points, spatialmath.NewPoint2D(center.X+radius*math.Cos(theta), center.Y+radius*math.Sin(theta)))
	}
	return points
}

func TestFitCircleThroughThreePoints(t *testing.T) {
	for _, tc := range [][]spatialmath.Point2D{
		{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}},
		{{X: -3, Y: 2}, {X: 4, Y: 7}, {X: 0.5, Y: -1}},
		{{X: 10, Y: 10}, {X: 10.01, Y: 10.2}, {X: 10.1, Y: 10.3}},
	} {
		circle, err := FitCircle(tc)
		test.That(t, err, test.ShouldBeNil)
		for _, p := range tc {
			test.That(t, spatialmath.Distance(p, circle.Center), test.ShouldAlmostEqual, circle.Radius, 1e-9)
		}
		test.That(t, circle.Radius, test.ShouldBeGreaterThan, 0)
	}
}

func TestFitCircleUsesFirstMiddleLast(t *testing.T) {
	center := spatialmath.NewPoint2D(1.5, -0.25)
	points := arc(center, 0.3, -math.Pi/3, math.Pi/3, 11)
	// disturb points that are not first, middle or last
	points[2] = points[2].Mul(5)
	points[8] = spatialmath.NewPoint2D(100, 100)

	circle, err := FitCircle(points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, circle.Center.X, test.ShouldAlmostEqual, center.X, 1e-9)
	test.That(t, circle.Center.Y, test.ShouldAlmostEqual, center.Y, 1e-9)
	test.That(t, circle.Radius, test.ShouldAlmostEqual, 0.3, 1e-9)
}

func TestFitCircleDegenerate(t *testing.T) {
	for _, tc := range [][]spatialmath.Point2D{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 3}},
		{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}},
		{{X: 0, Y: 0}, {X: 1, Y: 1e-12}, {X: 2, Y: 0}},
	} {
		circle, err := FitCircle(tc)
		test.That(t, err, test.ShouldBeError, ErrDegenerateFit)
		test.That(t, math.IsNaN(circle.Radius), test.ShouldBeFalse)
		test.That(t, math.IsInf(circle.Center.X, 0), test.ShouldBeFalse)
	}

	_, err := FitCircle([]spatialmath.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}})
	test.That(t, err, test.ShouldBeError, ErrTooFewPoints)
	_, err = FitCircle([]spatialmath.Point2D{{X: math.NaN(), Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}})
	test.That(t, err, test.ShouldBeError, ErrDegenerateFit)
}

func TestFitCircleLeastSquares(t *testing.T) {
	center := spatialmath.NewPoint2D(-2, 3)
	points := arc(center, 0.4, 0, math.Pi/2, 20)
	// noise that would pull a three point fit off
	points[0] = points[0].Add(spatialmath.NewPoint2D(0.01, 0))

	circle, err := FitCircleLeastSquares(points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, circle.Center.X, test.ShouldAlmostEqual, center.X, 0.02)
	test.That(t, circle.Center.Y, test.ShouldAlmostEqual, center.Y, 0.02)
	test.That(t, circle.Radius, test.ShouldAlmostEqual, 0.4, 0.02)

	q, err := circle.Quality(points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.MaxResidual, test.ShouldBeLessThan, 0.02)

	_, err = FitCircleLeastSquares([]spatialmath.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = FitCircleLeastSquares(nil)
	test.That(t, err, test.ShouldBeError, ErrTooFewPoints)
}

func TestQuality(t *testing.T) {
	circle := Circle{Center: spatialmath.NewPoint2D(0, 0), Radius: 1}
	q, err := circle.Quality([]spatialmath.Point2D{{X: 1, Y: 0}, {X: 0, Y: 1.5}, {X: -0.5, Y: 0}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.MeanResidual, test.ShouldAlmostEqual, 0)
	test.That(t, q.MaxResidual, test.ShouldAlmostEqual, 0.5)

	_, err = circle.Quality(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

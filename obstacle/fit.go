package obstacle

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/contournav/spatialmath"
)

// DegenerateEpsilon is the smallest determinant magnitude accepted by the three point fit.
const DegenerateEpsilon = 1e-9

var (
	// ErrDegenerateFit is returned when the boundary points are too close to collinear to define a circle.
	ErrDegenerateFit = errors.New("degenerate circle fit: boundary points are nearly collinear")
	// ErrTooFewPoints is returned when fewer than three boundary points are given.
	ErrTooFewPoints = errors.New("at least 3 boundary points are needed to fit a circle")
)

// A Circle is a fit result in whatever frame its points were given in.
type Circle struct {
	Center spatialmath.Point2D
	Radius float64
}

func (c Circle) valid() bool {
	return spatialmath.IsFinite(c.Center) && c.Radius > 0 && !math.IsInf(c.Radius, 1)
}

// FitCircle returns the circle through the first, middle and last of points.
func FitCircle(points []spatialmath.Point2D) (Circle, error) {
	if len(points) < 3 {
		return Circle{}, ErrTooFewPoints
	}
	return circumcircle(points[0], points[len(points)/2], points[len(points)-1])
}

func circumcircle(p1, p2, p3 spatialmath.Point2D) (Circle, error) {
	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y

	a := p1.X*(p2.Y-p3.Y) - p1.Y*(p2.X-p3.X) + p2.X*p3.Y - p3.X*p2.Y
	if math.Abs(a) < DegenerateEpsilon || math.IsNaN(a) {
		return Circle{}, ErrDegenerateFit
	}
	b := s1*(p3.Y-p2.Y) + s2*(p1.Y-p3.Y) + s3*(p2.Y-p1.Y)
	c := s1*(p2.X-p3.X) + s2*(p3.X-p1.X) + s3*(p1.X-p2.X)

	center := spatialmath.NewPoint2D(-b/(2*a), -c/(2*a))
	circle := Circle{Center: center, Radius: spatialmath.Distance(center, p1)}
	if !circle.valid() {
		return Circle{}, ErrDegenerateFit
	}
	return circle, nil
}

// FitCircleLeastSquares fits x² + y² + Dx + Ey + F = 0 over all points.
func FitCircleLeastSquares(points []spatialmath.Point2D) (Circle, error) {
	if len(points) < 3 {
		return Circle{}, ErrTooFewPoints
	}
	a := mat.NewDense(len(points), 3, nil)
	rhs := mat.NewVecDense(len(points), nil)
	for i, p := range points {
		a.Set(i, 0, p.X)
		a.Set(i, 1, p.Y)
		a.Set(i, 2, 1)
		rhs.SetVec(i, -(p.X*p.X + p.Y*p.Y))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, rhs); err != nil {
		return Circle{}, errors.Wrap(ErrDegenerateFit, err.Error())
	}
	d, e, f := sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)
	center := spatialmath.NewPoint2D(-d/2, -e/2)
	r2 := center.X*center.X + center.Y*center.Y - f
	if !(r2 > 0) {
		return Circle{}, ErrDegenerateFit
	}
	circle := Circle{Center: center, Radius: math.Sqrt(r2)}
	if !circle.valid() {
		return Circle{}, ErrDegenerateFit
	}
	return circle, nil
}

// FitQuality summarizes how far the points lie from a fitted circle.
type FitQuality struct {
	MeanResidual   float64
	StdDevResidual float64
	MaxResidual    float64
}

// Quality measures the radial residual |p - center| - radius of every point.
func (c Circle) Quality(points []spatialmath.Point2D) (FitQuality, error) {
	residuals := make([]float64, 0, len(points))
	abs := make([]float64, 0, len(points))
	for _, p := range points {
		r := spatialmath.Distance(p, c.Center) - c.Radius
		residuals = append(residuals, r)
		abs = append(abs, math.Abs(r))
	}
	mean, err := stats.Mean(residuals)
	if err != nil {
		return FitQuality{}, err
	}
	sd, err := stats.StandardDeviation(residuals)
	if err != nil {
		return FitQuality{}, err
	}
	maxAbs, err := stats.Max(abs)
	if err != nil {
		return FitQuality{}, err
	}
	return FitQuality{MeanResidual: mean, StdDevResidual: sd, MaxResidual: maxAbs}, nil
}

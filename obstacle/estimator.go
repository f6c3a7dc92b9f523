package obstacle

import (
	"github.com/pkg/errors"

	"go.viam.com/contournav/config"
	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/spatialmath"
)

// Estimator turns a cluster of sensor frame boundary points into a world frame Obstacle.
type Estimator struct {
	// SensorOffset is subtracted from sensor frame points to express them in the robot frame.
	SensorOffset spatialmath.Point2D
	FitMethod    string
	logger       logging.Logger
}

// NewEstimator returns an estimator configured from conf.
func NewEstimator(conf *config.Config, logger logging.Logger) *Estimator {
	return &Estimator{
		SensorOffset: conf.SensorOffset.Point(),
		FitMethod:    conf.FitMethod,
		logger:       logger,
	}
}

// Fit fits a circle in the sensor frame using the configured method.
func (e *Estimator) Fit(points []spatialmath.Point2D) (Circle, error) {
	switch e.FitMethod {
	case config.FitMethodLeastSquares:
		return FitCircleLeastSquares(points)
	case config.FitMethodThreePoint, "":
		return FitCircle(points)
	default:
		return Circle{}, errors.Errorf("unknown fit method %q", e.FitMethod)
	}
}

// Estimate fits points and moves the result into the world frame using pose, which is whatever
// pose was most recently available. Pose lag relative to the scan is not corrected.
func (e *Estimator) Estimate(points []spatialmath.Point2D, pose spatialmath.Pose) (Obstacle, error) {
	circle, err := e.Fit(points)
	if err != nil {
		return Obstacle{}, err
	}
	if e.logger != nil {
		if q, err := circle.Quality(points); err == nil {
			e.logger.Debugw("fitted obstacle", "points", len(points), "radius", circle.Radius,
				"mean_residual", q.MeanResidual, "stddev_residual", q.StdDevResidual, "max_residual", q.MaxResidual)
		}
	}
	robotFrame := circle.Center.Sub(e.SensorOffset)
	return Obstacle{Center: pose.Transform(robotFrame), Radius: circle.Radius}, nil
}

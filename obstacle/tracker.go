package obstacle

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/contournav/logging"
	"go.viam.com/contournav/spatialmath"
)

// Tracker keeps the last accepted estimate. A degenerate fit leaves it untouched. There is no
// smoothing: each accepted estimate fully replaces the previous one.
type Tracker struct {
	estimator *Estimator
	current   atomic.Pointer[Obstacle]
	logger    logging.Logger
}

// NewTracker returns a tracker with no obstacle.
func NewTracker(estimator *Estimator, logger logging.Logger) *Tracker {
	return &Tracker{estimator: estimator, logger: logger}
}

// Update estimates an obstacle from points. It returns the accepted obstacle and true, or the
// previously held obstacle (if any) and false when the reading was discarded.
func (t *Tracker) Update(points []spatialmath.Point2D, pose spatialmath.Pose) (Obstacle, bool, error) {
	obs, err := t.estimator.Estimate(points, pose)
	if err != nil {
		if errors.Is(err, ErrDegenerateFit) || errors.Is(err, ErrTooFewPoints) {
			t.logger.Debugw("discarding obstacle reading", "error", err)
			prev, _ := t.Current()
			return prev, false, nil
		}
		return Obstacle{}, false, err
	}
	t.current.Store(&obs)
	return obs, true, nil
}

// Current returns the last accepted obstacle and whether one exists.
func (t *Tracker) Current() (Obstacle, bool) {
	obs := t.current.Load()
	if obs == nil {
		return Obstacle{}, false
	}
	return *obs, true
}

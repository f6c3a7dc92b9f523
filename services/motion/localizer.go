package motion

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/contournav/spatialmath"
)

// ErrNoPose is returned by a localizer that has not received a pose yet.
var ErrNoPose = errors.New("no pose received yet")

// Localizer reports the robot's latest pose.
type Localizer interface {
	CurrentPose(ctx context.Context) (spatialmath.Pose, error)
}

// PoseSnapshot is a Localizer fed by a single writer. Readers always get a whole pose, never x
// from one update and heading from another.
type PoseSnapshot struct {
	pose atomic.Pointer[spatialmath.Pose]
}

// Update replaces the held pose.
func (s *PoseSnapshot) Update(pose spatialmath.Pose) {
	pose.Heading = spatialmath.WrapHeading(pose.Heading)
	s.pose.Store(&pose)
}

// CurrentPose returns the latest pose or ErrNoPose.
func (s *PoseSnapshot) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	pose := s.pose.Load()
	if pose == nil {
		return spatialmath.Pose{}, ErrNoPose
	}
	return *pose, nil
}

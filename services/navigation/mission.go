package navigation

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"go.viam.com/contournav/motionplan"
	"go.viam.com/contournav/obstacle"
	"go.viam.com/contournav/services/motion"
	"go.viam.com/contournav/spatialmath"
)

// MissionContext owns everything a mission shares between its producers and the supervisor: the
// path, the latest pose and the latest obstacle. Pose and obstacle each have a single writer and are
// read as whole snapshots. The path is only mutated by the supervisor.
type MissionContext struct {
	pathMu sync.Mutex
	path   motionplan.Path

	pose     motion.PoseSnapshot
	obstacle atomic.Pointer[obstacle.Obstacle]
}

// NewMissionContext takes ownership of path.
func NewMissionContext(path motionplan.Path) *MissionContext {
	return &MissionContext{path: path}
}

// Localizer returns the pose snapshot as a Localizer.
func (m *MissionContext) Localizer() motion.Localizer {
	return &m.pose
}

// UpdatePose replaces the latest pose.
func (m *MissionContext) UpdatePose(pose spatialmath.Pose) {
	m.pose.Update(pose)
}

// CurrentPose returns the latest pose, or motion.ErrNoPose.
func (m *MissionContext) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	return m.pose.CurrentPose(ctx)
}

// UpdateObstacle replaces the latest obstacle. There is no fusion with the previous one.
func (m *MissionContext) UpdateObstacle(obs obstacle.Obstacle) {
	m.obstacle.Store(&obs)
}

// Obstacle returns the latest obstacle and whether there is one.
func (m *MissionContext) Obstacle() (obstacle.Obstacle, bool) {
	obs := m.obstacle.Load()
	if obs == nil {
		return obstacle.Obstacle{}, false
	}
	return *obs, true
}

// Path returns a copy of the path as it currently is.
func (m *MissionContext) Path() motionplan.Path {
	m.pathMu.Lock()
	defer m.pathMu.Unlock()
	return m.path.Clone()
}

// Len returns the number of waypoints.
func (m *MissionContext) Len() int {
	m.pathMu.Lock()
	defer m.pathMu.Unlock()
	return len(m.path)
}

// withPath runs f with the path locked.
func (m *MissionContext) withPath(f func(path motionplan.Path)) {
	m.pathMu.Lock()
	defer m.pathMu.Unlock()
	f(m.path)
}

// Visualization snapshots the obstacle and the path for a renderer.
func (m *MissionContext) Visualization() motionplan.Visualization {
	path := m.Path()
	if obs, ok := m.Obstacle(); ok {
		return motionplan.NewVisualization(path, &obs)
	}
	return motionplan.NewVisualization(path, nil)
}

// Package base defines the actuator the motion controller drives: a differential base that takes
// a planar linear and angular velocity.
package base

import (
	"context"
	"fmt"

	"go.viam.com/contournav/spatialmath"
)

// A VelocityCommand is a body frame velocity: Linear in m/s along the heading, Angular in rad/s
// counter-clockwise.
type VelocityCommand struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// Saturate clamps each component to its cap.
func (c VelocityCommand) Saturate(maxLinear, maxAngular float64) VelocityCommand {
	return VelocityCommand{
		Linear:  spatialmath.Saturate(c.Linear, maxLinear),
		Angular: spatialmath.Saturate(c.Angular, maxAngular),
	}
}

// IsZero reports whether the command stops the base.
func (c VelocityCommand) IsZero() bool {
	return c.Linear == 0 && c.Angular == 0
}

func (c VelocityCommand) String() string {
	return fmt.Sprintf("{linear: %.3f m/s, angular: %.3f rad/s}", c.Linear, c.Angular)
}

// Properties describe the physical base.
type Properties struct {
	WidthMeters  float64
	RadiusMeters float64
}

// A Base represents a physical base of a robot.
type Base interface {
	// SetVelocity commands a velocity that holds until the next command.
	SetVelocity(ctx context.Context, cmd VelocityCommand) error

	// Consumers returns how many endpoints currently receive velocity commands. Zero means commands
	// would go nowhere.
	Consumers(ctx context.Context) (int, error)

	// Stop stops the base. It is assumed the base stops immediately.
	Stop(ctx context.Context) error

	// IsMoving reports whether the last command was non-zero.
	IsMoving(ctx context.Context) (bool, error)

	Properties(ctx context.Context) (Properties, error)

	Close(ctx context.Context) error
}

// Package config defines the configuration surface of the navigation stack: sensor mounting,
// robot footprint, controller gains, velocity caps, tolerances and tick periods.
package config

import (
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/contournav/spatialmath"
)

// Fit methods understood by the obstacle estimator.
const (
	FitMethodThreePoint   = "three_point"
	FitMethodLeastSquares = "least_squares"
)

// Offset is a planar offset in meters.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts the offset to a point.
func (o Offset) Point() spatialmath.Point2D {
	return spatialmath.NewPoint2D(o.X, o.Y)
}

// Config is the complete configuration of a mission.
type Config struct {
	// SensorOffset is subtracted from obstacle centers fitted in the sensor frame to move them to
	// the robot frame, so the sensor origin sits at -SensorOffset from the robot center.
	SensorOffset  Offset  `json:"sensor_offset"`
	RobotRadius   float64 `json:"robot_radius"`
	ContourMargin float64 `json:"contour_margin"`

	KLinear     float64 `json:"k_linear"`
	KAngular    float64 `json:"k_angular"`
	MaxLinear   float64 `json:"max_linear"`
	MaxAngular  float64 `json:"max_angular"`
	RotateSpeed float64 `json:"rotate_speed"`

	LinearTolerance  float64 `json:"linear_tolerance"`
	AngularTolerance float64 `json:"angular_tolerance"`

	RotateTick  time.Duration `json:"rotate_tick"`
	DriveTick   time.Duration `json:"drive_tick"`
	MissionTick time.Duration `json:"mission_tick"`

	ScanMinRange float64 `json:"scan_min_range"`
	ScanMaxRange float64 `json:"scan_max_range"`
	FitMethod    string  `json:"fit_method"`

	// SlowOpWarning is how long a rotate or drive may run before a warning is logged.
	// Zero disables the warning. It never interrupts the operation.
	SlowOpWarning time.Duration `json:"slow_op_warning"`

	LogLevel string `json:"log_level,omitempty"`
}

// Default returns the configuration the robot ships with.
func Default() *Config {
	return &Config{
		SensorOffset:     Offset{X: 0.08, Y: 0.025},
		RobotRadius:      0.175,
		ContourMargin:    0.25,
		KLinear:          1,
		KAngular:         4,
		MaxLinear:        0.5,
		MaxAngular:       2,
		RotateSpeed:      2,
		LinearTolerance:  0.01,
		AngularTolerance: 0.05,
		RotateTick:       time.Millisecond,
		DriveTick:        10 * time.Millisecond,
		MissionTick:      100 * time.Millisecond,
		ScanMinRange:     0.5,
		ScanMaxRange:     1,
		FitMethod:        FitMethodThreePoint,
		SlowOpWarning:    30 * time.Second,
		LogLevel:         "info",
	}
}

// MarshalJSON writes durations as strings ("10ms") so the output reads back through FromReader.
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return json.Marshal(struct {
		plain
		RotateTick    string `json:"rotate_tick"`
		DriveTick     string `json:"drive_tick"`
		MissionTick   string `json:"mission_tick"`
		SlowOpWarning string `json:"slow_op_warning"`
	}{
		plain:         plain(c),
		RotateTick:    c.RotateTick.String(),
		DriveTick:     c.DriveTick.String(),
		MissionTick:   c.MissionTick.String(),
		SlowOpWarning: c.SlowOpWarning.String(),
	})
}

// EffectiveMargin is the part of the effective avoidance radius contributed by the robot itself.
func (c *Config) EffectiveMargin() float64 {
	return c.RobotRadius + c.ContourMargin
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	positive := []struct {
		name  string
		value float64
	}{
		{"k_linear", c.KLinear},
		{"k_angular", c.KAngular},
		{"max_linear", c.MaxLinear},
		{"max_angular", c.MaxAngular},
		{"rotate_speed", c.RotateSpeed},
		{"linear_tolerance", c.LinearTolerance},
		{"angular_tolerance", c.AngularTolerance},
	}
	for _, field := range positive {
		if field.value == 0 {
			return utils.NewConfigValidationFieldRequiredError(path, field.name)
		}
		if !(field.value > 0) || math.IsInf(field.value, 0) {
			return utils.NewConfigValidationError(path,
				errors.Errorf("%s must be positive and finite, got %v", field.name, field.value))
		}
	}

	if c.RobotRadius < 0 || c.ContourMargin < 0 {
		return utils.NewConfigValidationError(path, errors.New("robot_radius and contour_margin cannot be negative"))
	}

	for name, tick := range map[string]time.Duration{
		"rotate_tick":  c.RotateTick,
		"drive_tick":   c.DriveTick,
		"mission_tick": c.MissionTick,
	} {
		if tick <= 0 {
			return utils.NewConfigValidationFieldRequiredError(path, name)
		}
	}
	if c.SlowOpWarning < 0 {
		return utils.NewConfigValidationError(path, errors.New("slow_op_warning cannot be negative"))
	}

	if c.ScanMinRange < 0 || c.ScanMaxRange <= c.ScanMinRange {
		return utils.NewConfigValidationError(path,
			errors.Errorf("scan range gate (%v, %v) is empty", c.ScanMinRange, c.ScanMaxRange))
	}

	switch c.FitMethod {
	case FitMethodThreePoint, FitMethodLeastSquares:
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "fit_method")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown fit_method %q", c.FitMethod))
	}
	return nil
}

package spatialmath

import "math"

const oneTurn = 2 * math.Pi

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapHeading reduces an angle in radians to the [0, 2π) domain.
func WrapHeading(angle float64) float64 {
	// reduce the angle
	angle = math.Mod(angle, oneTurn)

	// force it to be the positive remainder, so that 0 <= angle < 2π
	return math.Mod(angle+oneTurn, oneTurn)
}

// WrapSigned reduces an angle in radians to the (−π, π] domain. It is the signed
// smallest rotation that takes a heading onto another when applied to their
// difference.
func WrapSigned(angle float64) float64 {
	angle = WrapHeading(angle)
	if angle > math.Pi {
		angle -= oneTurn
	}
	return angle
}

// HeadingDiff returns the signed smallest rotation in radians from current to desired.
func HeadingDiff(desired, current float64) float64 {
	return WrapSigned(desired - current)
}

// Saturate clamps value to [-limit, limit]. A non-positive limit returns zero.
func Saturate(value, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if value > limit {
		return limit
	}
	if value < -limit {
		return -limit
	}
	return value
}

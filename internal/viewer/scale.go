package viewer

import "math"

// DefaultBaseScale is the initial render scale of a freshly loaded document.
const DefaultBaseScale = 1.5

const (
	scaleStepRatio = 0.1
	minScaleRatio  = 0.5
	maxScaleRatio  = 3.0
)

// NextScale returns the scale after one zoom step. Each step moves by 10% of
// base and the result is clamped to [0.5*base, 3*base].
func NextScale(current, base float64, increment bool) float64 {
	if base <= 0 {
		base = DefaultBaseScale
	}
	step := base * scaleStepRatio
	next := current - step
	if increment {
		next = current + step
	}
	return clampScale(next, base)
}

// MinScale is the smallest scale reachable from base.
func MinScale(base float64) float64 {
	return base * minScaleRatio
}

// MaxScale is the largest scale reachable from base.
func MaxScale(base float64) float64 {
	return base * maxScaleRatio
}

// Percent renders a scale as the rounded percentage shown next to the zoom keys.
func Percent(scale float64) int {
	return int(math.Round(scale * 100))
}

func clampScale(value, base float64) float64 {
	return math.Max(MinScale(base), math.Min(MaxScale(base), value))
}

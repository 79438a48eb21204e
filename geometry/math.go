package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroStep is returned by Range when asked to step by zero.
var ErrZeroStep = errors.New("range step must not be zero")

// ErrNonFinite is returned by Range when an argument is NaN or infinite.
var ErrNonFinite = errors.New("range arguments must be finite")

// maxRangeHint caps the capacity Range reserves up front.
const maxRangeHint = 1 << 16

// Range returns the samples min, min+step, ... that lie strictly before max,
// followed by max itself. max is always the last element, even when the
// step does not divide the span and when min == max.
//
// The magnitude of step is used in the direction of max, so a step whose
// sign disagrees with max-min still terminates.
func Range(min, max, step float64) ([]float64, error) {
	if step == 0 {
		return nil, fmt.Errorf("range(%v, %v): %w", min, max, ErrZeroStep)
	}
	if !isFinite(min) || !isFinite(max) || !isFinite(step) {
		return nil, fmt.Errorf("range(%v, %v, %v): %w", min, max, step, ErrNonFinite)
	}

	step = math.Abs(step)
	if max < min {
		step = -step
	}

	n := math.Ceil(math.Abs(max-min) / math.Abs(step))
	values := make([]float64, 0, int(math.Min(n, maxRangeHint))+1)
	for i := 0; ; i++ {
		// multiply rather than accumulate so long ranges do not drift
		v := min + float64(i)*step
		if (step > 0 && v >= max) || (step < 0 && v <= max) {
			break
		}
		values = append(values, v)
	}
	return append(values, max), nil
}

// FloorToGrid returns v rounded down to a multiple of grid, in grid cells.
func FloorToGrid(v, grid float64) int {
	return int(math.Floor(v / grid))
}

// CeilToGrid returns v rounded up to a multiple of grid, in grid cells.
func CeilToGrid(v, grid float64) int {
	return int(math.Ceil(v / grid))
}

// SnapDown returns v rounded down to the nearest multiple of grid.
func SnapDown(v, grid float64) float64 {
	return math.Floor(v/grid) * grid
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

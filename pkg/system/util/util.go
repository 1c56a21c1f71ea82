package util

import "math"

func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	// counter wrapped or prev unset
	return 0
}

func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// Clamp bounds x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	return x
}

// Bounds caps a percentage at 100 and maps NaN to 0. Negative values pass
// through unchanged.
func Bounds(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

func MinInt(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func MinU64(a, b uint64) uint64 {
	if a > b {
		return b
	}
	return a
}

package proctab

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name  string
		raw   int64
		scale int64
		cpus  int
		want  float64
	}{
		{"example", 50, 1000, 1, 5.0},
		{"zero scale", 12345, 0, 4, 0},
		{"negative raw", -10, 1000, 2, 0},
		{"capped at cpus", 10_000, 1000, 2, 200},
		{"full core", 2048, 2048, 8, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CPUPercent(tt.raw, tt.scale, tt.cpus), 1e-9)
		})
	}
}

func TestCPUPercent_AlwaysBounded(t *testing.T) {
	for _, cpus := range []int{1, 2, 16} {
		for _, raw := range []int64{math.MinInt64, -1, 0, 1, 999, 1 << 40, math.MaxInt64} {
			got := CPUPercent(raw, 1000, cpus)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, float64(cpus)*100)
		}
	}
}

func TestMemPercent(t *testing.T) {
	assert.InDelta(t, 0.1024, MemPercent(256, 4, 1_000_000), 1e-12)
	assert.Equal(t, 0.0, MemPercent(256, 4, 0), "zero total")
	assert.Greater(t, MemPercent(1_000_000, 4, 1_000_000), 100.0, "shared pages are not clamped")
}

func TestElapsedTime(t *testing.T) {
	assert.Equal(t, uint64(0), ElapsedTime(0, 0))
	assert.Equal(t, uint64(1200), ElapsedTime(12, 499_999))
	assert.Equal(t, uint64(1300), ElapsedTime(12, 500_000))
	assert.Equal(t, uint64(1300), ElapsedTime(12, 999_999))
}

func TestFormatStartTime_Boundary(t *testing.T) {
	now := testNow

	t.Run("exactly one day old is not recent", func(t *testing.T) {
		assert.Equal(t, "Mar14 ", FormatStartTime(now.Unix()-86400, now))
	})
	t.Run("one second younger is recent", func(t *testing.T) {
		assert.Equal(t, "12:30 ", FormatStartTime(now.Unix()-86399, now))
	})
	t.Run("old start", func(t *testing.T) {
		start := time.Date(2023, time.December, 3, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, "Dec03 ", FormatStartTime(start.Unix(), now))
	})
	t.Run("uses the clock location", func(t *testing.T) {
		loc := time.FixedZone("plus2", 2*3600)
		assert.Equal(t, "14:29 ", FormatStartTime(now.Unix()-60, now.In(loc)))
	})
}

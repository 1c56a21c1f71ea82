package proctab

import (
	"time"

	"github.com/ja7ad/proctab/pkg/system/util"
)

const recentWindow = 86400 // seconds

// CPUPercent converts a fixed-point CPU fraction into a percentage bounded by
// [0, cpus*100]. A zero scale yields 0.
func CPUPercent(raw, scale int64, cpus int) float64 {
	if scale == 0 {
		return 0
	}
	pct := 100.0 * (float64(raw) / float64(scale))
	return util.Clamp(pct, 0, float64(cpus)*100.0)
}

// MemPercent returns the resident share of total memory. It is not clamped:
// shared pages can push it past 100. A zero total yields 0.
func MemPercent(rssPages, pageSizeKB, totalKB uint64) float64 {
	return util.SafeDiv(float64(rssPages*pageSizeKB), float64(totalKB)) * 100.0
}

// ElapsedTime converts seconds plus microseconds into hundredths of a second,
// rounding the microseconds to the nearest whole second first.
func ElapsedTime(sec, usec uint64) uint64 {
	return (sec + (usec+500000)/1000000) * 100
}

// FormatStartTime renders a process start time relative to now. Starts
// strictly within the last 24 hours render as "15:04 ", older ones as
// "Jan02 ".
func FormatStartTime(start int64, now time.Time) string {
	t := time.Unix(start, 0).In(now.Location())
	if start > now.Unix()-recentWindow {
		return t.Format("15:04 ")
	}
	return t.Format("Jan02 ")
}

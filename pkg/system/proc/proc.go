//go:build linux

package proc

import (
	"os"
	"strconv"

	"github.com/ja7ad/proctab/pkg/snapshot"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), otherwise
// falls back to 100 (common default).
//
// Note: On real systems, the authoritative way is `sysconf(_SC_CLK_TCK)`,
// but calling that requires cgo.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	return 100
}

// PageSize returns the system memory page size in bytes.
// Like ClockTicks, it first checks an env override (PAGE_SIZE)
// to ease testing, then falls back to os.Getpagesize().
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return os.Getpagesize()
}

// stateCode maps the state letter of /proc/<pid>/stat. Linux has no separate
// runnable letter: R means running or on a run queue, reported as on-processor.
func stateCode(letter string) snapshot.StateCode {
	if letter == "" {
		return 0
	}
	switch letter[0] {
	case 'R':
		return snapshot.CodeOnProc
	case 'S', 'D':
		return snapshot.CodeSleeping
	case 'T', 't':
		return snapshot.CodeStopped
	case 'Z':
		return snapshot.CodeZombie
	case 'X', 'x':
		return snapshot.CodeDead
	case 'I':
		return snapshot.CodeIdle
	}
	return 0
}

// processCode is the process-level code when thread states are scanned:
// terminal and idle states stand on their own, anything else is decided by
// the threads.
func processCode(letter string) snapshot.StateCode {
	switch c := stateCode(letter); c {
	case snapshot.CodeIdle, snapshot.CodeStopped, snapshot.CodeZombie, snapshot.CodeDead:
		return c
	}
	return snapshot.CodeActive
}

// splitTicks converts jiffies into whole seconds plus microseconds.
func splitTicks(ticks uint64, clkTck int) (sec, usec uint64) {
	hz := uint64(clkTck)
	return ticks / hz, (ticks % hz) * 1_000_000 / hz
}

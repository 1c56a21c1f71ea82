package proctab

import (
	"log/slog"

	"k8s.io/utils/clock"
)

// Options control what a Table records and how records are shown.
type Options struct {
	// Visibility only; aggregate counters always count every record.
	HideKernelThreads   bool
	HideUserlandThreads bool

	// UpdateProcessNames re-resolves the display command of known records on
	// every cycle. Off by default: a record keeps the name it was created with.
	UpdateProcessNames bool

	// ClampMemPercent caps MemPercent at 100 and maps NaN to 0. Resident sizes
	// count shared pages, so the raw ratio can exceed 100.
	ClampMemPercent bool

	// MaxArgvBytes bounds the joined command line. A longer one falls back to
	// the short name instead of being cut. 0 means no bound.
	MaxArgvBytes int

	// KernelThread decides which records count as kernel threads.
	// Defaults to DefaultKernelThread.
	KernelThread func(*Process) bool

	Clock  clock.PassiveClock
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.KernelThread == nil {
		o.KernelThread = DefaultKernelThread
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.MaxArgvBytes < 0 {
		o.MaxArgvBytes = 0
	}
	return o
}

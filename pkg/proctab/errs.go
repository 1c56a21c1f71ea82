package proctab

import "errors"

var (
	// ErrOpen indicates that no snapshot source could be opened.
	ErrOpen = errors.New("proctab: snapshot source unavailable")

	// ErrCPUScale indicates that the fixed-point CPU scale could not be read.
	ErrCPUScale = errors.New("proctab: cpu scale unreadable")

	// ErrMemory indicates that the memory counters could not be refreshed.
	ErrMemory = errors.New("proctab: memory counters unreadable")

	// ErrSnapshot indicates that the process snapshot could not be fetched.
	ErrSnapshot = errors.New("proctab: snapshot failed")

	// ErrClosed indicates a cycle on a table after Close.
	ErrClosed = errors.New("proctab: table closed")
)

package proc

import "errors"

var (
	// ErrClosed indicates a call on a Source after Close.
	ErrClosed = errors.New("proc: source closed")

	// ErrNoBootTime indicates that /proc/stat carried no btime line.
	ErrNoBootTime = errors.New("proc: no boot time")

	// ErrNoProcessors indicates that the processor count came back as zero.
	ErrNoProcessors = errors.New("proc: no processors")
)

package proctab

import "fmt"

// RunState is the canonical scheduling state of a process.
type RunState byte

const (
	Idle     RunState = 'I'
	Runnable RunState = 'R'
	Sleeping RunState = 'S'
	Stopped  RunState = 'T'
	Zombie   RunState = 'Z'
	Dead     RunState = 'D'
	// Running means on a processor right now. Runnable only means ready.
	Running  RunState = 'P'
	Unknown  RunState = '?'
)

func (s RunState) String() string { return string(s) }

// MarshalText renders the state as its letter.
func (s RunState) MarshalText() ([]byte, error) { return []byte{byte(s)}, nil }

func (s *RunState) UnmarshalText(b []byte) error {
	if len(b) != 1 {
		return fmt.Errorf("proctab: bad run state %q", b)
	}
	*s = RunState(b[0])
	return nil
}

// Process is the persistent record of one tracked PID.
type Process struct {
	// identity, written once when the record is created
	PID       int    `json:"pid"`
	PPID      int    `json:"ppid"`
	TGID      int    `json:"tgid"`
	Session   int    `json:"session"`
	TTY       int    `json:"tty"`
	TPGID     int    `json:"tpgid"`
	PGrp      int    `json:"pgrp"`
	UID       uint32 `json:"uid"`
	User      string `json:"user"`
	StartTime int64  `json:"start_time"`

	StartTimeText  string `json:"start_time_text"`
	Comm           string `json:"comm"`
	BasenameOffset int    `json:"basename_offset"`

	// rewritten every cycle
	VSize        uint64   `json:"vsize_pages"`
	RSS          uint64   `json:"rss_pages"`
	MemPercent   float64  `json:"mem_percent"`
	CPUPercent   float64  `json:"cpu_percent"`
	Nice         int      `json:"nice"`
	Priority     int      `json:"priority"`
	Time         uint64   `json:"time_cs"`
	Threads      int      `json:"threads"`
	State        RunState `json:"state"`
	KernelThread bool     `json:"kernel_thread"`
	Show         bool     `json:"show"`
	Updated      bool     `json:"-"`
}

// IsUserlandThread reports whether p is a non-leader thread of a user process.
func (p *Process) IsUserlandThread() bool { return p.PID != p.TGID }

// Basename returns the executable part of the display command.
func (p *Process) Basename() string {
	if p.BasenameOffset <= 0 || p.BasenameOffset > len(p.Comm) {
		return p.Comm
	}
	return p.Comm[:p.BasenameOffset]
}

// DefaultKernelThread treats records without a process group as kernel
// threads, which holds on both Linux and the BSDs.
func DefaultKernelThread(p *Process) bool { return p.PGrp == 0 }

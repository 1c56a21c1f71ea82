// Package proc is the Linux snapshot source of the process table. It reads
// /proc through github.com/prometheus/procfs and takes processor and memory
// counters from gopsutil.
//
// Overview
//
//   - Source implements snapshot.Source and snapshot.ArgvReader:
//     ProcessorCount() (int, error)
//     CPUScale() (int64, error)
//     Memory() (snapshot.Memory, error)
//     Snapshot() ([]snapshot.Descriptor, error)
//     Argv(d) ([]string, error)
//     Close() error
//
//   - NewSource(cfg) opens the mount point (default /proc) and reads the boot
//     time from /proc/stat. Any failure wraps proctab.ErrOpen.
//
//   - Config.Threads turns on per-task reads (/proc/<pid>/task/*/stat), which
//     makes the table pick its thread-scan strategy.
//
// # Descriptor fields
//
//	PID, PPID, PGrp, Session, TTY, TPGID : /proc/<pid>/stat
//	TGID, UID (real)                     : /proc/<pid>/status
//	StartSec   = btime + starttime/CLK_TCK
//	VSize      = vsize bytes / PAGE_SIZE
//	RSS        = rss pages
//	RTime      = (utime + stime) split into seconds and microseconds
//	Nice, Priority are passed through; both zero points are 0.
//
// # State letters
//
//	R        -> on processor (Linux does not tell running from queued)
//	S, D     -> sleeping
//	T, t     -> stopped
//	Z        -> zombie
//	X, x     -> dead
//	I        -> idle
//
// With Threads on, the process-level code is "active" unless the process is
// idle, stopped, a zombie or dead; each task then contributes its own letter.
//
// # CPU share
//
// Linux exposes no per-process CPU fraction, so Source derives one:
//
//	PctCPU = CPUScale * Δ(utime+stime)/CLK_TCK / Δwall
//
// Deltas are taken against the previous Snapshot call. A PID seen for the
// first time is charged its lifetime average instead. The value is a share of
// one processor, so the table clamps at cpus*100 percent.
//
// # Memory
//
// Used memory is total - free - buffers - cached, all in KB.
//
// # Environment overrides
//
//	CLK_TCK   : clock ticks per second (default 100)
//	PAGE_SIZE : page size in bytes (default os.Getpagesize())
//
// Processes that exit while a Snapshot is being read are skipped, never
// reported as errors. Listing /proc itself failing is an error.
package proc

// Package proctab keeps a persistent, PID-keyed table of processes and
// reconciles it against a fresh platform snapshot once per refresh tick.
//
// Overview
//
//   - Table: built by New from a snapshot.Source. Construction reads the
//     processor count (falls back to 1), the fixed-point CPU scale (fatal when
//     unreadable) and the source capabilities, and picks the run-state
//     strategy once. The simple strategy maps the process-level state code
//     directly. The thread-scan strategy is used when the source reports
//     per-thread states: an "active" process takes the state of its first
//     thread that is running, runnable, sleeping or stopped.
//
//   - RunCycle: refreshes the memory counters, fetches one snapshot and merges
//     every descriptor in snapshot order. New PIDs get their identity fields,
//     owner name, display command and start-time text exactly once; every
//     matched record gets its volatile metrics rewritten and Updated set.
//     Source errors are returned wrapped in ErrMemory or ErrSnapshot and the
//     caller is expected to stop.
//
//   - Reclaim: RunCycle never deletes records. The caller clears the Updated
//     flags with BeginCycle before a cycle and drops untouched records with
//     Prune after it (Scan does all three).
//
// Derived metrics
//
//	CPU%    = clamp(100 * PctCPU / scale, 0, cpus*100); scale 0 gives 0
//	MEM%    = RSS pages * page KB / total KB * 100 (unclamped by default)
//	Time    = (sec + round(usec/1e6)) * 100, in hundredths of a second
//	Started = "15:04 " when start > now-86400, else "Jan02 "
//
// A Table is not safe for concurrent use. Drive it from one goroutine and read
// records only between cycles.
package proctab

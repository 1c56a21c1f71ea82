// Package snapshot defines the contract between the process table and the
// platform that enumerates processes.
//
// A Source hands out one complete enumeration per call to Snapshot, plus the
// global memory counters and the constants needed to interpret the raw
// per-process fields (processor count, fixed-point CPU scale, page size and
// the nice/priority zero points). Implementations live in pkg/system/proc
// (Linux, backed by /proc) and in this package (Fixture, backed by YAML).
package snapshot

// StateCode is a platform run-state code as reported by a Source.
type StateCode int

const (
	CodeIdle StateCode = iota + 1
	CodeRunnable
	CodeSleeping
	CodeStopped
	CodeZombie
	CodeDead
	CodeOnProc
	// CodeActive marks a process whose run state is decided by its threads.
	CodeActive
)

var codeNames = map[StateCode]string{
	CodeIdle:     "idle",
	CodeRunnable: "runnable",
	CodeSleeping: "sleeping",
	CodeStopped:  "stopped",
	CodeZombie:   "zombie",
	CodeDead:     "dead",
	CodeOnProc:   "onproc",
	CodeActive:   "active",
}

func (c StateCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseStateCode maps a code name back to its value. Unrecognized names map
// to 0, which no classifier recognizes.
func ParseStateCode(name string) StateCode {
	for code, n := range codeNames {
		if n == name {
			return code
		}
	}
	return 0
}

// Descriptor is one raw process entry of a snapshot.
type Descriptor struct {
	PID      int
	PPID     int
	TGID     int
	Session  int
	TTY      int
	TPGID    int
	PGrp     int
	UID      uint32
	StartSec int64
	Comm     string

	// sizes in pages
	VSize uint64
	RSS   uint64

	// PctCPU is a fixed-point fraction; divide by the source's CPUScale.
	PctCPU   int64
	Nice     int
	Priority int
	State    StateCode

	RTimeSec  uint64
	RTimeUsec uint64

	// Threads holds per-thread state codes, in platform order. Only filled
	// when Capabilities.Threads is set.
	Threads []StateCode
}

// Memory holds the global memory and swap counters, in KB.
type Memory struct {
	TotalKB     uint64
	FreeKB      uint64
	UsedKB      uint64
	CachedKB    uint64
	BuffersKB   uint64
	TotalSwapKB uint64
	UsedSwapKB  uint64
}

// Capabilities describes what a Source can supply and how to read its raw
// fields. It is queried once, when the table is built.
type Capabilities struct {
	Threads      bool
	PageSizeKB   uint64
	NiceZero     int
	PriorityZero int
}

// Source supplies process snapshots. Every method blocks until the platform
// answers; a cycle treats any error as fatal.
type Source interface {
	ProcessorCount() (int, error)
	CPUScale() (int64, error)
	Memory() (Memory, error)
	Snapshot() ([]Descriptor, error)
	Capabilities() Capabilities
	Close() error
}

// ArgvReader is implemented by sources that can recover a process argument
// vector. Sources without it always yield the short command name.
type ArgvReader interface {
	Argv(d Descriptor) ([]string, error)
}

package proctab

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"k8s.io/utils/clock"

	"github.com/ja7ad/proctab/pkg/snapshot"
	"github.com/ja7ad/proctab/pkg/users"
)

// CPUData is the per-processor accounting slot.
type CPUData struct {
	TotalTime   uint64
	TotalPeriod uint64
}

// Totals are the aggregate counters of the last cycle.
type Totals struct {
	Tasks         int `json:"tasks"`
	Running       int `json:"running"`
	KernelThreads int `json:"kernel_threads"`
}

// Table is the persistent PID-keyed process table.
type Table struct {
	src   snapshot.Source
	argv  snapshot.ArgvReader
	users users.Directory

	pidFilter map[int]struct{}
	userID    uint32

	opts     Options
	log      *slog.Logger
	clock    clock.PassiveClock
	caps     snapshot.Capabilities
	strategy classifier

	cpuCount int
	scale    int64
	cpus     []CPUData

	procs  map[int]*Process
	totals Totals
	mem    snapshot.Memory
}

// New builds a Table over src. A failed processor count query falls back to
// one processor; an unreadable CPU scale is fatal. A nil dir gets a cached
// os/user directory. An empty pidFilter shows every PID.
func New(src snapshot.Source, dir users.Directory, pidFilter []int, userID uint32, opts Options) (*Table, error) {
	if src == nil {
		return nil, ErrOpen
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("component", "proctab")

	n, err := src.ProcessorCount()
	if err != nil || n < 1 {
		log.Warn("processor count unavailable, assuming 1", "count", n, "err", err)
		n = 1
	}

	scale, err := src.CPUScale()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCPUScale, err)
	}
	if scale == 0 {
		log.Warn("cpu scale is zero, cpu percentages will read 0")
	}

	if dir == nil {
		dir = users.New(0)
	}

	t := &Table{
		src:      src,
		users:    dir,
		userID:   userID,
		opts:     opts,
		log:      log,
		clock:    opts.Clock,
		caps:     src.Capabilities(),
		cpuCount: n,
		scale:    scale,
		cpus:     make([]CPUData, n),
		procs:    make(map[int]*Process),
	}
	if r, ok := src.(snapshot.ArgvReader); ok {
		t.argv = r
	}
	if len(pidFilter) > 0 {
		t.pidFilter = make(map[int]struct{}, len(pidFilter))
		for _, pid := range pidFilter {
			t.pidFilter[pid] = struct{}{}
		}
	}
	for i := range t.cpus {
		t.cpus[i] = CPUData{TotalTime: 1, TotalPeriod: 1}
	}
	t.strategy = newClassifier(t.caps)

	log.Debug("table ready", "cpus", n, "scale", scale, "strategy", t.strategy.name(),
		"page_kb", t.caps.PageSizeKB)
	return t, nil
}

// Close releases the source and the per-processor slots. It is safe on a nil
// Table and on repeated calls.
func (t *Table) Close() error {
	if t == nil || t.src == nil {
		return nil
	}
	err := t.src.Close()
	t.src = nil
	t.argv = nil
	t.cpus = nil
	return err
}

// GetOrCreate returns the record for pid and whether it was already tracked.
// A new record is not tracked until it is passed to Register.
func (t *Table) GetOrCreate(pid int) (*Process, bool) {
	if p, ok := t.procs[pid]; ok {
		return p, true
	}
	return &Process{PID: pid}, false
}

// Register starts tracking p, replacing any record with the same PID.
func (t *Table) Register(p *Process) { t.procs[p.PID] = p }

// Get returns the tracked record for pid, if any.
func (t *Table) Get(pid int) (*Process, bool) {
	p, ok := t.procs[pid]
	return p, ok
}

// Len reports the number of tracked records.
func (t *Table) Len() int { return len(t.procs) }

// ForEach visits tracked records in PID order until fn returns false.
// fn must not add records; it may mark them for Prune.
func (t *Table) ForEach(fn func(*Process) bool) {
	for _, pid := range slices.Sorted(maps.Keys(t.procs)) {
		if !fn(t.procs[pid]) {
			return
		}
	}
}

// BeginCycle clears every Updated flag and zeroes the counters.
func (t *Table) BeginCycle() {
	for _, p := range t.procs {
		p.Updated = false
	}
	t.totals = Totals{}
}

// Prune drops every record the last cycle did not touch and returns how many
// were dropped.
func (t *Table) Prune() int {
	n := 0
	for pid, p := range t.procs {
		if !p.Updated {
			delete(t.procs, pid)
			n++
		}
	}
	return n
}

// Scan runs one full refresh: BeginCycle, RunCycle and Prune.
func (t *Table) Scan() (int, error) {
	t.BeginCycle()
	if err := t.RunCycle(); err != nil {
		return 0, err
	}
	return t.Prune(), nil
}

func (t *Table) Totals() Totals { return t.totals }
func (t *Table) Memory() snapshot.Memory { return t.mem }
func (t *Table) ProcessorCount() int { return t.cpuCount }
func (t *Table) CPUScale() int64 { return t.scale }
func (t *Table) UserID() uint32 { return t.userID }
func (t *Table) Strategy() string { return t.strategy.name() }
func (t *Table) PageSizeKB() uint64 { return t.caps.PageSizeKB }

// CPUs returns the per-processor slots; nil after Close.
func (t *Table) CPUs() []CPUData { return t.cpus }

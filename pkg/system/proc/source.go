//go:build linux

package proc

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"k8s.io/utils/clock"

	"github.com/ja7ad/proctab/pkg/proctab"
	"github.com/ja7ad/proctab/pkg/snapshot"
	"github.com/ja7ad/proctab/pkg/system/util"
)

// CPUScale is the fixed-point denominator of Descriptor.PctCPU.
const CPUScale = 2048

// Stubs for hermetic tests.
var (
	cpuCounts     = cpu.Counts
	virtualMemory = mem.VirtualMemory
	swapMemory    = mem.SwapMemory
)

// Config selects where and how a Source reads.
type Config struct {
	// MountPoint defaults to /proc.
	MountPoint string

	// Threads reads every task of every process so run states can be
	// resolved per thread. Costs one extra stat read per thread.
	Threads bool

	Clock  clock.PassiveClock
	Logger *slog.Logger
}

type cpuSample struct {
	ticks uint64
	at    time.Time
}

// Source enumerates Linux processes from procfs. Memory and processor counts
// come from gopsutil.
type Source struct {
	fs       procfs.FS
	threads  bool
	clkTck   int
	pageSize int
	bootTime uint64
	clock    clock.PassiveClock
	log      *slog.Logger

	// per-PID cpu ticks from the previous snapshot
	cpuPrev map[int]cpuSample
	closed  bool
}

var (
	_ snapshot.Source     = (*Source)(nil)
	_ snapshot.ArgvReader = (*Source)(nil)
)

// NewSource opens procfs. Failures wrap proctab.ErrOpen.
func NewSource(cfg Config) (*Source, error) {
	if cfg.MountPoint == "" {
		cfg.MountPoint = procfs.DefaultMountPoint
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	pfs, err := procfs.NewFS(cfg.MountPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", proctab.ErrOpen, err)
	}
	st, err := pfs.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", proctab.ErrOpen, err)
	}
	if st.BootTime == 0 {
		return nil, fmt.Errorf("%w: %w", proctab.ErrOpen, ErrNoBootTime)
	}

	return &Source{
		fs:       pfs,
		threads:  cfg.Threads,
		clkTck:   ClockTicks(),
		pageSize: PageSize(),
		bootTime: st.BootTime,
		clock:    cfg.Clock,
		log:      cfg.Logger.With("component", "procfs", "mount", cfg.MountPoint),
		cpuPrev:  make(map[int]cpuSample),
	}, nil
}

func (s *Source) ProcessorCount() (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	n, err := cpuCounts(true)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, ErrNoProcessors
	}
	return n, nil
}

func (s *Source) CPUScale() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return CPUScale, nil
}

// Capabilities reports nice and priority exactly as /proc shows them, so both
// zero points are 0.
func (s *Source) Capabilities() snapshot.Capabilities {
	return snapshot.Capabilities{
		Threads:    s.threads,
		PageSizeKB: uint64(s.pageSize) / 1024,
	}
}

// Memory reports used memory as total - free - buffers - cached.
func (s *Source) Memory() (snapshot.Memory, error) {
	if s.closed {
		return snapshot.Memory{}, ErrClosed
	}
	vm, err := virtualMemory()
	if err != nil {
		return snapshot.Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	sw, err := swapMemory()
	if err != nil {
		return snapshot.Memory{}, fmt.Errorf("swap memory: %w", err)
	}

	m := snapshot.Memory{
		TotalKB:     vm.Total / 1024,
		FreeKB:      vm.Free / 1024,
		CachedKB:    vm.Cached / 1024,
		BuffersKB:   vm.Buffers / 1024,
		TotalSwapKB: sw.Total / 1024,
		UsedSwapKB:  sw.Used / 1024,
	}
	m.UsedKB = m.TotalKB - util.MinU64(m.TotalKB, m.FreeKB+m.BuffersKB+m.CachedKB)
	return m, nil
}

// Snapshot lists every process visible under the mount point. Processes that
// exit while being read are skipped.
func (s *Source) Snapshot() ([]snapshot.Descriptor, error) {
	if s.closed {
		return nil, ErrClosed
	}
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	now := s.clock.Now()
	next := make(map[int]cpuSample, len(procs))
	out := make([]snapshot.Descriptor, 0, len(procs))
	for _, p := range procs {
		d, ticks, err := s.describe(p)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.log.Debug("skipping process", "pid", p.PID, "err", err)
			}
			continue
		}
		d.PctCPU = s.pctCPU(p.PID, ticks, d.StartSec, now)
		next[p.PID] = cpuSample{ticks: ticks, at: now}
		out = append(out, d)
	}
	s.cpuPrev = next
	return out, nil
}

func (s *Source) describe(p procfs.Proc) (snapshot.Descriptor, uint64, error) {
	st, err := p.Stat()
	if err != nil {
		return snapshot.Descriptor{}, 0, err
	}
	status, err := p.NewStatus()
	if err != nil {
		return snapshot.Descriptor{}, 0, err
	}

	ticks := uint64(st.UTime) + uint64(st.STime)
	sec, usec := splitTicks(ticks, s.clkTck)
	d := snapshot.Descriptor{
		PID:       st.PID,
		PPID:      st.PPID,
		TGID:      status.TGID,
		Session:   st.Session,
		TTY:       st.TTY,
		TPGID:     st.TPGID,
		PGrp:      st.PGRP,
		UID:       uint32(status.UIDs[0]),
		StartSec:  int64(s.bootTime + st.Starttime/uint64(s.clkTck)),
		Comm:      st.Comm,
		VSize:     uint64(st.VSize) / uint64(s.pageSize),
		RSS:       uint64(max(st.RSS, 0)),
		Nice:      st.Nice,
		Priority:  st.Priority,
		State:     stateCode(st.State),
		RTimeSec:  sec,
		RTimeUsec: usec,
	}
	if d.TGID == 0 {
		d.TGID = d.PID
	}

	if s.threads {
		d.State = processCode(st.State)
		d.Threads = s.threadStates(p.PID)
	}
	return d, ticks, nil
}

func (s *Source) threadStates(pid int) []snapshot.StateCode {
	tasks, err := s.fs.AllThreads(pid)
	if err != nil {
		return nil
	}
	codes := make([]snapshot.StateCode, 0, len(tasks))
	for _, t := range tasks {
		st, err := t.Stat()
		if err != nil {
			continue
		}
		codes = append(codes, stateCode(st.State))
	}
	return codes
}

// pctCPU is the share of one processor used since the previous snapshot, in
// CPUScale units. A PID seen for the first time gets its lifetime average.
func (s *Source) pctCPU(pid int, ticks uint64, startSec int64, now time.Time) int64 {
	var cpuSec, wallSec float64
	if prev, ok := s.cpuPrev[pid]; ok {
		cpuSec = float64(util.DeltaU64(ticks, prev.ticks)) / float64(s.clkTck)
		wallSec = now.Sub(prev.at).Seconds()
	} else {
		cpuSec = float64(ticks) / float64(s.clkTck)
		wallSec = float64(now.Unix() - startSec)
	}
	return int64(CPUScale * util.SafeDiv(cpuSec, wallSec))
}

// Argv reads /proc/<pid>/cmdline. Kernel threads have none.
func (s *Source) Argv(d snapshot.Descriptor) ([]string, error) {
	if s.closed {
		return nil, ErrClosed
	}
	p, err := s.fs.Proc(d.PID)
	if err != nil {
		return nil, err
	}
	return p.CmdLine()
}

func (s *Source) Close() error {
	s.closed = true
	s.cpuPrev = nil
	return nil
}

package proctab

import (
	"fmt"
	"time"

	"github.com/ja7ad/proctab/pkg/snapshot"
	"github.com/ja7ad/proctab/pkg/system/util"
)

// RunCycle refreshes the memory counters and merges one snapshot into the
// table. It never deletes records; see BeginCycle and Prune.
//
// A source error aborts the cycle before any record is touched and is
// returned wrapped in ErrMemory or ErrSnapshot.
func (t *Table) RunCycle() error {
	if t.src == nil {
		return ErrClosed
	}

	mem, err := t.src.Memory()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMemory, err)
	}
	t.mem = mem

	descs, err := t.src.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	now := t.clock.Now()
	for i := range descs {
		t.merge(&descs[i], now)
	}

	t.log.Debug("cycle merged", "descriptors", len(descs), "tracked", len(t.procs),
		"running", t.totals.Running, "kernel_threads", t.totals.KernelThreads)
	return nil
}

func (t *Table) merge(d *snapshot.Descriptor, now time.Time) {
	p, known := t.GetOrCreate(d.PID)
	if !known {
		p.PPID = d.PPID
		p.TGID = d.TGID
		p.Session = d.Session
		p.TTY = d.TTY
		p.TPGID = d.TPGID
		p.PGrp = d.PGrp
		p.UID = d.UID
		p.StartTime = d.StartSec
		p.User = t.users.GetRef(d.UID)
		t.Register(p)
		p.Comm, p.BasenameOffset = t.ResolveName(*d)
		p.StartTimeText = FormatStartTime(p.StartTime, now)
	} else if t.opts.UpdateProcessNames {
		p.Comm, p.BasenameOffset = t.ResolveName(*d)
	}

	p.VSize = d.VSize
	p.RSS = d.RSS
	p.MemPercent = MemPercent(d.RSS, t.caps.PageSizeKB, t.mem.TotalKB)
	if t.opts.ClampMemPercent {
		p.MemPercent = util.Bounds(p.MemPercent)
	}
	p.CPUPercent = CPUPercent(d.PctCPU, t.scale, t.cpuCount)
	p.Nice = d.Nice - t.caps.NiceZero
	p.Time = ElapsedTime(d.RTimeSec, d.RTimeUsec)
	p.Priority = d.Priority - t.caps.PriorityZero

	t.strategy.classify(p, d)

	p.KernelThread = t.opts.KernelThread(p)
	if p.KernelThread {
		t.totals.KernelThreads++
	}
	p.Show = t.visible(p)

	t.totals.Tasks++
	if p.State == Running {
		t.totals.Running++
	}
	p.Updated = true
}

func (t *Table) visible(p *Process) bool {
	if t.opts.HideKernelThreads && p.KernelThread {
		return false
	}
	if t.opts.HideUserlandThreads && p.IsUserlandThread() {
		return false
	}
	if t.pidFilter != nil {
		_, ok := t.pidFilter[p.PID]
		return ok
	}
	return true
}

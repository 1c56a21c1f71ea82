package snapshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture replays snapshots recorded in a YAML document, one cycle per
// Snapshot call. It lets the table run on hosts where no live Source exists
// and gives tests a deterministic platform.
type Fixture struct {
	doc    fixtureDoc
	cursor int
	last   map[int][]string
	closed bool
}

type fixtureDoc struct {
	Processors   int          `yaml:"processors"`
	CPUScale     int64        `yaml:"cpu_scale"`
	Capabilities fixtureCaps  `yaml:"capabilities"`
	Cycles       []fixtureCyc `yaml:"cycles"`
}

type fixtureCaps struct {
	Threads      bool   `yaml:"threads"`
	PageSizeKB   uint64 `yaml:"page_size_kb"`
	NiceZero     int    `yaml:"nice_zero"`
	PriorityZero int    `yaml:"priority_zero"`
}

type fixtureCyc struct {
	Memory    fixtureMem    `yaml:"memory"`
	Processes []fixtureProc `yaml:"processes"`
}

type fixtureMem struct {
	TotalKB     uint64 `yaml:"total_kb"`
	FreeKB      uint64 `yaml:"free_kb"`
	UsedKB      uint64 `yaml:"used_kb"`
	CachedKB    uint64 `yaml:"cached_kb"`
	BuffersKB   uint64 `yaml:"buffers_kb"`
	TotalSwapKB uint64 `yaml:"total_swap_kb"`
	UsedSwapKB  uint64 `yaml:"used_swap_kb"`
}

type fixtureProc struct {
	PID       int      `yaml:"pid"`
	PPID      int      `yaml:"ppid"`
	TGID      int      `yaml:"tgid"`
	Session   int      `yaml:"session"`
	TTY       int      `yaml:"tty"`
	TPGID     int      `yaml:"tpgid"`
	PGrp      int      `yaml:"pgrp"`
	UID       uint32   `yaml:"uid"`
	StartSec  int64    `yaml:"start_sec"`
	Comm      string   `yaml:"comm"`
	Argv      []string `yaml:"argv"`
	VSize     uint64   `yaml:"vsize_pages"`
	RSS       uint64   `yaml:"rss_pages"`
	PctCPU    int64    `yaml:"pctcpu"`
	Nice      int      `yaml:"nice"`
	Priority  int      `yaml:"priority"`
	State     string   `yaml:"state"`
	RTimeSec  uint64   `yaml:"rtime_sec"`
	RTimeUsec uint64   `yaml:"rtime_usec"`
	Threads   []string `yaml:"threads"`
}

// LoadFixture reads a fixture document from path.
func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return ParseFixture(b)
}

// ParseFixture decodes a fixture document.
func ParseFixture(b []byte) (*Fixture, error) {
	var doc fixtureDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("fixture: decode: %w", err)
	}
	if len(doc.Cycles) == 0 {
		return nil, ErrEmptyFixture
	}
	if doc.Capabilities.PageSizeKB == 0 {
		doc.Capabilities.PageSizeKB = 4
	}
	return &Fixture{doc: doc}, nil
}

// Cycles returns how many snapshots the fixture holds.
func (f *Fixture) Cycles() int { return len(f.doc.Cycles) }

func (f *Fixture) ProcessorCount() (int, error) {
	if f.doc.Processors < 1 {
		return 0, errors.New("fixture: processor count not recorded")
	}
	return f.doc.Processors, nil
}

func (f *Fixture) CPUScale() (int64, error) {
	return f.doc.CPUScale, nil
}

func (f *Fixture) Capabilities() Capabilities {
	c := f.doc.Capabilities
	return Capabilities{
		Threads:      c.Threads,
		PageSizeKB:   c.PageSizeKB,
		NiceZero:     c.NiceZero,
		PriorityZero: c.PriorityZero,
	}
}

// Memory returns the counters of the cycle the next Snapshot call replays.
func (f *Fixture) Memory() (Memory, error) {
	if f.closed {
		return Memory{}, ErrClosed
	}
	if f.cursor >= len(f.doc.Cycles) {
		return Memory{}, ErrExhausted
	}
	m := f.doc.Cycles[f.cursor].Memory
	return Memory{
		TotalKB:     m.TotalKB,
		FreeKB:      m.FreeKB,
		UsedKB:      m.UsedKB,
		CachedKB:    m.CachedKB,
		BuffersKB:   m.BuffersKB,
		TotalSwapKB: m.TotalSwapKB,
		UsedSwapKB:  m.UsedSwapKB,
	}, nil
}

// Snapshot replays the current cycle and advances to the next one.
func (f *Fixture) Snapshot() ([]Descriptor, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.cursor >= len(f.doc.Cycles) {
		return nil, ErrExhausted
	}
	cyc := f.doc.Cycles[f.cursor]
	f.cursor++

	out := make([]Descriptor, 0, len(cyc.Processes))
	f.last = make(map[int][]string, len(cyc.Processes))
	for _, p := range cyc.Processes {
		tgid := p.TGID
		if tgid == 0 {
			tgid = p.PID
		}
		d := Descriptor{
			PID:       p.PID,
			PPID:      p.PPID,
			TGID:      tgid,
			Session:   p.Session,
			TTY:       p.TTY,
			TPGID:     p.TPGID,
			PGrp:      p.PGrp,
			UID:       p.UID,
			StartSec:  p.StartSec,
			Comm:      p.Comm,
			VSize:     p.VSize,
			RSS:       p.RSS,
			PctCPU:    p.PctCPU,
			Nice:      p.Nice,
			Priority:  p.Priority,
			State:     ParseStateCode(p.State),
			RTimeSec:  p.RTimeSec,
			RTimeUsec: p.RTimeUsec,
		}
		if f.doc.Capabilities.Threads {
			d.Threads = make([]StateCode, 0, len(p.Threads))
			for _, th := range p.Threads {
				d.Threads = append(d.Threads, ParseStateCode(th))
			}
		}
		if p.Argv != nil {
			f.last[p.PID] = p.Argv
		}
		out = append(out, d)
	}
	return out, nil
}

// Argv returns the argument vector recorded for d in the last replayed cycle.
func (f *Fixture) Argv(d Descriptor) ([]string, error) {
	argv, ok := f.last[d.PID]
	if !ok {
		return nil, ErrNoArgv
	}
	return argv, nil
}

func (f *Fixture) Close() error {
	f.closed = true
	return nil
}

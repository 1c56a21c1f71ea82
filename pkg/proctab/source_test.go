package proctab

import (
	"errors"
	"strconv"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/ja7ad/proctab/pkg/snapshot"
)

var errNoArgv = errors.New("no argv")

// fakeSource replays canned cycles. The last cycle repeats once exhausted.
type fakeSource struct {
	cpus     int
	cpusErr  error
	scale    int64
	scaleErr error
	caps     snapshot.Capabilities

	mem     snapshot.Memory
	memErr  error
	snapErr error
	cycles  [][]snapshot.Descriptor
	argv    map[int][]string

	next   int
	closed int
}

func newFakeSource(cycles ...[]snapshot.Descriptor) *fakeSource {
	return &fakeSource{
		cpus:   4,
		scale:  1000,
		caps:   snapshot.Capabilities{PageSizeKB: 4},
		mem:    snapshot.Memory{TotalKB: 1_000_000, FreeKB: 500_000},
		cycles: cycles,
		argv:   map[int][]string{},
	}
}

func (f *fakeSource) ProcessorCount() (int, error) { return f.cpus, f.cpusErr }
func (f *fakeSource) CPUScale() (int64, error) { return f.scale, f.scaleErr }
func (f *fakeSource) Capabilities() snapshot.Capabilities { return f.caps }
func (f *fakeSource) Memory() (snapshot.Memory, error) { return f.mem, f.memErr }
func (f *fakeSource) Close() error { f.closed++; return nil }

func (f *fakeSource) Snapshot() ([]snapshot.Descriptor, error) {
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	if len(f.cycles) == 0 {
		return nil, nil
	}
	i := min(f.next, len(f.cycles)-1)
	f.next++
	return f.cycles[i], nil
}

func (f *fakeSource) Argv(d snapshot.Descriptor) ([]string, error) {
	if a, ok := f.argv[d.PID]; ok {
		return a, nil
	}
	return nil, errNoArgv
}

// fakeUsers names every uid "u<uid>" and counts lookups.
type fakeUsers struct{ calls int }

func (u *fakeUsers) GetRef(uid uint32) string {
	u.calls++
	return "u" + strconv.FormatUint(uint64(uid), 10)
}

var testNow = time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Clock: testingclock.NewFakeClock(testNow)}
}

// desc is a user process leading its own group, sleeping.
func desc(pid int, comm string) snapshot.Descriptor {
	return snapshot.Descriptor{
		PID:      pid,
		PPID:     1,
		TGID:     pid,
		PGrp:     pid,
		Session:  pid,
		UID:      1000,
		StartSec: testNow.Unix() - 60,
		Comm:     comm,
		State:    snapshot.CodeSleeping,
	}
}

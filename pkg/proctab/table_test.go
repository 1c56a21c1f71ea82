package proctab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/proctab/pkg/snapshot"
)

func TestNew(t *testing.T) {
	src := newFakeSource()
	tbl, err := New(src, &fakeUsers{}, nil, 1000, testOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.ProcessorCount())
	assert.Equal(t, int64(1000), tbl.CPUScale())
	assert.Equal(t, uint32(1000), tbl.UserID())
	assert.Equal(t, "simple", tbl.Strategy())
	require.Len(t, tbl.CPUs(), 4)
	for _, c := range tbl.CPUs() {
		assert.Equal(t, CPUData{TotalTime: 1, TotalPeriod: 1}, c)
	}
	assert.Zero(t, tbl.Len())
}

func TestNew_Errors(t *testing.T) {
	t.Run("nil source", func(t *testing.T) {
		_, err := New(nil, nil, nil, 0, Options{})
		assert.ErrorIs(t, err, ErrOpen)
	})

	t.Run("cpu scale unreadable", func(t *testing.T) {
		src := newFakeSource()
		src.scaleErr = errors.New("sysctl failed")
		_, err := New(src, nil, nil, 0, testOptions())
		require.ErrorIs(t, err, ErrCPUScale)
		assert.ErrorContains(t, err, "sysctl failed")
	})

	t.Run("processor count falls back to one", func(t *testing.T) {
		src := newFakeSource()
		src.cpusErr = errors.New("no hw.ncpu")
		tbl, err := New(src, nil, nil, 0, testOptions())
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.ProcessorCount())
		assert.Len(t, tbl.CPUs(), 1)
	})

	t.Run("zero processors falls back to one", func(t *testing.T) {
		src := newFakeSource()
		src.cpus = 0
		tbl, err := New(src, nil, nil, 0, testOptions())
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.ProcessorCount())
	})

	t.Run("zero scale is not fatal", func(t *testing.T) {
		src := newFakeSource([]snapshot.Descriptor{{PID: 1, TGID: 1, PGrp: 1, PctCPU: 500}})
		src.scale = 0
		tbl, err := New(src, &fakeUsers{}, nil, 0, testOptions())
		require.NoError(t, err)
		require.NoError(t, tbl.RunCycle())
		p, _ := tbl.Get(1)
		assert.Equal(t, 0.0, p.CPUPercent)
	})
}

func TestClose(t *testing.T) {
	var nilTable *Table
	assert.NoError(t, nilTable.Close())

	src := newFakeSource()
	tbl, err := New(src, nil, nil, 0, testOptions())
	require.NoError(t, err)

	require.NoError(t, tbl.Close())
	require.NoError(t, tbl.Close())
	assert.Equal(t, 1, src.closed, "source is released once")
	assert.Nil(t, tbl.CPUs())
	assert.ErrorIs(t, tbl.RunCycle(), ErrClosed)
}

func TestGetOrCreate_Register(t *testing.T) {
	tbl, err := New(newFakeSource(), nil, nil, 0, testOptions())
	require.NoError(t, err)

	p, known := tbl.GetOrCreate(7)
	require.False(t, known)
	assert.Equal(t, 7, p.PID)
	assert.Zero(t, tbl.Len(), "created records stay untracked until registered")

	tbl.Register(p)
	again, known := tbl.GetOrCreate(7)
	assert.True(t, known)
	assert.Same(t, p, again)
	assert.Equal(t, 1, tbl.Len())
}

func TestForEach_PIDOrder(t *testing.T) {
	tbl, err := New(newFakeSource(), nil, nil, 0, testOptions())
	require.NoError(t, err)
	for _, pid := range []int{30, 4, 1000, 17} {
		tbl.Register(&Process{PID: pid})
	}

	var seen []int
	tbl.ForEach(func(p *Process) bool {
		seen = append(seen, p.PID)
		return true
	})
	assert.Equal(t, []int{4, 17, 30, 1000}, seen)

	seen = seen[:0]
	tbl.ForEach(func(p *Process) bool {
		seen = append(seen, p.PID)
		return len(seen) < 2
	})
	assert.Equal(t, []int{4, 17}, seen)
}

func TestBeginCycle_Prune(t *testing.T) {
	src := newFakeSource(
		[]snapshot.Descriptor{desc(10, "a"), desc(11, "b")},
		[]snapshot.Descriptor{desc(11, "b")},
	)
	tbl, err := New(src, &fakeUsers{}, nil, 0, testOptions())
	require.NoError(t, err)

	removed, err := tbl.Scan()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 2, tbl.Len())

	tbl.BeginCycle()
	assert.Zero(t, tbl.Totals())
	require.NoError(t, tbl.RunCycle())

	stale, ok := tbl.Get(10)
	require.True(t, ok, "a cycle never deletes records")
	assert.False(t, stale.Updated)
	fresh, _ := tbl.Get(11)
	assert.True(t, fresh.Updated)

	assert.Equal(t, 1, tbl.Prune())
	_, ok = tbl.Get(10)
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())
}

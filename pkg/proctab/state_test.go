package proctab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ja7ad/proctab/pkg/snapshot"
)

func TestSimpleStrategy(t *testing.T) {
	tests := []struct {
		code snapshot.StateCode
		want RunState
	}{
		{snapshot.CodeIdle, Idle},
		{snapshot.CodeRunnable, Runnable},
		{snapshot.CodeSleeping, Sleeping},
		{snapshot.CodeStopped, Stopped},
		{snapshot.CodeZombie, Zombie},
		{snapshot.CodeDead, Dead},
		{snapshot.CodeOnProc, Running},
		{snapshot.CodeActive, Unknown},
		{0, Unknown},
		{99, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			p := &Process{Threads: 7}
			simple{}.classify(p, &snapshot.Descriptor{State: tt.code, Threads: []snapshot.StateCode{1, 2}})
			assert.Equal(t, tt.want, p.State)
			assert.Equal(t, 7, p.Threads, "simple strategy keeps the prior thread count")
		})
	}
}

func TestThreadScanStrategy(t *testing.T) {
	tests := []struct {
		name    string
		code    snapshot.StateCode
		threads []snapshot.StateCode
		want    RunState
	}{
		{"first resolving thread wins", snapshot.CodeActive,
			[]snapshot.StateCode{0, snapshot.CodeSleeping, snapshot.CodeOnProc}, Sleeping},
		{"on processor", snapshot.CodeActive,
			[]snapshot.StateCode{snapshot.CodeOnProc, snapshot.CodeSleeping}, Running},
		{"runnable", snapshot.CodeActive,
			[]snapshot.StateCode{snapshot.CodeZombie, snapshot.CodeRunnable}, Runnable},
		{"stopped thread", snapshot.CodeActive,
			[]snapshot.StateCode{snapshot.CodeStopped}, Stopped},
		{"no thread resolves", snapshot.CodeActive,
			[]snapshot.StateCode{0, snapshot.CodeDead}, Unknown},
		{"no threads", snapshot.CodeActive, nil, Unknown},
		{"idle", snapshot.CodeIdle, []snapshot.StateCode{snapshot.CodeOnProc}, Idle},
		{"stopped", snapshot.CodeStopped, nil, Stopped},
		{"zombie", snapshot.CodeZombie, nil, Zombie},
		{"dead", snapshot.CodeDead, nil, Dead},
		{"process-level sleeping", snapshot.CodeSleeping, nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Process{Threads: 9}
			threadScan{}.classify(p, &snapshot.Descriptor{State: tt.code, Threads: tt.threads})
			assert.Equal(t, tt.want, p.State)
			assert.Equal(t, len(tt.threads), p.Threads)
		})
	}
}

func TestNewClassifier(t *testing.T) {
	assert.Equal(t, "simple", newClassifier(snapshot.Capabilities{}).name())
	assert.Equal(t, "thread-scan", newClassifier(snapshot.Capabilities{Threads: true}).name())
}

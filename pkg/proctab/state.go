package proctab

import "github.com/ja7ad/proctab/pkg/snapshot"

// classifier sets the run state of a record from its descriptor. One is
// chosen per Table from the source capabilities.
type classifier interface {
	classify(p *Process, d *snapshot.Descriptor)
	name() string
}

func newClassifier(caps snapshot.Capabilities) classifier {
	if caps.Threads {
		return threadScan{}
	}
	return simple{}
}

var simpleStates = map[snapshot.StateCode]RunState{
	snapshot.CodeIdle:     Idle,
	snapshot.CodeRunnable: Runnable,
	snapshot.CodeSleeping: Sleeping,
	snapshot.CodeStopped:  Stopped,
	snapshot.CodeZombie:   Zombie,
	snapshot.CodeDead:     Dead,
	snapshot.CodeOnProc:   Running,
}

// simple maps the process-level code directly. Thread counts are left alone.
type simple struct{}

func (simple) name() string { return "simple" }

func (simple) classify(p *Process, d *snapshot.Descriptor) {
	p.State = simpleState(d.State)
}

func simpleState(c snapshot.StateCode) RunState {
	if s, ok := simpleStates[c]; ok {
		return s
	}
	return Unknown
}

// threadScan resolves an active process from its per-thread states.
type threadScan struct{}

func (threadScan) name() string { return "thread-scan" }

func (threadScan) classify(p *Process, d *snapshot.Descriptor) {
	p.Threads = len(d.Threads)

	switch d.State {
	case snapshot.CodeIdle, snapshot.CodeStopped, snapshot.CodeZombie, snapshot.CodeDead:
		p.State = simpleState(d.State)
	case snapshot.CodeActive:
		p.State = scanThreads(d.Threads)
	default:
		p.State = Unknown
	}
}

// scanThreads returns the state of the first thread that resolves, in order.
func scanThreads(threads []snapshot.StateCode) RunState {
	for _, c := range threads {
		switch c {
		case snapshot.CodeOnProc:
			return Running
		case snapshot.CodeRunnable:
			return Runnable
		case snapshot.CodeSleeping:
			return Sleeping
		case snapshot.CodeStopped:
			return Stopped
		}
	}
	return Unknown
}

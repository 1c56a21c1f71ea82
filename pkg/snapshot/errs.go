package snapshot

import "errors"

var (
	// ErrExhausted indicates that a Fixture has no cycles left to replay.
	ErrExhausted = errors.New("snapshot: fixture exhausted")

	// ErrEmptyFixture indicates that a fixture document declares no cycles.
	ErrEmptyFixture = errors.New("snapshot: fixture has no cycles")

	// ErrNoArgv indicates that a process has no recorded argument vector.
	ErrNoArgv = errors.New("snapshot: no argv")

	// ErrClosed indicates a call on a Source after Close.
	ErrClosed = errors.New("snapshot: source closed")
)

package executor

import "errors"

var (
	// ErrNeverCompleted is returned when the root future is pending and no
	// task can make progress.
	ErrNeverCompleted = errors.New("executor: future never completed")

	// ErrAlreadyRunning is returned when a second goroutine tries to drive a
	// runtime, or Close is called while it is being driven.
	ErrAlreadyRunning = errors.New("executor: runtime is already running")

	// ErrRuntimeClosed is returned when driving a closed runtime.
	ErrRuntimeClosed = errors.New("executor: runtime is closed")

	// ErrResultConsumed is raised when a JoinHandle is polled after it
	// already produced its value.
	ErrResultConsumed = errors.New("executor: join handle result already consumed")

	// ErrHandleDetached is raised when a JoinHandle is polled after Detach.
	ErrHandleDetached = errors.New("executor: join handle detached")

	// ErrTaskDiscarded is raised when a JoinHandle's task was dropped by
	// Close before it completed.
	ErrTaskDiscarded = errors.New("executor: task discarded before completion")
)

/*
Package executor is a small cooperative runtime for futures.

A Runtime owns a FIFO ready queue of tasks. Spawn adds a task and returns a
JoinHandle; BlockOn drives a root future to completion, interleaving it with
every queued task; Run drives the queue until it is empty. Tasks only give up
control by returning Pending from Poll, so a task that blocks the goroutine
stalls the whole runtime.

# Scheduling modes

ModeBusyPoll re-polls every pending task once per drain pass and hands out
no-op wakers. Progress never depends on a wake, but a queue whose tasks are
all waiting on wall-clock time is polled again and again until the time has
passed: the loop spins. WithMaxPasses bounds that spin.

ModeParked gives each task a waker and only re-polls tasks that were woken.
Sleeps register with the runtime's timer queue, and the loop parks until the
next deadline, a wake, or a spawn. With nothing queued and no timer pending
the loop waits at most the configured idle timeout before giving up.

In both modes a root that is pending while nothing else can run fails with
ErrNeverCompleted instead of hanging.

# Thread Safety

Spawn, JoinHandle and wakers may be used from any goroutine. Only one
goroutine drives a Runtime at a time; the ready queue lock is never held
while a task is polled.
*/
package executor

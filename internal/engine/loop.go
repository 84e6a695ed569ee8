package engine

import "context"

// loopQueueSize bounds how many pending callbacks the loop will buffer
// before Post blocks the caller. Producers are timer fires, HTTP
// completions, MPD samples and signal-driven actions, each posting a few
// callbacks at a time, so this is generous headroom, not a real limit.
const loopQueueSize = 256

// Loop is the single goroutine every state mutation in this daemon runs
// on: scrobbler state transitions, journal writes, and detector events all
// happen here, never concurrently with each other. Producers elsewhere
// (time.AfterFunc callbacks, goroutines doing blocking HTTP or MPD I/O)
// hand their continuation to Post instead of touching shared state
// themselves.
type Loop struct {
	tasks chan func()
}

// NewLoop returns an unstarted Loop.
func NewLoop() *Loop {
	return &Loop{tasks: make(chan func(), loopQueueSize)}
}

// Post queues f to run on the loop goroutine. Safe to call from any
// goroutine, including from within a callback already running on the loop.
func (l *Loop) Post(f func()) {
	l.tasks <- f
}

// Run drains posted callbacks until ctx is cancelled. It must be called
// from exactly one goroutine for the lifetime of the Loop.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-l.tasks:
			f()
		}
	}
}

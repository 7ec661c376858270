package engine

import (
	"context"
	"errors"
	"time"
)

// ErrAborted is returned by interactive waits when the operator quits.
var ErrAborted = errors.New("session aborted")

// Clock is the timing source. Now must be monotonic.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

type EventType int

const (
	EventKey EventType = iota
	EventQuit
)

type Event struct {
	Type EventType
	Key  Key
}

func (e Event) IsAbort() bool {
	return e.Type == EventQuit || (e.Type == EventKey && e.Key == KeyEscape)
}

// Input is the pending event queue of the presentation layer.
type Input interface {
	Poll() (Event, bool)
	Clear()
}

// NoDeadline makes a wait run until an accepted event or an abort.
const NoDeadline time.Duration = -1

const pollInterval = time.Millisecond

type WaitResult struct {
	Event    Event
	Elapsed  time.Duration
	TimedOut bool
}

// Waiter polls input against a deadline measured from its own start.
type Waiter struct {
	Clock Clock
	Input Input
}

// Wait returns the first event accepted by accept, or TimedOut once d has
// elapsed. Escape, quit and ctx cancellation return ErrAborted. Events that
// are neither accepted nor aborts are dropped.
func (w *Waiter) Wait(ctx context.Context, d time.Duration, accept func(Event) bool) (WaitResult, error) {
	start := w.Clock.Now()
	for {
		if err := ctx.Err(); err != nil {
			return WaitResult{Elapsed: w.Clock.Now().Sub(start)}, ErrAborted
		}
		for {
			ev, ok := w.Input.Poll()
			if !ok {
				break
			}
			if ev.IsAbort() {
				return WaitResult{Event: ev, Elapsed: w.Clock.Now().Sub(start)}, ErrAborted
			}
			if accept(ev) {
				return WaitResult{Event: ev, Elapsed: w.Clock.Now().Sub(start)}, nil
			}
		}
		if d >= 0 && w.Clock.Now().Sub(start) >= d {
			return WaitResult{Elapsed: d, TimedOut: true}, nil
		}
		w.Clock.Sleep(pollInterval)
	}
}

// CheckAbort drains pending input and reports an abort if one was queued.
func (w *Waiter) CheckAbort(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrAborted
	}
	for {
		ev, ok := w.Input.Poll()
		if !ok {
			return nil
		}
		if ev.IsAbort() {
			return ErrAborted
		}
	}
}

func anyKey(ev Event) bool { return ev.Type == EventKey }

func keyDirection(k Key) (Direction, bool) {
	switch k {
	case KeyUp:
		return DirUp, true
	case KeyDown:
		return DirDown, true
	case KeyLeft:
		return DirLeft, true
	case KeyRight:
		return DirRight, true
	}
	return 0, false
}

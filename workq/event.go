// Package workq implements the renderer's tile dispatch model: a
// fixed-size worker pool draining a job queue, and Event, a countdown
// latch used to signal tile completion and chain dependent stages (for
// example, a denoise pass that must wait on three output buffers).
package workq

import "sync"

// Job is a unit of work submitted to a Queue.
type Job func()

// Event is a countdown latch. It is created with a count n ≥ 0; each
// call to Signal decrements the count, and once it reaches zero every
// blocked Wait is released and every registered notification fires.
// The zero-to-completion transition happens exactly once.
type Event struct {
	mu        sync.Mutex
	count     int
	done      bool
	waitCh    chan struct{}
	onDone    []func()
}

// NewEvent creates an Event with the given initial counter. A count of
// zero is already complete.
func NewEvent(count int) *Event {
	e := &Event{
		count:  count,
		waitCh: make(chan struct{}),
	}
	if count <= 0 {
		e.count = 0
		e.done = true
		close(e.waitCh)
	}
	return e
}

// Signal decrements the event's counter. When the counter reaches zero
// it releases every blocked Wait and fires every registered
// notification, in the LIFO order they were registered.
func (e *Event) Signal() {
	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		return
	}
	e.count--
	if e.count > 0 {
		e.mu.Unlock()
		return
	}
	e.done = true
	callbacks := make([]func(), len(e.onDone))
	for i, f := range e.onDone {
		callbacks[len(e.onDone)-1-i] = f
	}
	e.onDone = nil
	close(e.waitCh)
	e.mu.Unlock()

	for _, f := range callbacks {
		f()
	}
}

// Wait blocks until the event's counter reaches zero. It returns
// immediately if the event has already completed.
func (e *Event) Wait() {
	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		return
	}
	ch := e.waitCh
	e.mu.Unlock()
	<-ch
}

// Test reports whether the event has already completed, without
// blocking.
func (e *Event) Test() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Notify registers a continuation that runs func(obj, arg) once e
// completes — on q if q is non-nil, inline otherwise — and returns a
// fresh Event that itself completes when the continuation has run. If e
// has already completed, the continuation is dispatched immediately.
func (e *Event) Notify(q *Queue, fn func(obj, arg any), obj, arg any) *Event {
	follow := NewEvent(1)
	run := func() {
		fn(obj, arg)
		follow.Signal()
	}
	dispatch := func() {
		if q != nil {
			q.Enqueue(run)
		} else {
			run()
		}
	}

	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		dispatch()
		return follow
	}
	e.onDone = append(e.onDone, dispatch)
	e.mu.Unlock()
	return follow
}

// Merge returns an event that signals once every event in events has
// signaled, implemented by notifying a shared countdown onto each.
func Merge(events []*Event) *Event {
	out := NewEvent(len(events))
	if len(events) == 0 {
		return out
	}
	for _, ev := range events {
		ev.Notify(nil, func(obj, arg any) {
			obj.(*Event).Signal()
		}, out, nil)
	}
	return out
}

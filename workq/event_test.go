package workq

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEventSignalReleasesWait(t *testing.T) {
	e := NewEvent(3)
	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Wait returned before all signals")
	case <-time.After(20 * time.Millisecond):
	}

	e.Signal()
	e.Signal()
	e.Signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Wait did not return after final signal")
	}
	if !e.Test() {
		t.Fatalf("Test() should report complete")
	}
}

func TestEventZeroCountIsImmediatelyDone(t *testing.T) {
	e := NewEvent(0)
	if !e.Test() {
		t.Fatalf("zero-count event should be complete")
	}
	e.Wait() // must not block
}

func TestConcurrentWaitsAllReturn(t *testing.T) {
	e := NewEvent(1)
	const n = 50
	var wg atomic.Int32
	wg.Store(n)
	for i := 0; i < n; i++ {
		go func() {
			e.Wait()
			wg.Add(-1)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	e.Signal()
	deadline := time.Now().Add(time.Second)
	for wg.Load() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if wg.Load() != 0 {
		t.Fatalf("%d waiters never returned", wg.Load())
	}
}

func TestNotifyAfterCompletionFiresOnce(t *testing.T) {
	e := NewEvent(1)
	e.Signal()

	var calls atomic.Int32
	follow := e.Notify(nil, func(obj, arg any) {
		calls.Add(1)
	}, nil, nil)

	follow.Wait()
	if calls.Load() != 1 {
		t.Fatalf("notify fired %d times, want 1", calls.Load())
	}
}

func TestNotifyBeforeCompletionFiresAfterSignal(t *testing.T) {
	e := NewEvent(1)
	var fired atomic.Bool
	follow := e.Notify(nil, func(obj, arg any) {
		fired.Store(true)
	}, nil, nil)

	if fired.Load() {
		t.Fatalf("notify fired before signal")
	}
	e.Signal()
	follow.Wait()
	if !fired.Load() {
		t.Fatalf("notify did not fire after signal")
	}
}

func TestMergeSignalsWhenAllInputsSignal(t *testing.T) {
	a := NewEvent(1)
	b := NewEvent(1)
	merged := Merge([]*Event{a, b})

	done := make(chan struct{})
	go func() {
		merged.Wait()
		close(done)
	}()

	a.Signal()
	select {
	case <-done:
		t.Fatalf("merged event completed before second input signaled")
	case <-time.After(20 * time.Millisecond):
	}

	b.Signal()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("merged event did not complete after all inputs signaled")
	}
}

func TestMergeOfEmptySliceIsDone(t *testing.T) {
	e := Merge(nil)
	if !e.Test() {
		t.Fatalf("merge of no events should be immediately complete")
	}
}

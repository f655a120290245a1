package scheduler

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

var epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualAfterFunc(t *testing.T) {
	v := NewVirtual(epoch)
	fired := 0
	v.AfterFunc(2*time.Second, func() { fired++ })

	v.Advance(1999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired too early")
	}
	v.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected one firing got %d", fired)
	}
	v.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("one-shot timer fired again")
	}
	if v.Pending() != 0 {
		t.Fatalf("expected no pending timers")
	}
}

func TestVirtualEvery(t *testing.T) {
	v := NewVirtual(epoch)
	ticks := 0
	var tm Timer
	tm = v.Every(time.Second, func() {
		ticks++
		if ticks == 5 {
			tm.Stop()
		}
	})

	v.Advance(3 * time.Second)
	if ticks != 3 {
		t.Fatalf("expected 3 ticks got %d", ticks)
	}
	v.Advance(10 * time.Second)
	if ticks != 5 {
		t.Fatalf("expected ticker to stop itself at 5 got %d", ticks)
	}
	if !v.Now().Equal(epoch.Add(13 * time.Second)) {
		t.Fatalf("unexpected clock %v", v.Now())
	}
}

func TestVirtualOrderAndStop(t *testing.T) {
	v := NewVirtual(epoch)
	var order []string
	v.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	v.AfterFunc(time.Second, func() {
		order = append(order, "a")
		v.AfterFunc(0, func() { order = append(order, "nested") })
	})
	stopped := v.AfterFunc(time.Second, func() { order = append(order, "stopped") })

	if !stopped.Stop() {
		t.Fatalf("stop should report an active timer")
	}
	if stopped.Stop() {
		t.Fatalf("second stop should report inactive")
	}

	v.Advance(5 * time.Second)
	want := []string{"a", "nested", "b"}
	if len(order) != len(want) {
		t.Fatalf("unexpected order %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order %v", order)
		}
	}
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	NewReal().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("real timer did not fire")
	}
}

func TestRealEveryStop(t *testing.T) {
	ticks := make(chan struct{}, 16)
	tm := NewReal().Every(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatalf("real ticker did not tick")
	}
	if !tm.Stop() {
		t.Fatalf("first stop should report active")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report inactive")
	}
}

func TestRealOnFakeClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewRealWithClock(clock)
	if !s.Now().Equal(epoch) {
		t.Fatalf("unexpected now %v", s.Now())
	}

	fired := make(chan struct{})
	s.AfterFunc(2*time.Second, func() { close(fired) })
	ticks := make(chan struct{}, 1)
	tm := s.Every(time.Second, func() { ticks <- struct{}{} })
	defer tm.Stop()

	clock.Advance(time.Second)
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatalf("ticker did not tick after one period")
	}
	select {
	case <-fired:
		t.Fatalf("timer fired before its delay")
	default:
	}

	clock.Advance(time.Second)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("timer did not fire after its delay")
	}
}

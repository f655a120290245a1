package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a handle on a scheduled callback.
type Timer interface {
	// Stop prevents future firings. It reports whether the timer was still active.
	// A callback that is already running is not interrupted.
	Stop() bool
}

// Scheduler runs callbacks after a delay or on a fixed period.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Every(period time.Duration, f func()) Timer
}

// Real schedules on a clockwork clock, the wall clock unless one is given.
// Callbacks run on their own goroutines.
type Real struct {
	clock clockwork.Clock
}

func NewReal() Real {
	return NewRealWithClock(clockwork.NewRealClock())
}

func NewRealWithClock(clock clockwork.Clock) Real {
	return Real{clock: clock}
}

func (r Real) Now() time.Time {
	return r.clock.Now()
}

func (r Real) AfterFunc(d time.Duration, f func()) Timer {
	return r.clock.AfterFunc(d, f)
}

func (r Real) Every(period time.Duration, f func()) Timer {
	t := &ticker{ticker: r.clock.NewTicker(period), stop: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.stop:
				return
			case <-t.ticker.Chan():
				f()
			}
		}
	}()
	return t
}

type ticker struct {
	ticker clockwork.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
		stopped = true
	})
	return stopped
}

package scheduler

import (
	"sync"
	"time"
)

// Virtual is a manually advanced clock. Callbacks fire synchronously inside Advance,
// in due-time order, on the goroutine that called Advance.
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*virtualTask
}

type virtualTask struct {
	v      *Virtual
	at     time.Time
	period time.Duration
	seq    uint64
	f      func()
}

func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	return v.schedule(d, 0, f)
}

func (v *Virtual) Every(period time.Duration, f func()) Timer {
	if period <= 0 {
		panic("scheduler: non-positive period")
	}
	return v.schedule(period, period, f)
}

func (v *Virtual) schedule(d, period time.Duration, f func()) *virtualTask {
	v.mu.Lock()
	defer v.mu.Unlock()
	if d < 0 {
		d = 0
	}
	v.seq++
	t := &virtualTask{v: v, at: v.now.Add(d), period: period, seq: v.seq, f: f}
	v.tasks = append(v.tasks, t)
	return t
}

// Pending reports how many timers are still scheduled.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tasks)
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.nextDue(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			v.remove(next)
		}
		f := next.f
		v.mu.Unlock()

		f()
	}
}

func (v *Virtual) nextDue(target time.Time) *virtualTask {
	var next *virtualTask
	for _, t := range v.tasks {
		if t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (v *Virtual) remove(t *virtualTask) bool {
	for i, candidate := range v.tasks {
		if candidate == t {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (t *virtualTask) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	return t.v.remove(t)
}

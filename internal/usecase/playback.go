package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
)

// Playback simulates the demo video: a seconds counter that runs while playing and
// pauses itself when it reaches the end of the timeline.
type Playback struct {
	mu       sync.Mutex
	sched    scheduler.Scheduler
	tick     time.Duration
	timeline domain.Timeline

	elapsed int
	playing bool
	gen     uint64
	ticker  scheduler.Timer
}

func NewPlayback(sched scheduler.Scheduler, timeline domain.Timeline, tick time.Duration) *Playback {
	if tick <= 0 {
		tick = time.Second
	}
	return &Playback{
		sched:    sched,
		tick:     tick,
		timeline: domain.NewTimeline(timeline.Duration, timeline.Features),
	}
}

// Play starts the counter. It is a no-op when already playing or at the end.
func (p *Playback) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked()
}

func (p *Playback) playLocked() {
	if p.playing || p.elapsed >= p.timeline.Duration {
		return
	}
	p.playing = true
	p.gen++
	gen := p.gen
	p.ticker = p.sched.Every(p.tick, func() { p.onTick(gen) })
}

func (p *Playback) onTick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || !p.playing {
		return
	}
	p.elapsed++
	if p.elapsed >= p.timeline.Duration {
		p.elapsed = p.timeline.Duration
		p.pauseLocked()
	}
}

func (p *Playback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *Playback) pauseLocked() {
	p.playing = false
	p.gen++
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

func (p *Playback) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.pauseLocked()
		return
	}
	p.playLocked()
}

// Seek moves the counter to t, clamped to the timeline. Seeking to the end pauses.
func (p *Playback) Seek(t int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elapsed = p.timeline.Clamp(t)
	if p.elapsed >= p.timeline.Duration {
		p.pauseLocked()
	}
}

// JumpTo seeks to the start of a feature.
func (p *Playback) JumpTo(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.timeline.Features) {
		return domain.ValidationError{Field: "feature", Reason: fmt.Sprintf("no feature at index %d", index)}
	}
	p.elapsed = p.timeline.Clamp(p.timeline.Features[index].Timestamp)
	if p.elapsed >= p.timeline.Duration {
		p.pauseLocked()
	}
	return nil
}

// Restart pauses and rewinds to zero.
func (p *Playback) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
	p.elapsed = 0
}

func (p *Playback) Elapsed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsed
}

func (p *Playback) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Playback) ActiveFeature() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeline.ActiveFeature(p.elapsed)
}

func (p *Playback) Timeline() domain.Timeline {
	return domain.NewTimeline(p.timeline.Duration, p.timeline.Features)
}

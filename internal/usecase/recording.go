package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
)

type RecordingState string

const (
	RecordingIdle     RecordingState = "idle"
	RecordingActive   RecordingState = "recording"
	RecordingCaptured RecordingState = "captured"
)

const microphoneResource = "microphone"

var ErrNoCaptureDevice = errors.New("no capture device configured")

// RecordingSession tracks one voice recording: the capture handle and a seconds counter.
type RecordingSession struct {
	mu      sync.Mutex
	sched   scheduler.Scheduler
	capture AudioCapture
	tick    time.Duration

	state   RecordingState
	elapsed int
	gen     uint64
	ticker  scheduler.Timer
	handle  CaptureHandle
	payload *domain.AudioRef
}

func NewRecordingSession(sched scheduler.Scheduler, capture AudioCapture, tick time.Duration) *RecordingSession {
	if tick <= 0 {
		tick = time.Second
	}
	return &RecordingSession{
		sched:   sched,
		capture: capture,
		tick:    tick,
		state:   RecordingIdle,
	}
}

// Start opens the capture device and starts counting. When the device cannot be
// opened the session stays idle and a ResourceAccessError is returned.
func (r *RecordingSession) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecordingIdle {
		return domain.InvalidTransitionError{Entity: "recording", From: string(r.state), To: string(RecordingActive)}
	}
	if r.capture == nil {
		return domain.ResourceAccessError{Resource: microphoneResource, Err: ErrNoCaptureDevice}
	}

	handle, err := r.capture.Open(ctx)
	if err != nil {
		return domain.ResourceAccessError{Resource: microphoneResource, Err: err}
	}

	r.handle = handle
	r.state = RecordingActive
	r.elapsed = 0
	r.payload = nil
	r.gen++
	gen := r.gen
	r.ticker = r.sched.Every(r.tick, func() { r.onTick(gen) })
	return nil
}

func (r *RecordingSession) onTick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || r.state != RecordingActive {
		return
	}
	r.elapsed++
}

// Stop freezes the counter and keeps the captured audio.
func (r *RecordingSession) Stop() (domain.AudioRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecordingActive {
		return domain.AudioRef{}, domain.InvalidTransitionError{Entity: "recording", From: string(r.state), To: string(RecordingCaptured)}
	}

	r.stopTicker()
	handle := r.handle
	r.handle = nil

	uri, err := handle.Finish()
	closeHandle(handle)
	if err != nil {
		r.state = RecordingIdle
		r.elapsed = 0
		return domain.AudioRef{}, domain.ResourceAccessError{Resource: microphoneResource, Err: err}
	}

	payload := domain.AudioRef{URI: uri, DurationSeconds: r.elapsed}
	r.payload = &payload
	r.state = RecordingCaptured
	return payload, nil
}

// Discard drops a captured recording.
func (r *RecordingSession) Discard() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case RecordingIdle:
		return nil
	case RecordingActive:
		return domain.InvalidTransitionError{Entity: "recording", From: string(r.state), To: string(RecordingIdle), Reason: "stop the recording first"}
	}
	r.payload = nil
	r.elapsed = 0
	r.state = RecordingIdle
	return nil
}

// Cancel releases the capture device from any state without producing a payload.
func (r *RecordingSession) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTicker()
	if r.handle != nil {
		closeHandle(r.handle)
		r.handle = nil
	}
	r.payload = nil
	r.elapsed = 0
	r.state = RecordingIdle
}

func (r *RecordingSession) stopTicker() {
	r.gen++
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *RecordingSession) State() RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *RecordingSession) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Payload returns the captured audio, or nil unless the session is captured.
func (r *RecordingSession) Payload() *domain.AudioRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.payload == nil {
		return nil
	}
	p := *r.payload
	return &p
}

func closeHandle(h CaptureHandle) {
	if err := h.Close(); err != nil {
		slog.Warn("failed to release capture handle", slog.String("module", "recording"), slog.Any("error", err))
	}
}

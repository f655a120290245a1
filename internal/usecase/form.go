package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
)

type FormState string

const (
	FormEditing    FormState = "editing"
	FormValidating FormState = "validating"
	FormSubmitting FormState = "submitting"
	FormSubmitted  FormState = "submitted"
)

// FormField names an editable field of the complaint form.
type FormField string

const (
	FieldName     FormField = "name"
	FieldPhone    FormField = "phone"
	FieldEmail    FormField = "email"
	FieldLocation FormField = "location"
	FieldCategory FormField = "category"
	FieldPriority FormField = "priority"
	FieldMode     FormField = "mode"
	FieldText     FormField = "text"
)

var ErrSessionClosed = errors.New("session closed")

type FormConfig struct {
	SubmitDelay time.Duration
	Tick        time.Duration

	// AutoReset is the delay after a successful submission before the form resets
	// itself and OnAutoClose is called. Zero disables it.
	AutoReset time.Duration

	// OnTransition and OnAutoClose run after the session lock is released.
	OnTransition func(from, to FormState)
	OnAutoClose  func()
}

func DefaultFormConfig() FormConfig {
	return FormConfig{
		SubmitDelay: 2 * time.Second,
		Tick:        time.Second,
		AutoReset:   3 * time.Second,
	}
}

// SubmitResult is delivered once per accepted submit.
type SubmitResult struct {
	Issue domain.Issue
	Err   error
}

// FormSnapshot is a read-only copy of a session.
type FormSnapshot struct {
	State            FormState      `json:"state"`
	Input            FormInputView  `json:"input"`
	Recording        RecordingState `json:"recording"`
	RecordingElapsed int            `json:"recordingElapsed"`
	LastIssueID      string         `json:"lastIssueId,omitempty"`
	LastError        string         `json:"lastError,omitempty"`
	Closed           bool           `json:"closed"`
}

type FormInputView struct {
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Email    string           `json:"email,omitempty"`
	Location string           `json:"location"`
	Category domain.Category  `json:"category"`
	Priority domain.Priority  `json:"priority"`
	Mode     domain.InputMode `json:"mode"`
	Text     string           `json:"text,omitempty"`
	Audio    *domain.AudioRef `json:"audio,omitempty"`
	Images   []string         `json:"images"`
}

// FormSession is one open complaint form.
type FormSession struct {
	mu        sync.Mutex
	sched     scheduler.Scheduler
	submitter IssueSubmitter
	cfg       FormConfig
	recording *RecordingSession

	input   domain.FormInput
	state   FormState
	gen     uint64
	pending scheduler.Timer
	result  chan SubmitResult
	last    *domain.Issue
	lastErr error
	closed  bool

	// callbacks queued under the lock, run by unlock
	queued []func()
}

func NewFormSession(sched scheduler.Scheduler, submitter IssueSubmitter, capture AudioCapture, cfg FormConfig) *FormSession {
	return &FormSession{
		sched:     sched,
		submitter: submitter,
		cfg:       cfg,
		recording: NewRecordingSession(sched, capture, cfg.Tick),
		input:     domain.DefaultFormInput(),
		state:     FormEditing,
	}
}

func (s *FormSession) lock() {
	s.mu.Lock()
}

func (s *FormSession) unlock() {
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()
	for _, f := range queued {
		f()
	}
}

func (s *FormSession) transition(to FormState) {
	from := s.state
	s.state = to
	if hook := s.cfg.OnTransition; hook != nil && from != to {
		s.queued = append(s.queued, func() { hook(from, to) })
	}
}

func (s *FormSession) requireEditing(op string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state != FormEditing {
		return domain.InvalidTransitionError{
			Entity: "form",
			From:   string(s.state),
			To:     string(s.state),
			Reason: op + " is only allowed while editing",
		}
	}
	return nil
}

// Edit sets one field of the form.
func (s *FormSession) Edit(field FormField, value string) error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("edit"); err != nil {
		return err
	}

	switch field {
	case FieldName:
		s.input.Contact.Name = value
	case FieldPhone:
		s.input.Contact.Phone = value
	case FieldEmail:
		s.input.Contact.Email = value
	case FieldLocation:
		s.input.Location = value
	case FieldCategory:
		c, err := domain.ParseCategory(value)
		if err != nil {
			return err
		}
		s.input.Category = c
	case FieldPriority:
		p, err := domain.ParsePriority(value)
		if err != nil {
			return err
		}
		s.input.Priority = p
	case FieldMode:
		m, err := domain.ParseInputMode(value)
		if err != nil {
			return err
		}
		s.input.Mode = m
	case FieldText:
		s.input.Text = value
	default:
		return domain.ValidationError{Field: string(field), Reason: "unknown field"}
	}
	return nil
}

func (s *FormSession) AddImage(ref string) error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("adding an image"); err != nil {
		return err
	}
	if ref == "" {
		return domain.ValidationError{Field: "images", Reason: "empty image reference"}
	}
	s.input.Images = append(s.input.Images, ref)
	return nil
}

func (s *FormSession) RemoveImage(index int) error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("removing an image"); err != nil {
		return err
	}
	if index < 0 || index >= len(s.input.Images) {
		return domain.ValidationError{Field: "images", Reason: fmt.Sprintf("no image at index %d", index)}
	}
	s.input.Images = slices.Delete(s.input.Images, index, index+1)
	return nil
}

// AttachAudio sets an already captured voice note, e.g. an uploaded file.
func (s *FormSession) AttachAudio(ref domain.AudioRef) error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("attaching audio"); err != nil {
		return err
	}
	if ref.URI == "" {
		return domain.ValidationError{Field: "audio", Reason: "empty audio reference"}
	}
	s.input.Audio = &ref
	return nil
}

func (s *FormSession) StartRecording(ctx context.Context) error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("recording"); err != nil {
		return err
	}
	return s.recording.Start(ctx)
}

func (s *FormSession) StopRecording() (domain.AudioRef, error) {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("recording"); err != nil {
		return domain.AudioRef{}, err
	}
	ref, err := s.recording.Stop()
	if err != nil {
		return domain.AudioRef{}, err
	}
	s.input.Audio = &ref
	return ref, nil
}

func (s *FormSession) DiscardRecording() error {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("discarding a recording"); err != nil {
		return err
	}
	if err := s.recording.Discard(); err != nil {
		return err
	}
	s.input.Audio = nil
	return nil
}

// Submit validates the form and schedules the submission. It never blocks on the
// store: the returned channel receives exactly one result once the submission delay
// has elapsed, or ErrSessionClosed if the session is closed first.
func (s *FormSession) Submit(ctx context.Context) (<-chan SubmitResult, error) {
	s.lock()
	defer s.unlock()

	if err := s.requireEditing("submit"); err != nil {
		return nil, err
	}

	s.transition(FormValidating)
	if err := s.input.Validate(); err != nil {
		s.lastErr = err
		s.transition(FormEditing)
		return nil, err
	}

	s.transition(FormSubmitting)
	s.lastErr = nil
	// the form is locked from here on, so a live capture must not outlive the submit
	if s.recording.State() == RecordingActive {
		s.recording.Cancel()
	}
	s.gen++
	gen := s.gen
	input := s.input
	input.Images = slices.Clone(s.input.Images)

	result := make(chan SubmitResult, 1)
	s.result = result
	s.pending = s.sched.AfterFunc(s.cfg.SubmitDelay, func() {
		s.complete(context.WithoutCancel(ctx), gen, input)
	})
	return result, nil
}

func (s *FormSession) complete(ctx context.Context, gen uint64, input domain.FormInput) {
	s.lock()
	defer s.unlock()

	if gen != s.gen || s.state != FormSubmitting || s.closed {
		return
	}
	s.pending = nil

	issue, err := s.submitter.Create(ctx, input)
	result := s.result
	s.result = nil
	if err != nil {
		s.lastErr = err
		s.transition(FormEditing)
		result <- SubmitResult{Err: err}
		close(result)
		return
	}

	s.last = &issue
	s.transition(FormSubmitted)
	result <- SubmitResult{Issue: issue}
	close(result)

	if s.cfg.AutoReset > 0 {
		s.pending = s.sched.AfterFunc(s.cfg.AutoReset, func() { s.autoReset(gen) })
	}
}

func (s *FormSession) autoReset(gen uint64) {
	s.lock()
	defer s.unlock()

	if gen != s.gen || s.state != FormSubmitted || s.closed {
		return
	}
	s.pending = nil
	s.resetLocked()
	if notify := s.cfg.OnAutoClose; notify != nil {
		s.queued = append(s.queued, notify)
	}
}

// Reset clears a submitted form back to its defaults.
func (s *FormSession) Reset() error {
	s.lock()
	defer s.unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state != FormSubmitted {
		return domain.InvalidTransitionError{Entity: "form", From: string(s.state), To: string(FormEditing), Reason: "only a submitted form can be reset"}
	}
	s.resetLocked()
	return nil
}

func (s *FormSession) resetLocked() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.recording.Cancel()
	s.input = domain.DefaultFormInput()
	s.lastErr = nil
	s.transition(FormEditing)
}

// Close cancels pending timers and releases the recording device. A pending submit
// resolves with ErrSessionClosed. Close is idempotent.
func (s *FormSession) Close() {
	s.lock()
	defer s.unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.recording.Cancel()
	if s.result != nil {
		s.result <- SubmitResult{Err: ErrSessionClosed}
		close(s.result)
		s.result = nil
	}
	if s.state != FormSubmitted {
		s.transition(FormEditing)
	}
}

func (s *FormSession) State() FormState {
	s.lock()
	defer s.unlock()
	return s.state
}

// Input returns a copy of the current form content.
func (s *FormSession) Input() domain.FormInput {
	s.lock()
	defer s.unlock()
	in := s.input
	in.Images = slices.Clone(s.input.Images)
	if s.input.Audio != nil {
		a := *s.input.Audio
		in.Audio = &a
	}
	return in
}

// LastIssue returns the issue created by the last successful submission.
func (s *FormSession) LastIssue() (domain.Issue, bool) {
	s.lock()
	defer s.unlock()
	if s.last == nil {
		return domain.Issue{}, false
	}
	return s.last.Clone(), true
}

func (s *FormSession) Recording() *RecordingSession {
	return s.recording
}

func (s *FormSession) Snapshot() FormSnapshot {
	s.lock()
	defer s.unlock()

	images := slices.Clone(s.input.Images)
	if images == nil {
		images = []string{}
	}
	snap := FormSnapshot{
		State: s.state,
		Input: FormInputView{
			Name:     s.input.Contact.Name,
			Phone:    s.input.Contact.Phone,
			Email:    s.input.Contact.Email,
			Location: s.input.Location,
			Category: s.input.Category,
			Priority: s.input.Priority,
			Mode:     s.input.Mode,
			Text:     s.input.Text,
			Images:   images,
		},
		Recording:        s.recording.State(),
		RecordingElapsed: s.recording.Elapsed(),
		Closed:           s.closed,
	}
	if s.input.Audio != nil {
		a := *s.input.Audio
		snap.Input.Audio = &a
	}
	if s.last != nil {
		snap.LastIssueID = s.last.ID
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

package usecase

import (
	"context"
	"iter"
	"time"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/events"
)

// IssueRepository defines storage operations for issue records.
type IssueRepository interface {
	Insert(ctx context.Context, issue domain.Issue) error
	Get(ctx context.Context, id string) (domain.Issue, error)
	// All yields every issue in insertion order. The set of issues is fixed when iteration starts.
	All(ctx context.Context) iter.Seq2[domain.Issue, error]
	Search(ctx context.Context, criteria domain.Criteria) ([]domain.Issue, error)
	AppendUpdate(ctx context.Context, id string, change domain.StatusChange) (domain.Issue, error)
	// Revision changes whenever an issue is inserted or updated.
	Revision(ctx context.Context) (uint64, error)
}

// IDGenerator hands out complaint sequence numbers. Every call returns a distinct value.
type IDGenerator interface {
	Next(ctx context.Context) (int64, error)
}

// EventPublisher broadcasts issue events.
type EventPublisher interface {
	Publish(ctx context.Context, event *events.Event) error
}

// IssueSubmitter turns a validated complaint form into a stored issue.
type IssueSubmitter interface {
	Create(ctx context.Context, input domain.FormInput) (domain.Issue, error)
}

// AudioCapture opens the recording device.
type AudioCapture interface {
	Open(ctx context.Context) (CaptureHandle, error)
}

// CaptureHandle is a live recording. Close must be safe to call after Finish.
type CaptureHandle interface {
	// Finish ends the recording and returns a reference to the captured audio.
	Finish() (string, error)
	Close() error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

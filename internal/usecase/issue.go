package usecase

import (
	"context"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/events"
	"github.com/nagarik-sahayak/sahayak/internal/utils"
)

var tracer = otel.Tracer("usecase")

const maxIDAttempts = 3

type IssueUsecase struct {
	repo      IssueRepository
	ids       IDGenerator
	publisher EventPublisher
	clock     Clock
}

// NewIssueUsecase wires the issue operations. publisher may be nil.
func NewIssueUsecase(repo IssueRepository, ids IDGenerator, publisher EventPublisher, clock Clock) *IssueUsecase {
	return &IssueUsecase{
		repo:      repo,
		ids:       ids,
		publisher: publisher,
		clock:     clock,
	}
}

// Create validates a complaint form and stores it as a freshly reported issue.
func (uc *IssueUsecase) Create(ctx context.Context, input domain.FormInput) (domain.Issue, error) {
	ctx, span := tracer.Start(ctx, "Issue.Usecase.Create")
	defer span.End()

	if err := input.Validate(); err != nil {
		span.RecordError(err)
		return domain.Issue{}, err
	}

	var issue domain.Issue
	for attempt := 1; ; attempt++ {
		seq, err := uc.ids.Next(ctx)
		if err != nil {
			err = errors.Wrap(err, "failed to allocate complaint id")
			span.RecordError(err)
			return domain.Issue{}, err
		}

		issue = domain.NewIssue(sahayak.FormatComplaintID(seq), input, uc.clock.Now())
		err = uc.repo.Insert(ctx, issue)
		if err == nil {
			break
		}
		// a reseeded id counter can lag behind the store
		if errors.Is(err, domain.ErrDuplicateID) && attempt < maxIDAttempts {
			slog.WarnContext(ctx, "complaint id already taken", slog.String("id", issue.ID), slog.Int("attempt", attempt), slog.String("module", "usecase"))
			continue
		}
		span.RecordError(err)
		return domain.Issue{}, err
	}

	uc.publish(ctx, events.IssueCreated, issue.ID, events.IssueCreatedPayload{
		IssueID:    issue.ID,
		Title:      issue.Title,
		Location:   issue.Location,
		Category:   string(issue.Category),
		Priority:   string(issue.Priority),
		ReportedBy: issue.ReportedBy,
		ReportedAt: issue.ReportedDate,
	})

	return issue, nil
}

func (uc *IssueUsecase) Get(ctx context.Context, id string) (domain.Issue, error) {
	ctx, span := tracer.Start(ctx, "Issue.Usecase.Get")
	defer span.End()

	issue, err := uc.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return domain.Issue{}, err
	}
	return issue, nil
}

// Tracker returns a filtered view over the store preset to criteria.
func (uc *IssueUsecase) Tracker(criteria domain.Criteria) *Tracker {
	tracker := NewTracker(uc.repo)
	tracker.SetCriteria(criteria)
	return tracker
}

// AppendUpdate records a status update. A zero date is stamped with the current time.
func (uc *IssueUsecase) AppendUpdate(ctx context.Context, id string, change domain.StatusChange) (domain.Issue, error) {
	ctx, span := tracer.Start(ctx, "Issue.Usecase.AppendUpdate")
	defer span.End()

	if change.Date.IsZero() {
		change.Date = uc.clock.Now()
	}

	issue, err := uc.repo.AppendUpdate(ctx, id, change)
	if err != nil {
		span.RecordError(err)
		return domain.Issue{}, err
	}

	// the entry before the appended one carries the previous status
	previous := issue.Updates[len(issue.Updates)-2].Status
	if previous != issue.Status {
		uc.publish(ctx, events.IssueStatusUpdated, issue.ID, events.IssueStatusUpdatedPayload{
			IssueID:   issue.ID,
			OldStatus: string(previous),
			NewStatus: string(issue.Status),
			Message:   change.Message,
			ChangedAt: change.Date.UTC(),
		})
	}
	if change.Rating != nil && issue.Rating != nil {
		uc.publish(ctx, events.IssueRated, issue.ID, events.IssueRatedPayload{
			IssueID: issue.ID,
			Rating:  *issue.Rating,
			RatedAt: change.Date.UTC(),
		})
	}

	return issue, nil
}

// Statistics summarizes the store.
type Statistics struct {
	Total         int                     `json:"total"`
	ByStatus      utils.OrderedKVMap[int] `json:"byStatus"`
	ByCategory    utils.OrderedKVMap[int] `json:"byCategory"`
	ByPriority    utils.OrderedKVMap[int] `json:"byPriority"`
	Rated         int                     `json:"rated"`
	AverageRating float64                 `json:"averageRating"`
}

func (uc *IssueUsecase) Statistics(ctx context.Context) (Statistics, error) {
	ctx, span := tracer.Start(ctx, "Issue.Usecase.Statistics")
	defer span.End()

	stats := Statistics{
		ByStatus:   utils.NewOrderedKVMap[int](enumKeys(domain.Statuses)...),
		ByCategory: utils.NewOrderedKVMap[int](enumKeys(domain.Categories)...),
		ByPriority: utils.NewOrderedKVMap[int](enumKeys(domain.Priorities)...),
	}

	ratingSum := 0
	for issue, err := range uc.repo.All(ctx) {
		if err != nil {
			span.RecordError(err)
			return Statistics{}, err
		}
		stats.Total++
		increment(stats.ByStatus, string(issue.Status))
		increment(stats.ByCategory, string(issue.Category))
		increment(stats.ByPriority, string(issue.Priority))
		if issue.Rating != nil {
			stats.Rated++
			ratingSum += *issue.Rating
		}
	}
	if stats.Rated > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(stats.Rated)*100) / 100
	}

	return stats, nil
}

func (uc *IssueUsecase) publish(ctx context.Context, eventType, issueID string, payload any) {
	if uc.publisher == nil {
		return
	}

	event, err := events.NewEvent(eventType, issueID, payload, uc.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", slog.String("module", "usecase"), slog.String("type", eventType), slog.Any("error", err))
		return
	}

	// publish failures are logged only
	if err := uc.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", slog.String("module", "usecase"), slog.String("type", eventType), slog.String("issue", issueID), slog.Any("error", err))
	}
}

func enumKeys[E ~string](values []E) []string {
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = string(v)
	}
	return keys
}

func increment(om utils.OrderedKVMap[int], key string) {
	v, _ := om.Get(key)
	om.Set(key, v+1)
}

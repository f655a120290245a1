package usecase

import (
	"context"
	"sync"

	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

// Tracker is a filtered view over the issue store. The view is recomputed on demand
// whenever a predicate or the store revision has changed since the last computation.
type Tracker struct {
	mu       sync.Mutex
	repo     IssueRepository
	criteria domain.Criteria

	computed    bool
	computedFor domain.Criteria
	revision    uint64
	view        []domain.Issue
}

func NewTracker(repo IssueRepository) *Tracker {
	return &Tracker{repo: repo}
}

func (t *Tracker) SetSearchTerm(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.criteria.Search = s
}

// SetStatusFilter accepts a status, or "all" and "" to disable the predicate.
func (t *Tracker) SetStatusFilter(v string) error {
	var status domain.Status
	if v != "" && v != sahayak.FilterAll {
		s, err := domain.ParseStatus(v)
		if err != nil {
			return err
		}
		status = s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.criteria.Status = status
	return nil
}

func (t *Tracker) SetCategoryFilter(v string) error {
	var category domain.Category
	if v != "" && v != sahayak.FilterAll {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return err
		}
		category = c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.criteria.Category = category
	return nil
}

func (t *Tracker) SetPriorityFilter(v string) error {
	var priority domain.Priority
	if v != "" && v != sahayak.FilterAll {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return err
		}
		priority = p
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.criteria.Priority = priority
	return nil
}

// SetCriteria replaces every predicate at once.
func (t *Tracker) SetCriteria(c domain.Criteria) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.criteria = c
}

func (t *Tracker) Criteria() domain.Criteria {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.criteria
}

// Results returns the issues satisfying every active predicate in insertion order.
// An empty result is a non-nil empty slice.
func (t *Tracker) Results(ctx context.Context) ([]domain.Issue, error) {
	ctx, span := tracer.Start(ctx, "Tracker.Usecase.Results")
	defer span.End()

	t.mu.Lock()
	defer t.mu.Unlock()

	revision, err := t.repo.Revision(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if t.computed && t.computedFor == t.criteria && t.revision == revision {
		return cloneIssues(t.view), nil
	}

	view, err := t.repo.Search(ctx, t.criteria)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if view == nil {
		view = []domain.Issue{}
	}

	t.view = view
	t.computed = true
	t.computedFor = t.criteria
	t.revision = revision
	return cloneIssues(view), nil
}

// Current returns the last computed view, or nil when nothing has been computed yet.
func (t *Tracker) Current() []domain.Issue {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.computed {
		return nil
	}
	return cloneIssues(t.view)
}

// cloneIssues deep-copies a view so callers cannot reach the cached one.
func cloneIssues(issues []domain.Issue) []domain.Issue {
	out := make([]domain.Issue, len(issues))
	for i, issue := range issues {
		out[i] = issue.Clone()
	}
	return out
}

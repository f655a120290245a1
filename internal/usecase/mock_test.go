package usecase

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/events"
	"github.com/nagarik-sahayak/sahayak/internal/scheduler"
)

var epoch = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

type mockIssueRepo struct {
	mu        sync.Mutex
	issues    []domain.Issue
	revision  uint64
	insertErr error
}

func (m *mockIssueRepo) Insert(ctx context.Context, issue domain.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, existing := range m.issues {
		if existing.ID == issue.ID {
			return domain.DuplicateIDError{ID: issue.ID}
		}
	}
	m.issues = append(m.issues, issue.Clone())
	m.revision++
	return nil
}

func (m *mockIssueRepo) Get(ctx context.Context, id string) (domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, issue := range m.issues {
		if issue.ID == id {
			return issue.Clone(), nil
		}
	}
	return domain.Issue{}, domain.NotFoundError{Resource: "issue", ID: id}
}

func (m *mockIssueRepo) All(ctx context.Context) iter.Seq2[domain.Issue, error] {
	m.mu.Lock()
	snapshot := make([]domain.Issue, len(m.issues))
	for i, issue := range m.issues {
		snapshot[i] = issue.Clone()
	}
	m.mu.Unlock()

	return func(yield func(domain.Issue, error) bool) {
		for _, issue := range snapshot {
			if !yield(issue, nil) {
				return
			}
		}
	}
}

func (m *mockIssueRepo) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Issue, error) {
	var result []domain.Issue
	for issue := range m.All(ctx) {
		if criteria.Matches(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (m *mockIssueRepo) AppendUpdate(ctx context.Context, id string, change domain.StatusChange) (domain.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.issues {
		if m.issues[i].ID != id {
			continue
		}
		next := m.issues[i].Clone()
		if err := next.Apply(change); err != nil {
			return domain.Issue{}, err
		}
		m.issues[i] = next
		m.revision++
		return next.Clone(), nil
	}
	return domain.Issue{}, domain.NotFoundError{Resource: "issue", ID: id}
}

func (m *mockIssueRepo) Revision(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision, nil
}

func (m *mockIssueRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.issues)
}

type mockIDs struct {
	next int64
	err  error
}

func (m *mockIDs) Next(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.next++
	return m.next, nil
}

type mockPublisher struct {
	events []*events.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event *events.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func (m *mockPublisher) types() []string {
	var types []string
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

type mockHandle struct {
	uri       string
	finishErr error
	finished  bool
	closed    int
}

func (h *mockHandle) Finish() (string, error) {
	h.finished = true
	return h.uri, h.finishErr
}

func (h *mockHandle) Close() error {
	h.closed++
	return nil
}

type mockCapture struct {
	handles []*mockHandle
	openErr error
	finish  error
}

func (m *mockCapture) Open(ctx context.Context) (CaptureHandle, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	h := &mockHandle{uri: "blob:voice-" + string(rune('a'+len(m.handles))), finishErr: m.finish}
	m.handles = append(m.handles, h)
	return h, nil
}

var errDenied = errors.New("permission denied")

func newVirtual() *scheduler.Virtual {
	return scheduler.NewVirtual(epoch)
}

func validInput() domain.FormInput {
	in := domain.DefaultFormInput()
	in.Contact = domain.Contact{Name: "Asha", Phone: "9999999999"}
	in.Location = "Park St"
	in.Category = domain.CategoryRoads
	in.Text = "Pothole"
	return in
}

func contains[T comparable](s []T, v T) bool {
	return slices.Contains(s, v)
}

package memory

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

// Store keeps issues in memory in insertion order.
type Store struct {
	mu       sync.RWMutex
	order    []string
	issues   map[string]*domain.Issue
	revision uint64
}

func NewStore() *Store {
	return &Store{issues: map[string]*domain.Issue{}}
}

func (s *Store) Insert(ctx context.Context, issue domain.Issue) error {
	if err := issue.Validate(); err != nil {
		return err
	}
	stored := issue.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[issue.ID]; ok {
		return domain.DuplicateIDError{ID: issue.ID}
	}
	s.issues[issue.ID] = &stored
	s.order = append(s.order, issue.ID)
	s.revision++
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return domain.Issue{}, domain.NotFoundError{Resource: "issue", ID: id}
	}
	return issue.Clone(), nil
}

// All captures the current set of ids and yields copies of the issues lazily.
// The returned sequence can be ranged over repeatedly and never includes issues
// inserted after All was called.
func (s *Store) All(ctx context.Context) iter.Seq2[domain.Issue, error] {
	s.mu.RLock()
	ids := slices.Clone(s.order)
	s.mu.RUnlock()

	return func(yield func(domain.Issue, error) bool) {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				yield(domain.Issue{}, err)
				return
			}

			s.mu.RLock()
			issue := s.issues[id].Clone()
			s.mu.RUnlock()

			if !yield(issue, nil) {
				return
			}
		}
	}
}

func (s *Store) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Issue, error) {
	result := []domain.Issue{}
	for issue, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		if criteria.Matches(issue) {
			result = append(result, issue)
		}
	}
	return result, nil
}

// AppendUpdate applies a status change atomically. A rejected change leaves the issue as it was.
func (s *Store) AppendUpdate(ctx context.Context, id string, change domain.StatusChange) (domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.issues[id]
	if !ok {
		return domain.Issue{}, domain.NotFoundError{Resource: "issue", ID: id}
	}

	next := current.Clone()
	if err := next.Apply(change); err != nil {
		return domain.Issue{}, err
	}
	s.issues[id] = &next
	s.revision++
	return next.Clone(), nil
}

func (s *Store) Revision(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/seed"
)

func seededRepo(t *testing.T) *mockIssueRepo {
	t.Helper()
	repo := &mockIssueRepo{}
	if _, err := seed.Load(context.Background(), repo); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return repo
}

func TestTrackerSearchMGRoad(t *testing.T) {
	tracker := NewTracker(seededRepo(t))
	tracker.SetSearchTerm("MG Road")

	results, err := tracker.Results(context.Background())
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "CMP-001234" {
		t.Fatalf("expected only CMP-001234, got %v", ids(results))
	}
}

func TestTrackerCurrentBeforeCompute(t *testing.T) {
	tracker := NewTracker(seededRepo(t))
	if tracker.Current() != nil {
		t.Fatalf("nothing computed yet, expected nil")
	}

	tracker.SetSearchTerm("no such issue")
	results, err := tracker.Results(context.Background())
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil result got %v", results)
	}
	if current := tracker.Current(); current == nil || len(current) != 0 {
		t.Fatalf("computed empty view should be non-nil, got %v", current)
	}
}

func TestTrackerRecomputesOnStoreChange(t *testing.T) {
	repo := seededRepo(t)
	tracker := NewTracker(repo)
	ctx := context.Background()
	if err := tracker.SetCategoryFilter("roads"); err != nil {
		t.Fatalf("set category failed: %v", err)
	}

	before, _ := tracker.Results(ctx)
	if len(before) != 1 {
		t.Fatalf("expected one roads issue got %v", ids(before))
	}

	uc := NewIssueUsecase(repo, &mockIDs{next: 1238}, nil, newVirtual())
	if _, err := uc.Create(ctx, validInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	after, _ := tracker.Results(ctx)
	if len(after) != 2 || after[1].ID != "CMP-001239" {
		t.Fatalf("new issue should appear last, got %v", ids(after))
	}
}

func TestTrackerRejectsUnknownFilter(t *testing.T) {
	tracker := NewTracker(&mockIssueRepo{})
	if err := tracker.SetStatusFilter("pending"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
	if err := tracker.SetPriorityFilter("all"); err != nil {
		t.Fatalf("all should be accepted: %v", err)
	}
	if tracker.Criteria() != (domain.Criteria{}) {
		t.Fatalf("criteria should be empty, got %+v", tracker.Criteria())
	}
}

// Every combination of predicates must yield exactly the brute-force selection
// over the full store, in store order.
func TestTrackerMatchesBruteForce(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	var all []domain.Issue
	for issue, err := range repo.All(ctx) {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		all = append(all, issue)
	}

	searches := []string{"", "road", "CMP-00123", "block", "zzz"}
	statuses := append([]string{"all"}, enumKeys(domain.Statuses)...)
	categories := append([]string{"all"}, enumKeys(domain.Categories)...)
	priorities := append([]string{"all"}, enumKeys(domain.Priorities)...)

	tracker := NewTracker(repo)
	for _, search := range searches {
		for _, status := range statuses {
			for _, category := range categories {
				for _, priority := range priorities {
					tracker.SetSearchTerm(search)
					if err := tracker.SetStatusFilter(status); err != nil {
						t.Fatalf("status %s: %v", status, err)
					}
					if err := tracker.SetCategoryFilter(category); err != nil {
						t.Fatalf("category %s: %v", category, err)
					}
					if err := tracker.SetPriorityFilter(priority); err != nil {
						t.Fatalf("priority %s: %v", priority, err)
					}

					got, err := tracker.Results(ctx)
					if err != nil {
						t.Fatalf("results failed: %v", err)
					}

					var want []string
					for _, issue := range all {
						if bruteForceMatch(issue, search, status, category, priority) {
							want = append(want, issue.ID)
						}
					}

					gotIDs := ids(got)
					if len(gotIDs) != len(want) {
						t.Fatalf("%q/%s/%s/%s: expected %v got %v", search, status, category, priority, want, gotIDs)
					}
					for i := range want {
						if gotIDs[i] != want[i] {
							t.Fatalf("%q/%s/%s/%s: expected %v got %v", search, status, category, priority, want, gotIDs)
						}
					}
				}
			}
		}
	}
}

func bruteForceMatch(issue domain.Issue, search, status, category, priority string) bool {
	if search != "" {
		found := false
		for _, field := range []string{issue.Title, issue.Location, issue.ID} {
			if containsFold(field, search) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if status != "all" && string(issue.Status) != status {
		return false
	}
	if category != "all" && string(issue.Category) != category {
		return false
	}
	if priority != "all" && string(issue.Priority) != priority {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	ls, lsub := []rune(s), []rune(sub)
	for i := 0; i+len(lsub) <= len(ls); i++ {
		match := true
		for j := range lsub {
			if toLower(ls[i+j]) != toLower(lsub[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func ids(issues []domain.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}

func TestTrackerResultsAreCopies(t *testing.T) {
	tracker := NewTracker(seededRepo(t))
	ctx := context.Background()

	first, err := tracker.Results(ctx)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	want := first[0].Updates[0].Message
	first[0].Updates[0].Message = "tampered"
	first[0].Images = append(first[0].Images[:0], "tampered.jpg")

	second, err := tracker.Results(ctx)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if second[0].Updates[0].Message != want {
		t.Fatalf("cached view changed through a result: %q", second[0].Updates[0].Message)
	}
	if len(second[0].Images) > 0 && second[0].Images[0] == "tampered.jpg" {
		t.Fatalf("cached images changed through a result")
	}

	current := tracker.Current()
	current[0].Updates[0].Message = "tampered again"
	if again := tracker.Current(); again[0].Updates[0].Message != want {
		t.Fatalf("cached view changed through Current: %q", again[0].Updates[0].Message)
	}
}

package seed

import (
	"context"
	"testing"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/infra/memory"
)

func TestSeedIssuesAreValid(t *testing.T) {
	for _, issue := range Issues() {
		if err := issue.Validate(); err != nil {
			t.Fatalf("%s is invalid: %v", issue.ID, err)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	n, err := Load(ctx, store)
	if err != nil || n != len(Issues()) {
		t.Fatalf("first load: inserted %d err %v", n, err)
	}
	n, err = Load(ctx, store)
	if err != nil || n != 0 {
		t.Fatalf("second load: inserted %d err %v", n, err)
	}
	if store.Len() != len(Issues()) {
		t.Fatalf("unexpected store size %d", store.Len())
	}
}

func TestSeedTimelineBreakpoints(t *testing.T) {
	tl := Timeline()
	if tl.ActiveFeature(50) != 1 {
		t.Fatalf("t=50 should select the feature at 45, got %d", tl.ActiveFeature(50))
	}
	positives := 0
	for _, f := range Feedback() {
		if domain.FeedbackPositive.Matches(f) {
			positives++
		}
	}
	if positives != 2 {
		t.Fatalf("expected 2 positive testimonials got %d", positives)
	}
}

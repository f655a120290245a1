package usecase

import (
	"testing"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/seed"
)

func TestFeedbackUsecaseList(t *testing.T) {
	uc := NewFeedbackUsecase(seed.Feedback())

	cases := map[domain.FeedbackKind][]string{
		domain.FeedbackAll:         {"Rajesh Kumar", "Priya Sharma", "Amit Singh"},
		domain.FeedbackPositive:    {"Rajesh Kumar", "Amit Singh"},
		domain.FeedbackSuggestions: {"Priya Sharma"},
	}
	for kind, want := range cases {
		got := uc.List(kind)
		if len(got) != len(want) {
			t.Fatalf("%s: expected %v got %v", kind, want, got)
		}
		for i := range want {
			if got[i].User != want[i] {
				t.Fatalf("%s: expected %v got %v", kind, want, got)
			}
		}
	}
}

package usecase

import (
	"slices"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

type FeedbackUsecase struct {
	entries []domain.Feedback
}

func NewFeedbackUsecase(entries []domain.Feedback) *FeedbackUsecase {
	return &FeedbackUsecase{entries: slices.Clone(entries)}
}

// List returns the testimonials of a kind in their original order.
func (uc *FeedbackUsecase) List(kind domain.FeedbackKind) []domain.Feedback {
	result := []domain.Feedback{}
	for _, f := range uc.entries {
		if kind.Matches(f) {
			result = append(result, f)
		}
	}
	return result
}

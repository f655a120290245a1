package domain

import "fmt"

// FeedbackKind selects a slice of citizen testimonials.
type FeedbackKind int

const (
	FeedbackAll FeedbackKind = iota
	FeedbackPositive
	FeedbackSuggestions
)

// PositiveRating is the rating a testimonial needs to count as positive.
const PositiveRating = MaxRating

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackAll:
		return "all"
	case FeedbackPositive:
		return "positive"
	case FeedbackSuggestions:
		return "suggestions"
	default:
		return fmt.Sprintf("FeedbackKind(%d)", int(k))
	}
}

func ParseFeedbackKind(s string) (FeedbackKind, error) {
	switch s {
	case "", "all":
		return FeedbackAll, nil
	case "positive":
		return FeedbackPositive, nil
	case "suggestions":
		return FeedbackSuggestions, nil
	default:
		return FeedbackAll, ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown feedback kind %q", s)}
	}
}

// Feedback is a citizen testimonial about a resolved issue.
type Feedback struct {
	User    string `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Time    string `json:"time"`
	Issue   string `json:"issue"`
}

// Matches maps a kind onto the testimonials it covers.
func (k FeedbackKind) Matches(f Feedback) bool {
	switch k {
	case FeedbackPositive:
		return f.Rating >= PositiveRating
	case FeedbackSuggestions:
		return f.Rating < PositiveRating
	default:
		return true
	}
}

package domain

import "testing"

func TestTimelineActiveFeature(t *testing.T) {
	tl := NewTimeline(180, []Feature{
		{Title: "e", Timestamp: 135},
		{Title: "a", Timestamp: 15},
		{Title: "c", Timestamp: 75},
		{Title: "b", Timestamp: 45},
		{Title: "d", Timestamp: 105},
	})

	cases := map[int]int{
		0:   0,
		14:  0,
		15:  0,
		44:  0,
		45:  1,
		50:  1,
		75:  2,
		134: 3,
		135: 4,
		180: 4,
	}
	for at, want := range cases {
		if got := tl.ActiveFeature(at); got != want {
			t.Fatalf("t=%d: expected %d got %d", at, want, got)
		}
	}

	if (Timeline{Duration: 10}).ActiveFeature(5) != -1 {
		t.Fatalf("empty timeline should report -1")
	}
}

func TestFeedbackKindMatches(t *testing.T) {
	five := Feedback{Rating: 5}
	four := Feedback{Rating: 4}
	if !FeedbackAll.Matches(five) || !FeedbackAll.Matches(four) {
		t.Fatalf("all should match everything")
	}
	if !FeedbackPositive.Matches(five) || FeedbackPositive.Matches(four) {
		t.Fatalf("positive should only match rating 5")
	}
	if FeedbackSuggestions.Matches(five) || !FeedbackSuggestions.Matches(four) {
		t.Fatalf("suggestions should only match ratings below 5")
	}
	if _, err := ParseFeedbackKind("angry"); err == nil {
		t.Fatalf("unknown kind should be rejected")
	}
}

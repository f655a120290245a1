package domain

import (
	"slices"
	"sort"
)

// Feature is a named segment of the demo video starting at Timestamp seconds.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   int    `json:"timestamp"`
}

// Timeline is the demo script: a fixed duration and features sorted by timestamp.
type Timeline struct {
	Duration int       `json:"duration"`
	Features []Feature `json:"features"`
}

func NewTimeline(duration int, features []Feature) Timeline {
	sorted := slices.Clone(features)
	slices.SortStableFunc(sorted, func(a, b Feature) int {
		return a.Timestamp - b.Timestamp
	})
	return Timeline{Duration: duration, Features: sorted}
}

// ActiveFeature returns the index of the last feature starting at or before t.
// Before the first breakpoint the first feature is active; -1 means the timeline is empty.
func (tl Timeline) ActiveFeature(t int) int {
	if len(tl.Features) == 0 {
		return -1
	}
	idx := sort.Search(len(tl.Features), func(i int) bool {
		return tl.Features[i].Timestamp > t
	}) - 1
	if idx < 0 {
		return 0
	}
	return idx
}

// Clamp bounds t to [0, Duration].
func (tl Timeline) Clamp(t int) int {
	if t < 0 {
		return 0
	}
	if t > tl.Duration {
		return tl.Duration
	}
	return t
}

package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/nagarik-sahayak/sahayak"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Contact identifies the submitter of a complaint. It is never part of the public listing.
type Contact struct {
	Name  string `json:"name" validate:"notblank"`
	Phone string `json:"phone" validate:"notblank,phone"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// AudioRef is an opaque reference to a captured voice note.
type AudioRef struct {
	URI             string `json:"uri"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Update is one entry of an issue's append-only history.
type Update struct {
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Status  Status    `json:"status"`
}

// StatusChange is the input of appending an update to an issue.
type StatusChange struct {
	Date    time.Time
	Message string
	Status  Status
	Rating  *int
}

// Issue is a reported civic issue together with its full history.
type Issue struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Category     Category   `json:"category"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	ReportedBy   string     `json:"reportedBy"`
	ReportedDate time.Time  `json:"reportedDate"`
	ResolvedDate *time.Time `json:"resolvedDate,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	Images       []string   `json:"images"`
	VoiceNote    *AudioRef  `json:"voiceNote,omitempty"`
	Updates      []Update   `json:"updates"`
	Contact      Contact    `json:"-"`
}

// NewIssue builds a freshly reported issue from a validated form.
func NewIssue(id string, in FormInput, reportedAt time.Time) Issue {
	reportedAt = reportedAt.UTC()
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	issue := Issue{
		ID:           id,
		Title:        in.Title(),
		Description:  in.Description(),
		Location:     in.Location,
		Category:     in.Category,
		Priority:     priority,
		Status:       StatusReported,
		ReportedBy:   in.Contact.Name,
		ReportedDate: reportedAt,
		Images:       []string{},
		Contact:      in.Contact,
		Updates: []Update{{
			Date:    reportedAt,
			Message: "Complaint registered",
			Status:  StatusReported,
		}},
	}

	switch in.Mode {
	case ModeVoice:
		if in.Audio != nil {
			audio := *in.Audio
			issue.VoiceNote = &audio
		}
	case ModeImage:
		issue.Images = slices.Clone(in.Images)
	}

	return issue
}

// Clone returns a deep copy that shares no mutable state with the receiver.
func (i Issue) Clone() Issue {
	c := i
	c.Images = slices.Clone(i.Images)
	if c.Images == nil {
		c.Images = []string{}
	}
	c.Updates = slices.Clone(i.Updates)
	if i.ResolvedDate != nil {
		d := *i.ResolvedDate
		c.ResolvedDate = &d
	}
	if i.Rating != nil {
		r := *i.Rating
		c.Rating = &r
	}
	if i.VoiceNote != nil {
		v := *i.VoiceNote
		c.VoiceNote = &v
	}
	return c
}

// LastUpdate returns the most recent history entry.
func (i Issue) LastUpdate() (Update, bool) {
	if len(i.Updates) == 0 {
		return Update{}, false
	}
	return i.Updates[len(i.Updates)-1], true
}

// Apply appends a history entry and applies its status, resolvedDate and rating side effects.
// The issue is left untouched when an error is returned.
func (i *Issue) Apply(change StatusChange) error {
	if !change.Status.Valid() {
		return ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", change.Status)}
	}
	if change.Date.IsZero() {
		return ValidationError{Field: "date"}
	}
	date := change.Date.UTC()

	if i.Status == StatusClosed {
		return InvalidTransitionError{
			Entity: "issue",
			From:   string(i.Status),
			To:     string(change.Status),
			Reason: "closed issues accept no updates",
		}
	}
	if change.Status != i.Status && !CanTransition(i.Status, change.Status) {
		return InvalidTransitionError{
			Entity: "issue",
			From:   string(i.Status),
			To:     string(change.Status),
		}
	}

	if change.Rating != nil {
		rating := *change.Rating
		if rating < MinRating || rating > MaxRating {
			return ValidationError{Field: "rating", Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)}
		}
		if i.Status != StatusResolved || change.Status != StatusResolved {
			return InvalidTransitionError{
				Entity: "issue",
				From:   string(i.Status),
				To:     string(change.Status),
				Reason: "rating can only be attached while resolved",
			}
		}
		if i.Rating != nil {
			return InvalidTransitionError{
				Entity: "issue",
				From:   string(i.Status),
				To:     string(change.Status),
				Reason: "rating already set",
			}
		}
	}

	if last, ok := i.LastUpdate(); ok && date.Before(last.Date) {
		return ValidationError{Field: "date", Reason: "must not precede the previous update"}
	}
	if date.Before(i.ReportedDate) {
		return ValidationError{Field: "date", Reason: "must not precede the reported date"}
	}

	i.Updates = append(i.Updates, Update{
		Date:    date,
		Message: change.Message,
		Status:  change.Status,
	})
	if change.Status == StatusResolved && i.ResolvedDate == nil {
		i.ResolvedDate = &date
	}
	i.Status = change.Status
	if change.Rating != nil {
		rating := *change.Rating
		i.Rating = &rating
	}
	return nil
}

// Validate checks the record-level rules of an issue about to be stored.
func (i Issue) Validate() error {
	if !sahayak.IsComplaintID(i.ID) {
		return ValidationError{Field: "id", Reason: fmt.Sprintf("malformed id %q", i.ID)}
	}
	if !i.Category.Valid() {
		return ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", i.Category)}
	}
	if !i.Priority.Valid() {
		return ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", i.Priority)}
	}
	if !i.Status.Valid() {
		return ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", i.Status)}
	}
	if i.ReportedDate.IsZero() {
		return ValidationError{Field: "reportedDate"}
	}

	last, ok := i.LastUpdate()
	if !ok {
		return ValidationError{Field: "updates", Reason: "at least one update is required"}
	}
	if last.Status != i.Status {
		return ValidationError{Field: "updates", Reason: "last update must carry the current status"}
	}
	prev := i.ReportedDate
	for _, u := range i.Updates {
		if u.Date.Before(prev) {
			return ValidationError{Field: "updates", Reason: "dates must be non-decreasing"}
		}
		prev = u.Date
	}

	resolved := i.Status == StatusResolved || i.Status == StatusClosed
	if resolved != (i.ResolvedDate != nil) {
		return ValidationError{Field: "resolvedDate", Reason: "must be present exactly when resolved or closed"}
	}
	if i.ResolvedDate != nil && i.ResolvedDate.Before(i.ReportedDate) {
		return ValidationError{Field: "resolvedDate", Reason: "must not precede the reported date"}
	}
	if i.Rating != nil {
		if !resolved {
			return ValidationError{Field: "rating", Reason: "only resolved issues can be rated"}
		}
		if *i.Rating < MinRating || *i.Rating > MaxRating {
			return ValidationError{Field: "rating", Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)}
		}
	}
	return nil
}

// transitions lists the forward moves of the issue lifecycle.
var transitions = map[Status][]Status{
	StatusReported:   {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {StatusClosed},
}

// CanTransition reports whether an issue may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

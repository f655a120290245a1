package sahayak

import (
	"time"
)

const (
	FilterAll string = "all"
)

type AudioRef struct {
	URI             string `json:"uri"`
	DurationSeconds int    `json:"durationSeconds"`
}

// ComplaintPayload mirrors the complaint form at submit time.
type ComplaintPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location"`
	Category string `json:"category"`
	Priority string `json:"priority,omitempty"`

	// text, voice or image
	Mode   string    `json:"mode,omitempty"`
	Text   string    `json:"text,omitempty"`
	Audio  *AudioRef `json:"audio,omitempty"`
	Images []string  `json:"images,omitempty"`
}

type CreateComplaintResponse struct {
	ID string `json:"id"`
}

type ListFilter struct {
	Search   string `json:"search,omitempty" query:"search"`
	Status   string `json:"status,omitempty" query:"status"`
	Category string `json:"category,omitempty" query:"category"`
	Priority string `json:"priority,omitempty" query:"priority"`
}

type StatusUpdateRequest struct {
	Date    *time.Time `json:"date,omitempty"`
	Message string     `json:"message"`
	Status  string     `json:"status" validate:"required,status"`
	Rating  *int       `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type Update struct {
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Status  string    `json:"status"`
}

type Complaint struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Category     string     `json:"category"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	ReportedBy   string     `json:"reportedBy"`
	ReportedDate time.Time  `json:"reportedDate"`
	ResolvedDate *time.Time `json:"resolvedDate,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	Images       []string   `json:"images"`
	VoiceNote    *AudioRef  `json:"voiceNote,omitempty"`
	Updates      []Update   `json:"updates"`
}

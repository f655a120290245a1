package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	IssueCreated       = "issue.created"
	IssueStatusUpdated = "issue.status.updated"
	IssueRated         = "issue.rated"
)

// Event is a change notification for an issue.
type Event struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	IssueID   string          `json:"issueId"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type IssueCreatedPayload struct {
	IssueID    string    `json:"issueId"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	Category   string    `json:"category"`
	Priority   string    `json:"priority"`
	ReportedBy string    `json:"reportedBy"`
	ReportedAt time.Time `json:"reportedAt"`
}

type IssueStatusUpdatedPayload struct {
	IssueID   string    `json:"issueId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Message   string    `json:"message"`
	ChangedAt time.Time `json:"changedAt"`
}

type IssueRatedPayload struct {
	IssueID string    `json:"issueId"`
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"ratedAt"`
}

// NewEvent stamps a payload with a fresh id. The timestamp is taken from the caller's clock.
func NewEvent(eventType, issueID string, payload any, at time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		IssueID:   issueID,
		Payload:   payloadBytes,
		Timestamp: at.UTC(),
	}, nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *Event) ParsePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

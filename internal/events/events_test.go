package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	ev, err := NewEvent(IssueRated, "CMP-001239", IssueRatedPayload{IssueID: "CMP-001239", Rating: 5, RatedAt: at}, at)
	if err != nil {
		t.Fatalf("new event failed: %v", err)
	}
	if _, err := uuid.Parse(ev.EventID); err != nil {
		t.Fatalf("event id is not a uuid: %v", err)
	}

	raw, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded, err := FromJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	var payload IssueRatedPayload
	if err := decoded.ParsePayload(&payload); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if decoded.EventType != IssueRated || payload.Rating != 5 || !decoded.Timestamp.Equal(at) {
		t.Fatalf("unexpected event %+v payload %+v", decoded, payload)
	}
}

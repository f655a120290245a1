package rest

import (
	"github.com/nagarik-sahayak/sahayak"
	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

func toComplaint(issue domain.Issue) sahayak.Complaint {
	c := sahayak.Complaint{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		Location:     issue.Location,
		Category:     string(issue.Category),
		Priority:     string(issue.Priority),
		Status:       string(issue.Status),
		ReportedBy:   issue.ReportedBy,
		ReportedDate: issue.ReportedDate,
		ResolvedDate: issue.ResolvedDate,
		Rating:       issue.Rating,
		Images:       issue.Images,
		Updates:      make([]sahayak.Update, 0, len(issue.Updates)),
	}
	if c.Images == nil {
		c.Images = []string{}
	}
	if issue.VoiceNote != nil {
		c.VoiceNote = &sahayak.AudioRef{URI: issue.VoiceNote.URI, DurationSeconds: issue.VoiceNote.DurationSeconds}
	}
	for _, u := range issue.Updates {
		c.Updates = append(c.Updates, sahayak.Update{
			Date:    u.Date,
			Message: u.Message,
			Status:  string(u.Status),
		})
	}
	return c
}

func toComplaints(issues []domain.Issue) []sahayak.Complaint {
	result := make([]sahayak.Complaint, 0, len(issues))
	for _, issue := range issues {
		result = append(result, toComplaint(issue))
	}
	return result
}

// toFormInput maps a payload onto the form. An omitted priority keeps the form default
// and an omitted mode is inferred from the payload that is present.
func toFormInput(p sahayak.ComplaintPayload) domain.FormInput {
	in := domain.DefaultFormInput()
	in.Contact = domain.Contact{Name: p.Name, Phone: p.Phone, Email: p.Email}
	in.Location = p.Location
	in.Category = domain.Category(p.Category)
	if p.Priority != "" {
		in.Priority = domain.Priority(p.Priority)
	}
	in.Text = p.Text
	in.Images = p.Images
	if p.Audio != nil {
		in.Audio = &domain.AudioRef{URI: p.Audio.URI, DurationSeconds: p.Audio.DurationSeconds}
	}

	switch {
	case p.Mode != "":
		in.Mode = domain.InputMode(p.Mode)
	case p.Audio != nil && p.Text == "" && len(p.Images) == 0:
		in.Mode = domain.ModeVoice
	case len(p.Images) > 0 && p.Text == "" && p.Audio == nil:
		in.Mode = domain.ModeImage
	}
	return in
}

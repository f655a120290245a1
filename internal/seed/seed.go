// Package seed holds the demo data the service starts with.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

// FirstFreeSequence is the first complaint number not taken by the seeded issues.
const FirstFreeSequence = 1239

// DemoDuration is the length of the demo video in seconds.
const DemoDuration = 180

type Inserter interface {
	Insert(ctx context.Context, issue domain.Issue) error
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func rating(v int) *int {
	return &v
}

func Issues() []domain.Issue {
	return []domain.Issue{
		{
			ID:           "CMP-001234",
			Title:        "Broken Street Light on MG Road",
			Description:  "The street light near the bus stop has been non-functional for the past week, causing safety concerns for pedestrians.",
			Location:     "MG Road, Sector 14, Gurgaon",
			Category:     domain.CategoryInfrastructure,
			Priority:     domain.PriorityHigh,
			Status:       domain.StatusResolved,
			ReportedBy:   "Rajesh Kumar",
			ReportedDate: date("2024-01-15"),
			ResolvedDate: datePtr("2024-01-17"),
			Rating:       rating(5),
			Images:       []string{"https://images.pexels.com/photos/1108572/pexels-photo-1108572.jpeg"},
			Updates: []domain.Update{
				{Date: date("2024-01-15"), Message: "Complaint registered and assigned to electrical department", Status: domain.StatusReported},
				{Date: date("2024-01-16"), Message: "Technical team dispatched for inspection", Status: domain.StatusInProgress},
				{Date: date("2024-01-17"), Message: "Street light repaired and tested successfully", Status: domain.StatusResolved},
			},
		},
		{
			ID:           "CMP-001235",
			Title:        "Water Supply Disruption in Nehru Colony",
			Description:  "No water supply for the past 3 days in the entire Nehru Colony area. Residents are facing severe inconvenience.",
			Location:     "Nehru Colony, Block A, Delhi",
			Category:     domain.CategoryUtilities,
			Priority:     domain.PriorityUrgent,
			Status:       domain.StatusInProgress,
			ReportedBy:   "Priya Sharma",
			ReportedDate: date("2024-01-18"),
			Images:       []string{"https://images.pexels.com/photos/416978/pexels-photo-416978.jpeg"},
			Updates: []domain.Update{
				{Date: date("2024-01-18"), Message: "Emergency complaint registered with water department", Status: domain.StatusReported},
				{Date: date("2024-01-18"), Message: "Pipeline inspection team deployed", Status: domain.StatusInProgress},
				{Date: date("2024-01-19"), Message: "Main pipeline leak identified, repair work in progress", Status: domain.StatusInProgress},
			},
		},
		{
			ID:           "CMP-001236",
			Title:        "Large Pothole on Civil Lines Road",
			Description:  "A large pothole has formed on Civil Lines Road causing damage to vehicles and creating traffic congestion.",
			Location:     "Civil Lines Road, Near Court Complex",
			Category:     domain.CategoryRoads,
			Priority:     domain.PriorityMedium,
			Status:       domain.StatusResolved,
			ReportedBy:   "Amit Singh",
			ReportedDate: date("2024-01-10"),
			ResolvedDate: datePtr("2024-01-14"),
			Rating:       rating(4),
			Images:       []string{"https://images.pexels.com/photos/1108101/pexels-photo-1108101.jpeg"},
			Updates: []domain.Update{
				{Date: date("2024-01-10"), Message: "Road maintenance complaint received", Status: domain.StatusReported},
				{Date: date("2024-01-12"), Message: "Road repair crew assigned and materials arranged", Status: domain.StatusInProgress},
				{Date: date("2024-01-14"), Message: "Pothole filled and road surface leveled", Status: domain.StatusResolved},
			},
		},
		{
			ID:           "CMP-001237",
			Title:        "Garbage Collection Not Done",
			Description:  "Garbage has not been collected from our area for the past 4 days. The situation is becoming unhygienic.",
			Location:     "Green Park Extension, Block B",
			Category:     domain.CategorySanitation,
			Priority:     domain.PriorityHigh,
			Status:       domain.StatusReported,
			ReportedBy:   "Sunita Devi",
			ReportedDate: date("2024-01-20"),
			Images:       []string{},
			Updates: []domain.Update{
				{Date: date("2024-01-20"), Message: "Sanitation complaint registered with municipal corporation", Status: domain.StatusReported},
			},
		},
		{
			ID:           "CMP-001238",
			Title:        "Illegal Construction Activity",
			Description:  "Unauthorized construction is happening in the residential area without proper permits, causing noise and dust pollution.",
			Location:     "Lajpat Nagar, Block C, House No. 45",
			Category:     domain.CategoryEnvironment,
			Priority:     domain.PriorityMedium,
			Status:       domain.StatusInProgress,
			ReportedBy:   "Vikram Gupta",
			ReportedDate: date("2024-01-19"),
			Images:       []string{},
			Updates: []domain.Update{
				{Date: date("2024-01-19"), Message: "Building violation complaint received", Status: domain.StatusReported},
				{Date: date("2024-01-20"), Message: "Building inspector assigned for site verification", Status: domain.StatusInProgress},
			},
		},
	}
}

func Feedback() []domain.Feedback {
	return []domain.Feedback{
		{User: "Rajesh Kumar", Rating: 5, Comment: "Excellent service! My complaint was resolved within 24 hours.", Time: "2 days ago", Issue: "Street Cleaning"},
		{User: "Priya Sharma", Rating: 4, Comment: "Good platform, but could use better mobile app interface.", Time: "3 days ago", Issue: "Water Supply"},
		{User: "Amit Singh", Rating: 5, Comment: "Very responsive team. Great initiative for digital governance.", Time: "5 days ago", Issue: "Traffic Signal"},
	}
}

func Timeline() domain.Timeline {
	return domain.NewTimeline(DemoDuration, []domain.Feature{
		{Title: "Multi-Modal Complaint Submission", Description: "Submit complaints via text, voice, or image in any Indian language", Timestamp: 15},
		{Title: "AI-Powered Categorization", Description: "Automatic issue classification and priority assignment", Timestamp: 45},
		{Title: "Real-Time Issue Mapping", Description: "Live visualization of civic issues across the city", Timestamp: 75},
		{Title: "Admin Analytics Dashboard", Description: "Comprehensive insights for government officials", Timestamp: 105},
		{Title: "Citizen Feedback System", Description: "Rate and review resolution quality", Timestamp: 135},
	})
}

// Load inserts the seeded issues, skipping those already present.
func Load(ctx context.Context, store Inserter) (int, error) {
	inserted := 0
	for _, issue := range Issues() {
		err := store.Insert(ctx, issue)
		if errors.Is(err, domain.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

package domain

import "fmt"

type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusReported,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

func (s Status) Valid() bool {
	switch s {
	case StatusReported, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
	}
	return status, nil
}

type Category string

const (
	CategoryInfrastructure Category = "infrastructure"
	CategoryUtilities      Category = "utilities"
	CategoryRoads          Category = "roads"
	CategorySanitation     Category = "sanitation"
	CategoryEnvironment    Category = "environment"
	CategorySafety         Category = "safety"
	CategoryOther          Category = "other"
)

var Categories = []Category{
	CategoryInfrastructure,
	CategoryUtilities,
	CategoryRoads,
	CategorySanitation,
	CategoryEnvironment,
	CategorySafety,
	CategoryOther,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryUtilities, CategoryRoads, CategorySanitation,
		CategoryEnvironment, CategorySafety, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) Label() string {
	switch c {
	case CategoryInfrastructure:
		return "Infrastructure"
	case CategoryUtilities:
		return "Utilities"
	case CategoryRoads:
		return "Roads & Transport"
	case CategorySanitation:
		return "Sanitation"
	case CategoryEnvironment:
		return "Environment"
	case CategorySafety:
		return "Public Safety"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if !category.Valid() {
		return "", ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", s)}
	}
	return category, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.Valid() {
		return "", ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", s)}
	}
	return priority, nil
}

// InputMode selects which body payload of a complaint form is authoritative.
type InputMode string

const (
	ModeText  InputMode = "text"
	ModeVoice InputMode = "voice"
	ModeImage InputMode = "image"
)

func (m InputMode) Valid() bool {
	switch m {
	case ModeText, ModeVoice, ModeImage:
		return true
	default:
		return false
	}
}

func ParseInputMode(s string) (InputMode, error) {
	mode := InputMode(s)
	if !mode.Valid() {
		return "", ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown input mode %q", s)}
	}
	return mode, nil
}

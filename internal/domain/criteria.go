package domain

import (
	"strings"

	"github.com/nagarik-sahayak/sahayak"
)

// Criteria is the conjunction of listing predicates. A zero field disables its predicate.
type Criteria struct {
	Search   string
	Status   Status
	Category Category
	Priority Priority
}

// ParseCriteria accepts "all" or an empty value as "no filter" for the enumerated predicates.
func ParseCriteria(search, status, category, priority string) (Criteria, error) {
	c := Criteria{Search: search}
	if !isAll(status) {
		s, err := ParseStatus(status)
		if err != nil {
			return Criteria{}, err
		}
		c.Status = s
	}
	if !isAll(category) {
		cat, err := ParseCategory(category)
		if err != nil {
			return Criteria{}, err
		}
		c.Category = cat
	}
	if !isAll(priority) {
		p, err := ParsePriority(priority)
		if err != nil {
			return Criteria{}, err
		}
		c.Priority = p
	}
	return c, nil
}

// CriteriaFromFilter converts a wire filter into criteria.
func CriteriaFromFilter(f sahayak.ListFilter) (Criteria, error) {
	return ParseCriteria(f.Search, f.Status, f.Category, f.Priority)
}

func isAll(v string) bool {
	return v == "" || v == sahayak.FilterAll
}

// Filter converts the criteria back into its wire form.
func (c Criteria) Filter() sahayak.ListFilter {
	return sahayak.ListFilter{
		Search:   c.Search,
		Status:   string(c.Status),
		Category: string(c.Category),
		Priority: string(c.Priority),
	}
}

// Matches reports whether an issue satisfies every active predicate.
// The search term is a case-insensitive substring of the title, location or id.
func (c Criteria) Matches(i Issue) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(i.Title), term) &&
			!strings.Contains(strings.ToLower(i.Location), term) &&
			!strings.Contains(strings.ToLower(i.ID), term) {
			return false
		}
	}
	if c.Status != "" && i.Status != c.Status {
		return false
	}
	if c.Category != "" && i.Category != c.Category {
		return false
	}
	if c.Priority != "" && i.Priority != c.Priority {
		return false
	}
	return true
}

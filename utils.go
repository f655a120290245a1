package sahayak

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ComplaintIDPrefix = "CMP-"
	complaintIDDigits = 6
)

func FormatComplaintID(seq int64) string {
	return fmt.Sprintf("%s%0*d", ComplaintIDPrefix, complaintIDDigits, seq)
}

func ParseComplaintID(id string) (int64, error) {
	if !strings.HasPrefix(id, ComplaintIDPrefix) {
		return 0, fmt.Errorf("invalid complaint id %q: missing prefix", id)
	}
	digits := strings.TrimPrefix(id, ComplaintIDPrefix)
	if len(digits) < complaintIDDigits || !isDigits(digits) {
		return 0, fmt.Errorf("invalid complaint id %q", id)
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid complaint id %q: %v", id, err)
	}
	return seq, nil
}

func IsComplaintID(id string) bool {
	_, err := ParseComplaintID(id)
	return err == nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Query encodes the filter for a list request. Empty predicates are omitted.
func (f ListFilter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	for key, value := range map[string]string{
		"status":   f.Status,
		"category": f.Category,
		"priority": f.Priority,
	} {
		if value != "" && value != FilterAll {
			q.Set(key, value)
		}
	}
	return q
}

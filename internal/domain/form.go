package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxTitleRunes = 80

// FormInput is the content of a complaint form at submit time.
type FormInput struct {
	Contact  Contact   `json:"contact"`
	Location string    `json:"location" validate:"notblank"`
	Category Category  `json:"category" validate:"required,category"`
	Priority Priority  `json:"priority" validate:"omitempty,priority"`
	Mode     InputMode `json:"mode" validate:"inputmode"`
	Text     string    `json:"text"`
	Audio    *AudioRef `json:"audio"`
	Images   []string  `json:"images"`
}

// DefaultFormInput returns the values a fresh complaint form starts with.
func DefaultFormInput() FormInput {
	return FormInput{
		Category: CategoryInfrastructure,
		Priority: PriorityMedium,
		Mode:     ModeText,
	}
}

func (f FormInput) hasText() bool {
	return strings.TrimSpace(f.Text) != ""
}

func (f FormInput) hasAudio() bool {
	return f.Audio != nil && f.Audio.URI != ""
}

func (f FormInput) hasImages() bool {
	return len(f.Images) > 0
}

// Validate returns a ValidationError naming the first missing or invalid field.
// Required fields are checked first, then exactly one body payload must be present
// and it must belong to the selected input mode.
func (f FormInput) Validate() error {
	return Validate(f)
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}

// Title derives a listing title, since the form has no title field.
func (f FormInput) Title() string {
	switch f.Mode {
	case ModeVoice:
		return "Voice complaint: " + f.Category.Label()
	case ModeImage:
		return "Photo complaint: " + f.Category.Label()
	}

	line := strings.TrimSpace(f.Text)
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if utf8.RuneCountInString(line) > maxTitleRunes {
		line = strings.TrimSpace(string([]rune(line)[:maxTitleRunes]))
	}
	return line
}

// Description is the body of the complaint as it appears in the listing.
func (f FormInput) Description() string {
	switch f.Mode {
	case ModeVoice:
		return "Voice note recorded at " + f.Location
	case ModeImage:
		return "Photos submitted at " + f.Location
	default:
		return strings.TrimSpace(f.Text)
	}
}

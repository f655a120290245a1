package domain

import (
	"errors"
	"strings"
	"testing"
)

func validForm() FormInput {
	in := DefaultFormInput()
	in.Contact = Contact{Name: "Asha", Phone: "9999999999"}
	in.Location = "Park St"
	in.Category = CategoryRoads
	in.Text = "Pothole"
	return in
}

func TestFormValidateFirstMissingField(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*FormInput)
	}{
		{"name", func(f *FormInput) { f.Contact.Name = ""; f.Location = "" }},
		{"phone", func(f *FormInput) { f.Contact.Phone = "  " }},
		{"phone", func(f *FormInput) { f.Contact.Phone = "12ab" }},
		{"email", func(f *FormInput) { f.Contact.Email = "nope" }},
		{"location", func(f *FormInput) { f.Location = ""; f.Category = "" }},
		{"category", func(f *FormInput) { f.Category = "" }},
		{"category", func(f *FormInput) { f.Category = "weather" }},
		{"body", func(f *FormInput) { f.Text = "" }},
		{"body", func(f *FormInput) { f.Images = []string{"x.jpg"} }},
		{"audio", func(f *FormInput) { f.Mode = ModeVoice }},
	}
	for _, tc := range cases {
		in := validForm()
		tc.mutate(&in)
		err := in.Validate()
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %s got %v", tc.field, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("expected field %s got %s", tc.field, verr.Field)
		}
	}
}

func TestFormValidateModes(t *testing.T) {
	in := validForm()
	if err := in.Validate(); err != nil {
		t.Fatalf("valid text form rejected: %v", err)
	}

	in.Text = ""
	in.Mode = ModeVoice
	in.Audio = &AudioRef{URI: "blob:1", DurationSeconds: 12}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid voice form rejected: %v", err)
	}

	in.Audio = nil
	in.Mode = ModeImage
	in.Images = []string{"a.jpg", "b.jpg"}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid image form rejected: %v", err)
	}
}

func TestFormTitle(t *testing.T) {
	in := validForm()
	in.Text = "Broken streetlight\nnear the temple"
	if got := in.Title(); got != "Broken streetlight" {
		t.Fatalf("unexpected title %q", got)
	}

	in.Text = strings.Repeat("ग", 100)
	if got := []rune(in.Title()); len(got) != maxTitleRunes {
		t.Fatalf("title should be truncated to %d runes got %d", maxTitleRunes, len(got))
	}

	in.Mode = ModeVoice
	if got := in.Title(); got != "Voice complaint: Roads & Transport" {
		t.Fatalf("unexpected voice title %q", got)
	}
	in.Mode = ModeImage
	in.Category = CategorySanitation
	if got := in.Title(); got != "Photo complaint: Sanitation" {
		t.Fatalf("unexpected photo title %q", got)
	}
}

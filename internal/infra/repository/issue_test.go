package repository

import (
	"reflect"
	"testing"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
	"github.com/nagarik-sahayak/sahayak/internal/seed"
)

func TestModelConversionKeepsHistory(t *testing.T) {
	issue := seed.Issues()[0]
	issue.VoiceNote = &domain.AudioRef{URI: "memory://voice/1", DurationSeconds: 12}
	issue.Contact = domain.Contact{Name: "Rajesh Kumar", Phone: "9876543210"}

	model, err := toModel(issue)
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	if model.Images != `["https://images.pexels.com/photos/1108572/pexels-photo-1108572.jpeg"]` {
		t.Fatalf("unexpected images column %s", model.Images)
	}
	if len(model.Updates) != 3 || model.Updates[2].IssueID != issue.ID {
		t.Fatalf("unexpected update rows %+v", model.Updates)
	}

	back, err := fromModel(model)
	if err != nil {
		t.Fatalf("fromModel: %v", err)
	}
	if !reflect.DeepEqual(back, issue) {
		t.Fatalf("conversion changed the issue:\n got %+v\nwant %+v", back, issue)
	}
}

func TestModelConversionEmptyImages(t *testing.T) {
	issue := seed.Issues()[3]
	issue.Images = nil

	model, err := toModel(issue)
	if err != nil {
		t.Fatalf("toModel: %v", err)
	}
	if model.Images != "[]" {
		t.Fatalf("expected an empty array, got %s", model.Images)
	}

	back, err := fromModel(model)
	if err != nil {
		t.Fatalf("fromModel: %v", err)
	}
	if back.Images == nil || len(back.Images) != 0 {
		t.Fatalf("expected a non-nil empty slice, got %#v", back.Images)
	}
}

func TestFromModelRejectsCorruptImages(t *testing.T) {
	model, _ := toModel(seed.Issues()[1])
	model.Images = "{broken"
	if _, err := fromModel(model); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"mg road": "mg road",
		"100%":    `100\%`,
		"block_a": `block\_a`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearchCondition(t *testing.T) {
	condition, args, ok := searchCondition("MG Road")
	if !ok {
		t.Fatalf("expected a prefilter for an ASCII term")
	}
	if condition != "title ILIKE ? OR location ILIKE ? OR id ILIKE ?" {
		t.Fatalf("unexpected condition %q", condition)
	}
	if len(args) != 3 || args[0] != "%MG Road%" {
		t.Fatalf("unexpected args %v", args)
	}

	if _, _, ok := searchCondition("100%_off"); !ok {
		t.Fatalf("expected a prefilter for an escaped term")
	}

	for _, term := range []string{"", "सड़क", "ÉCOLE"} {
		if _, _, ok := searchCondition(term); ok {
			t.Fatalf("term %q should be matched in memory only", term)
		}
	}
}

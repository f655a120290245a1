package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	mustRegister(v, "priority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	mustRegister(v, "inputmode", func(fl validator.FieldLevel) bool {
		return InputMode(fl.Field().String()).Valid()
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(validateFormPayload, FormInput{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate checks the validate tags of s and returns a ValidationError naming the
// first failing field in declaration order.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	return ValidationError{Field: first.Field(), Reason: reasonFor(first)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return ""
	case "phone":
		return "must contain at least 7 digits"
	case "email":
		return "malformed address"
	case "category", "priority", "status":
		return "unknown " + fe.Tag()
	case "inputmode":
		return "unknown input mode"
	case "min", "max", "gte", "lte":
		return "out of range"
	default:
		// struct level rules carry their message as the parameter
		if fe.Param() != "" {
			return fe.Param()
		}
		return "failed " + fe.Tag()
	}
}

// validateFormPayload requires exactly one body payload, and that payload must
// belong to the selected input mode.
func validateFormPayload(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(FormInput)
	if !ok {
		return
	}

	present := 0
	for _, ok := range []bool{f.hasText(), f.hasAudio(), f.hasImages()} {
		if ok {
			present++
		}
	}
	switch {
	case present == 0:
		sl.ReportError(f.Text, "body", "Body", "payload", "one of text, audio or images is required")
		return
	case present > 1:
		sl.ReportError(f.Text, "body", "Body", "payload", "only one of text, audio or images may be provided")
		return
	}

	switch f.Mode {
	case ModeText:
		if !f.hasText() {
			sl.ReportError(f.Text, "text", "Text", "payload", "required for text input")
		}
	case ModeVoice:
		if !f.hasAudio() {
			sl.ReportError(f.Audio, "audio", "Audio", "payload", "required for voice input")
		}
	case ModeImage:
		if !f.hasImages() {
			sl.ReportError(f.Images, "images", "Images", "payload", "required for image input")
		}
	}
}

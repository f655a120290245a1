package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// DuplicateIDError is returned when a record id is already present in the store.
type DuplicateIDError struct {
	ID string
}

func (e DuplicateIDError) Error() string {
	if e.ID == "" {
		return "duplicate id"
	}
	return fmt.Sprintf("duplicate id %s", e.ID)
}

func (e DuplicateIDError) Is(target error) bool {
	_, ok := target.(DuplicateIDError)
	if ok {
		return true
	}
	_, ok = target.(*DuplicateIDError)
	return ok
}

var ErrDuplicateID = DuplicateIDError{}

// InvalidTransitionError rejects a state change that the owning state machine does not allow.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func (e InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("invalid %s transition %s -> %s", e.Entity, e.From, e.To)
	if e.Entity == "" && e.From == "" && e.To == "" {
		msg = "invalid transition"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e InvalidTransitionError) Is(target error) bool {
	_, ok := target.(InvalidTransitionError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidTransitionError)
	return ok
}

var ErrInvalidTransition = InvalidTransitionError{}

// ValidationError names the first missing or invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed"
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

var ErrValidation = ValidationError{}

// ResourceAccessError reports a denied or unavailable device/file, e.g. the microphone.
type ResourceAccessError struct {
	Resource string
	Err      error
}

func (e ResourceAccessError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to access %s", e.Resource)
	}
	return fmt.Sprintf("unable to access %s: %v", e.Resource, e.Err)
}

func (e ResourceAccessError) Unwrap() error {
	return e.Err
}

func (e ResourceAccessError) Is(target error) bool {
	_, ok := target.(ResourceAccessError)
	if ok {
		return true
	}
	_, ok = target.(*ResourceAccessError)
	return ok
}

var ErrResourceAccess = ResourceAccessError{}

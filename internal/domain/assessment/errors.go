package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSubmissionInFlight rejects a submit while the previous one is unresolved.
	ErrSubmissionInFlight = errors.New("a prediction request is already in progress")
	// ErrAssessmentNotFound is returned for unknown assessment ids.
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// MissingFieldError lists every empty field of a form.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// RangeError reports a numeric field outside its bounds, or one that is not a number.
type RangeError struct {
	Field string
	Min   float64
	Max   float64
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %q", e.Field, e.Min, e.Max, e.Value)
}

// ChoiceError reports a categorical field with an unknown selection.
type ChoiceError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("%s must be one of %s, got %q", e.Field, strings.Join(e.Allowed, ", "), e.Value)
}

// ConnectivityError means the prediction service could not be reached.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return "prediction service unreachable: " + errText(e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ServiceError carries a non-2xx status from the prediction service.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("prediction service returned status %d", e.Status)
}

// MalformedResponseError means a 2xx body could not be used.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return "malformed prediction response: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed prediction response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

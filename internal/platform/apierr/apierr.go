package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Mapping pairs a sentinel with the status/code it surfaces as.
type Mapping struct {
	Target error
	Status int
	Code   string
}

// Classify walks err's chain and returns the first *Error found, otherwise the first matching
// mapping, otherwise a 500 internal_error.
func Classify(err error, mappings ...Mapping) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, m := range mappings {
		if m.Target != nil && errors.Is(err, m.Target) {
			return New(m.Status, m.Code, err)
		}
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError for transport mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindParse      Kind = "parse"
	KindUpstream   Kind = "upstream"
)

// AppError carries the error taxonomy across service boundaries.
// Validation and not-found surface their detail to clients; parse and
// upstream map to a generic internal failure.
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidation(format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewParse marks output from the generation model that could not be parsed.
// Fatal to the enclosing operation.
func NewParse(message string, err error) *AppError {
	return &AppError{
		Kind:    KindParse,
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

// NewUpstream wraps a search or generation-model collaborator failure.
// Propagated unmodified, never retried at this layer.
func NewUpstream(message string, err error) *AppError {
	return &AppError{
		Kind:    KindUpstream,
		Code:    http.StatusBadGateway,
		Message: message,
		Err:     err,
	}
}

func kindOf(err error) (Kind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}

func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

func IsParse(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindParse
}

func IsUpstream(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUpstream
}

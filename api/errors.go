package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorReason classifies a request failure for status code mapping.
type ErrorReason string

const (
	ReasonNotFound ErrorReason = "NotFound"
	ReasonConflict ErrorReason = "Conflict"
	ReasonInvalid  ErrorReason = "Invalid"
	ReasonInternal ErrorReason = "InternalError"
)

type apiError struct {
	Reason  ErrorReason
	Message string
}

func (apiErr *apiError) Error() string {
	return apiErr.Message
}

// NewError builds a classified error for the HTTP error handler.
func NewError(reason ErrorReason, msg string, args ...any) error {
	return &apiError{
		Reason:  reason,
		Message: fmt.Sprintf(msg, args...),
	}
}

// Reason extracts the classification of an error. Unclassified errors count
// as internal, which keeps their details out of responses.
func Reason(err error) ErrorReason {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ReasonInternal
}

// ToHTTPStatus maps an error classification to a response status code.
func ToHTTPStatus(err error) int {
	switch Reason(err) {
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonConflict:
		return http.StatusConflict
	case ReasonInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

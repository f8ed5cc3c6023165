package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

var (
	// ErrContextUnavailable is returned when the host has no active project.
	ErrContextUnavailable = &ErrorWithStatusCode{Message: "host context unavailable: no active project", StatusCode: http.StatusUnauthorized}
	// ErrNoAttachments is returned when a run has no attachments at all.
	ErrNoAttachments = errors.New("no attachments")
)

// ServiceError is a non-2xx answer from the results service.
type ServiceError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: results service returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: results service returned status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// HTTPStatus maps the upstream status onto the status the previewer answers with.
func (e *ServiceError) HTTPStatus() int {
	switch e.StatusCode {
	case http.StatusNotFound:
		return http.StatusNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrCandidateNotFound indicates the candidate profile does not exist
type ErrCandidateNotFound struct {
	ID uuid.UUID
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.ID)
}

// ErrInvalidID indicates a malformed candidate ID
type ErrInvalidID struct {
	Value string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid candidate ID: %s", e.Value)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ErrUpstream indicates a dependency (model API, job board) failed
type ErrUpstream struct {
	Operation string
	Cause     error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Cause)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrCandidateNotFound:
		return http.StatusNotFound
	case *ErrInvalidID, *ErrValidation:
		return http.StatusBadRequest
	case *ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

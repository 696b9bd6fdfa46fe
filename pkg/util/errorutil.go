package util

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to clients.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeCapacityExceeded  = "CAPACITY_EXCEEDED"
	CodeNotRegistered     = "NOT_REGISTERED"
	CodeEventClosed       = "EVENT_CLOSED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeUpstream          = "UPSTREAM_ERROR"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

// FieldError is a single violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by code so sentinel comparisons work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports every violated field.
func NewValidationError(message string, fields []FieldError) error {
	if message == "" {
		message = "Validation error"
	}
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, fields)
}

// NewInvalidID is returned for path ids that are not UUIDs.
func NewInvalidID() error {
	return NewValidationError("Invalid ID format", []FieldError{{Field: "id", Message: "Invalid ID format"}})
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewInvalidToken(err error) error {
	return &DomainError{Code: CodeInvalidToken, Message: "Invalid or expired token", HTTPStatus: http.StatusUnauthorized, Err: err}
}

func NewTokenExpired(err error) error {
	return &DomainError{Code: CodeTokenExpired, Message: "Token expired", HTTPStatus: http.StatusUnauthorized, Err: err}
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewConflict reports a duplicate unique field. Matches the 400 the public API has always returned.
func NewConflict(message, field string) error {
	var details any
	if field != "" {
		details = map[string]string{"field": field}
	}
	return NewDomainError(CodeConflict, message, http.StatusBadRequest, details)
}

// NewBusinessRule reports a rejected state transition such as a full event.
func NewBusinessRule(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest, nil)
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "Too many requests, please slow down", http.StatusTooManyRequests, nil)
}

func NewUpstreamError(message string, err error) error {
	return &DomainError{Code: CodeUpstream, Message: message, HTTPStatus: http.StatusBadGateway, Err: err}
}

// NewTimeout is returned when the request deadline passes before the work finishes.
func NewTimeout(err error) error {
	return &DomainError{Code: CodeTimeout, Message: "Request timed out", HTTPStatus: http.StatusServiceUnavailable, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Sentinels for event registration rules.
var (
	ErrAlreadyRegistered = NewBusinessRule(CodeAlreadyRegistered, "You are already registered for this event")
	ErrCapacityExceeded  = NewBusinessRule(CodeCapacityExceeded, "Event has reached maximum capacity")
	ErrNotRegistered     = NewBusinessRule(CodeNotRegistered, "You are not registered for this event")
	ErrEventClosed       = NewBusinessRule(CodeEventClosed, "Event is no longer accepting registrations")
)

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeout(err).(*DomainError)
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	}
	if fields, ok := ValidationDetails(err); ok {
		return NewValidationError("", fields).(*DomainError)
	}
	if field, ok := UniqueViolationField(err); ok {
		return NewConflict("Duplicate value", field).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}

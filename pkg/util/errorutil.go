package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is SQLSTATE 23505, raised when an insert or update hits
// a UNIQUE constraint.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Services use it to surface their named duplicate errors when a
// concurrent writer slips past the pre-check and the constraint fires.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// DomainError standardizes application errors. Code is the caller-visible
// reason string surfaced in every failure response.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("validation-failed", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "not-found",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUnauthenticated reports a missing or invalid identity.
func NewUnauthenticated(message string) error {
	return NewDomainError("not-authorized", message, http.StatusUnauthorized, nil)
}

// NewNotAuthorized reports an authenticated caller lacking the required role
// set, or acting on a document it does not own.
func NewNotAuthorized(message string) error {
	return NewDomainError("not-authorized", message, http.StatusForbidden, nil)
}

func NewDuplicateTag(tag string) error {
	return NewDomainError("duplicate-tag", "asset tag already in use", http.StatusConflict, map[string]any{"asset_tag": tag})
}

func NewAlreadyRated(ticketID string) error {
	return NewDomainError("already-rated", "ticket already rated", http.StatusConflict, map[string]any{"ticket_id": ticketID})
}

func NewAlreadyAcknowledged(escalationID string) error {
	return NewDomainError("already-acknowledged", "escalation already acknowledged", http.StatusConflict, map[string]any{"escalation_id": escalationID})
}

func NewInvalidRating(message string) error {
	return NewDomainError("invalid-rating", message, http.StatusBadRequest, nil)
}

func NewInvalidStatus(message string) error {
	return NewDomainError("invalid-status", message, http.StatusBadRequest, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("conflict", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "internal-error",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if IsUniqueViolation(err) {
		return NewDomainError("conflict", "resource already exists", http.StatusConflict, nil)
	}
	return &DomainError{
		Code:       "internal-error",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts a generic error into the error returned to callers.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

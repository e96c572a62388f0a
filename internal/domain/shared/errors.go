// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation        = errors.New("validation error")
	ErrInvalidID         = errors.New("invalid ID")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrEmptyValue        = errors.New("value cannot be empty")
	ErrNegativeValue     = errors.New("value cannot be negative")
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrInvalidFormat     = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrNotActive    = errors.New("not active")
	ErrExpired      = errors.New("expired")
	ErrLimitReached = errors.New("limit reached")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Infrastructure errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "submission", "leaderboard", "riddle"
	Op      string // Operation that failed, e.g., "Submit", "Rank"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Geo domain errors
var (
	ErrLatitudeOutOfRange  = NewDomainError("geo", "Validate", ErrInvalidCoordinate, "latitude must be within [-90, 90]")
	ErrLongitudeOutOfRange = NewDomainError("geo", "Validate", ErrInvalidCoordinate, "longitude must be within [-180, 180]")
)

// Scoring domain errors
var (
	ErrNegativeDistance = NewDomainError("scoring", "Validate", ErrInvalidInput, "distance cannot be negative")
	ErrNegativeElapsed  = NewDomainError("scoring", "Validate", ErrInvalidInput, "elapsed time cannot be negative")
	ErrInvalidDifficulty = NewDomainError("scoring", "Validate", ErrInvalidInput, "unknown difficulty")
)

// Submission domain errors
var (
	ErrDuplicateSubmission = NewDomainError("submission", "Submit", ErrAlreadyExists, "riddle already answered by this player")
	ErrSubmissionNotFound  = NewDomainError("submission", "Find", ErrNotFound, "submission not found")
	ErrDailyLimitReached   = NewDomainError("submission", "Submit", ErrLimitReached, "daily riddle limit reached")
	ErrGameInactive        = NewDomainError("submission", "Submit", ErrNotActive, "game is disabled by the administrator")
)

// Riddle domain errors
var (
	ErrRiddleNotFound  = NewDomainError("riddle", "Find", ErrNotFound, "riddle not found")
	ErrRiddleNotActive = NewDomainError("riddle", "CheckActive", ErrNotActive, "riddle is outside its active window")
	ErrLocationNotFound = NewDomainError("riddle", "FindLocation", ErrNotFound, "location not found")
	ErrLocationInUse    = NewDomainError("riddle", "DeleteLocation", ErrInvalidState, "location is referenced by submissions")
)

// Player domain errors
var (
	ErrPlayerNotFound = NewDomainError("player", "Find", ErrNotFound, "player not found")
	ErrPlayerExists   = NewDomainError("player", "Register", ErrAlreadyExists, "player already registered")
	ErrPlayerBlocked  = NewDomainError("player", "CheckStatus", ErrForbidden, "player is blocked")
)

// Leaderboard domain errors
var (
	ErrUnknownCategory = NewDomainError("leaderboard", "Validate", ErrInvalidInput, "unknown leaderboard category")
	ErrUnknownWindow   = NewDomainError("leaderboard", "Validate", ErrInvalidInput, "unknown leaderboard window")
	ErrNotRanked       = NewDomainError("leaderboard", "Rank", ErrNotFound, "player has no qualifying submissions")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidCoordinate) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsStorageUnavailable checks if the error indicates the persistence layer
// is down. This is the only fatal condition; everything else is a caller error.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

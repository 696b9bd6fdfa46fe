package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/society-api/pkg/util"
)

// ErrNotFound is returned when a row does not exist. It aliases pgx.ErrNoRows so
// callers can match either.
var ErrNotFound = pgx.ErrNoRows

var (
	// ErrDuplicate wraps unique-constraint violations.
	ErrDuplicate = errors.New("duplicate key")
	// ErrAlreadyRegistered means the user already holds a seat at the event.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrCapacityExceeded means the event has no seats left.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrNotRegistered means the user holds no seat at the event.
	ErrNotRegistered = errors.New("not registered")
	// ErrCapacityBelowCount rejects shrinking maxParticipants under the current headcount.
	ErrCapacityBelowCount = errors.New("max participants below current registrations")
)

// wrapWriteErr converts unique violations into ErrDuplicate.
func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if field, ok := apperrors.UniqueViolationField(err); ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, field)
	}
	return err
}

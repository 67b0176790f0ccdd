package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ecomstore/internal/repository"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// ForbiddenError reports that the caller may not perform the operation.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// InsufficientStockError reports a purchase larger than the available stock.
type InsufficientStockError struct {
	ProductID int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// ConflictError reports a write that clashes with existing data, such as a
// duplicate email.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

var ErrInvalidCredentials = errors.New("invalid email or password")

// notFound converts a repository miss into a NotFoundError for entity.
func notFound(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity}
	}
	return err
}

// isExpected reports whether err is a business outcome rather than a fault.
func isExpected(err error) bool {
	var (
		ve *ValidationError
		ne *NotFoundError
		fe *ForbiddenError
		se *InsufficientStockError
		ce *ConflictError
	)
	return errors.As(err, &ve) || errors.As(err, &ne) || errors.As(err, &fe) ||
		errors.As(err, &se) || errors.As(err, &ce) || errors.Is(err, ErrInvalidCredentials)
}

// failure starts a log event for err: info for business outcomes, error for
// everything else.
func failure(err error) *zerolog.Event {
	if isExpected(err) {
		return log.Info().Err(err)
	}
	return log.Error().Err(err)
}

// outOfRange converts a store overflow into a ValidationError with msg.
func outOfRange(err error, msg string) error {
	if errors.Is(err, repository.ErrOutOfRange) {
		return invalid("%s", msg)
	}
	return err
}

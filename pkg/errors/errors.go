package errors

import (
	stderrors "errors"
	"fmt"
)

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Error constructors
func NewValidationError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  400,
	}
}

func NewNotFoundError(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func NewConflictError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "CONFLICT",
		Message: message,
		Status:  409,
	}
}

func NewInternalError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  500,
	}
}

// Repository error kinds. Every repository failure is either a *WriteError or
// a *ReadError; callers classify them with errors.Is against the sentinels.
var (
	ErrFailedToPersist       = stderrors.New("failed to persist entity")
	ErrUnknownEntity         = stderrors.New("entity was not found")
	ErrNoEventsFound         = stderrors.New("no events were found")
	ErrMultipleEntitiesFound = stderrors.New("multiple entities found")
)

type WriteErrorKind string

const FailedToPersist WriteErrorKind = "FAILED_TO_PERSIST"

// WriteError is returned by the write side of a repository. Cause is always a
// human-readable description of what went wrong.
type WriteError struct {
	Kind  WriteErrorKind
	Cause string
}

func NewFailedToPersistError(cause string) *WriteError {
	return &WriteError{Kind: FailedToPersist, Cause: cause}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to persist entity: `%s`", e.Cause)
}

func (e *WriteError) Unwrap() error {
	return ErrFailedToPersist
}

type ReadErrorKind string

const (
	UnknownEntity         ReadErrorKind = "UNKNOWN_ENTITY"
	NoEventsFound         ReadErrorKind = "NO_EVENTS_FOUND"
	MultipleEntitiesFound ReadErrorKind = "MULTIPLE_ENTITIES_FOUND"
)

// ReadError is returned by the read side of a repository. ID holds the key
// that was looked up: an aggregate id, or the secondary key of an extension
// finder.
type ReadError struct {
	Kind ReadErrorKind
	ID   string
}

func NewUnknownEntityError(id string) *ReadError {
	return &ReadError{Kind: UnknownEntity, ID: id}
}

// NewNoEventsFoundError is reserved for extension finders; the base
// repositories never return it.
func NewNoEventsFoundError() *ReadError {
	return &ReadError{Kind: NoEventsFound}
}

func NewMultipleEntitiesFoundError(id string) *ReadError {
	return &ReadError{Kind: MultipleEntitiesFound, ID: id}
}

func (e *ReadError) Error() string {
	switch e.Kind {
	case NoEventsFound:
		return "no events were found"
	case MultipleEntitiesFound:
		return fmt.Sprintf("multiple entities found for `%s`", e.ID)
	default:
		return fmt.Sprintf("entity `%s` was not found", e.ID)
	}
}

func (e *ReadError) Unwrap() error {
	switch e.Kind {
	case NoEventsFound:
		return ErrNoEventsFound
	case MultipleEntitiesFound:
		return ErrMultipleEntitiesFound
	default:
		return ErrUnknownEntity
	}
}

// IsNotFound reports whether err means that nothing matched a lookup.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrUnknownEntity) || stderrors.Is(err, ErrNoEventsFound)
}

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"aggrepo/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	err := errors.NewFailedToPersistError("connection refused")

	assert.Equal(t, errors.FailedToPersist, err.Kind)
	assert.Equal(t, "connection refused", err.Cause)
	assert.Equal(t, "failed to persist entity: `connection refused`", err.Error())
	assert.ErrorIs(t, err, errors.ErrFailedToPersist)
	assert.NotErrorIs(t, err, errors.ErrUnknownEntity)
}

func TestReadError(t *testing.T) {
	t.Run("UnknownEntity", func(t *testing.T) {
		err := errors.NewUnknownEntityError("42")

		assert.Equal(t, errors.UnknownEntity, err.Kind)
		assert.Equal(t, "entity `42` was not found", err.Error())
		assert.ErrorIs(t, err, errors.ErrUnknownEntity)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("NoEventsFound", func(t *testing.T) {
		err := errors.NewNoEventsFoundError()

		assert.Equal(t, "no events were found", err.Error())
		assert.ErrorIs(t, err, errors.ErrNoEventsFound)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("MultipleEntitiesFound", func(t *testing.T) {
		err := errors.NewMultipleEntitiesFoundError("b@example.com")

		assert.Equal(t, "multiple entities found for `b@example.com`", err.Error())
		assert.ErrorIs(t, err, errors.ErrMultipleEntitiesFound)
		assert.False(t, errors.IsNotFound(err))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load user: %w", errors.NewUnknownEntityError("42"))

		var readErr *errors.ReadError
		assert.True(t, stderrors.As(wrapped, &readErr))
		assert.Equal(t, "42", readErr.ID)
		assert.True(t, errors.IsNotFound(wrapped))
	})
}

func TestApplicationError(t *testing.T) {
	assert.Equal(t, 400, errors.NewValidationError("bad").Status)
	assert.Equal(t, "user not found", errors.NewNotFoundError("user").Error())
	assert.Equal(t, "CONFLICT", errors.NewConflictError("dup").Code)
	assert.Equal(t, 500, errors.NewInternalError("boom").Status)
}

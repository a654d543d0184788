package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     Kind
	}{
		{"validation", NewValidationError("Course title cannot be null or empty"), ErrValidationFailed, KindValidation},
		{"conflict", NewConflictError("Region with title 'Attica' already exists"), ErrConflict, KindConflict},
		{"not found", NewResourceNotFoundError("Course with ID 99 not found"), ErrResourceNotFound, KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := NewConflictError("Course with title 'Go' already exists")

	err := Wrap(cause, "error creating course")

	require.Error(t, err)
	assert.Equal(t, "error creating course: Course with title 'Go' already exists", err.Error())
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrValidationFailed))

	var ce *CustomError
	require.True(t, errors.As(err, &ce))
	assert.Same(t, cause, ce.Unwrap())
}

func TestWrapUnknownCauseIsPersistence(t *testing.T) {
	cause := fmt.Errorf("connection reset")

	err := Wrap(cause, "error deleting teacher")

	assert.Equal(t, KindPersistence, KindOf(err))
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "anything"))
}

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	err := New(ErrCodeValidation, "bad input").WithDetail("field", "title")

	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())
	assert.Equal(t, "title", err.Details["field"])
	assert.False(t, err.IsNotFound())
	assert.False(t, err.IsInternal())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrCodeStorage, "save failed")

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsInternal())
	assert.Contains(t, err.Error(), "disk full")
}

func TestNotFoundCodes(t *testing.T) {
	assert.True(t, NewGiveawayNotFoundError("g1").IsNotFound())
	assert.True(t, New(ErrCodeParticipantNotFound, "").IsNotFound())
	assert.False(t, NewForbiddenError("nope").IsNotFound())
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(NewConflictError("participant", "already joined"))
	require.True(t, ok)
	assert.Equal(t, ErrCodeConflict, appErr.Code)

	_, ok = AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)

	_, ok = AsAppError(nil)
	assert.False(t, ok)
}

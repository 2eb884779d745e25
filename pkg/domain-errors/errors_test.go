package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeConflict, "Site already exists!")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotFound, "taskID does not exist!"))
		assert.True(t, HasCode(err, CodeNotFound))
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("plain error", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.Empty(t, MessageOf(err))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to load task")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load task: connection reset", err.Error())
	assert.Equal(t, "failed to load task", MessageOf(err))
}

func TestErrorIs_ComparesCodeAndMessage(t *testing.T) {
	err := New(CodeInvalidState, "Unable to update the verification task!")

	require.ErrorIs(t, err, New(CodeInvalidState, "Unable to update the verification task!"))
	assert.NotErrorIs(t, err, New(CodeInvalidState, "other"))
	assert.NotErrorIs(t, err, New(CodeConflict, "Unable to update the verification task!"))
}

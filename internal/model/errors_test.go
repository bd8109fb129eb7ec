package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewValidationError("name", "required"))
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsConflictError(wrapped))

	assert.True(t, IsConflictError(fmt.Errorf("x: %w", NewConflictError("session", "pending"))))
	assert.True(t, IsNotFoundError(NewNotFoundError("venue", "v1")))
	assert.True(t, IsNotFoundError(fmt.Errorf("get: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(ErrUnauthorized))
}

func TestActionKindValid(t *testing.T) {
	assert.True(t, ActionCheckIn.Valid())
	assert.True(t, ActionPost.Valid())
	assert.False(t, ActionKind("dance").Valid())
}

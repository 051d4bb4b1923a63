package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeMatching(t *testing.T) {
	err := newError(CodePermissionDenied, "user %s lacks %s", "alice", "users.read")

	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.False(t, errors.Is(err, ErrUserInactive))
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
	assert.Contains(t, err.Error(), "users.read")
}

func TestValidationErrorHasNoCode(t *testing.T) {
	err := validationError("field cannot be empty")

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Empty(t, domainErr.Code)
	assert.False(t, errors.Is(err, ErrPermissionDenied))
	assert.Equal(t, "field cannot be empty", err.Error())
}

func TestErrorSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(newError(CodeUserInactive, "account gone"), "login failed")

	assert.True(t, errors.Is(err, ErrUserInactive))
}

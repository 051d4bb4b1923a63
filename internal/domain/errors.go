package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Error codes carried by classified domain failures. Callers map these to
// transport-level responses (401 for inactive accounts and bad credentials,
// 403 for denied permissions).
const (
	CodeUserInactive       = "USER_INACTIVE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeRoleAssignment     = "ROLE_ASSIGNMENT_ERROR"
)

// Error is the single failure type produced by the domain model. Classified
// failures carry a stable machine-readable Code; plain validation failures
// (malformed input rejected at construction or mutation time) leave Code
// empty. All Error values are recoverable by the caller.
type Error struct {
	// Code is the stable machine-readable error code, empty for
	// unclassified validation failures.
	Code string
	// Message is the human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}

	return e.Message
}

// Is reports whether target is a domain Error with the same code. It lets
// callers match classified failures with errors.Is against the exported
// sentinels regardless of the per-instance message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Code != "" && e.Code == t.Code
}

// Sentinel values for errors.Is matching. The domain constructs richer
// instances (carrying user IDs or permission codes in the message) that
// compare equal to these by code.
var (
	// ErrUserInactive is returned when an operation requires an active,
	// non-deleted user account.
	ErrUserInactive = &Error{Code: CodeUserInactive, Message: "user account is inactive"}

	// ErrInvalidCredentials is returned when authentication fails due to a
	// password hash mismatch.
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}

	// ErrPermissionDenied is returned by CheckPermission when the user does
	// not hold the required permission.
	ErrPermissionDenied = &Error{Code: CodePermissionDenied, Message: "permission denied"}

	// ErrRoleAssignment is returned when a role or permission grant violates
	// an assignment rule (inactive role, deleted permission).
	ErrRoleAssignment = &Error{Code: CodeRoleAssignment, Message: "role assignment error"}
)

// NewPermissionDenied builds a PERMISSION_DENIED failure carrying the user
// identity and the denied subject, a permission code or an HTTP request.
func NewPermissionDenied(userID uuid.UUID, subject string) *Error {
	return newError(CodePermissionDenied, "user %s is not allowed to access %s", userID, subject)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

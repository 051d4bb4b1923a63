package domain

import (
	"regexp"
	"strings"
)

// Value objects are immutable, self-validating string primitives. They are
// constructed exclusively through their New* functions so that an invalid
// value can never circulate inside the domain.

var (
	emailPattern          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern          = regexp.MustCompile(`^1[3-9]\d{9}$`)
	usernamePattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	roleCodePattern       = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	permissionCodePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_:.-]*$`)
	nonDigitPattern       = regexp.MustCompile(`\D`)
)

// Email is a validated email address.
type Email string

// NewEmail validates and returns an Email.
func NewEmail(value string) (Email, error) {
	if value == "" {
		return "", validationError("email cannot be empty")
	}

	if len(value) > 255 {
		return "", validationError("email cannot exceed 255 characters")
	}

	if !emailPattern.MatchString(value) {
		return "", validationError("invalid email format: %s", value)
	}

	return Email(value), nil
}

// Domain returns the part after the @ sign.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(string(e), "@")
	return domain
}

// LocalPart returns the part before the @ sign.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(string(e), "@")
	return local
}

func (e Email) String() string { return string(e) }

// Phone is a validated CN-style 11-digit mobile number. Formatting
// characters are stripped on construction.
type Phone string

// NewPhone validates and returns a Phone.
func NewPhone(value string) (Phone, error) {
	if value == "" {
		return "", validationError("phone cannot be empty")
	}

	cleaned := nonDigitPattern.ReplaceAllString(value, "")
	if !phonePattern.MatchString(cleaned) {
		return "", validationError("invalid phone format: must be 11 digits starting with 1")
	}

	return Phone(cleaned), nil
}

// Formatted returns the number split for display, e.g. 138-8888-8888.
func (p Phone) Formatted() string {
	s := string(p)
	return s[:3] + "-" + s[3:7] + "-" + s[7:]
}

// Masked returns the number with the middle digits hidden, e.g. 138****8888.
func (p Phone) Masked() string {
	s := string(p)
	return s[:3] + "****" + s[7:]
}

func (p Phone) String() string { return string(p) }

// Username is a validated login name: 3-50 characters of letters, digits,
// underscores and hyphens, not starting with a digit.
type Username string

// NewUsername validates and returns a Username.
func NewUsername(value string) (Username, error) {
	if value == "" {
		return "", validationError("username cannot be empty")
	}

	if len(value) < 3 || len(value) > 50 {
		return "", validationError("username must be between 3 and 50 characters")
	}

	if !usernamePattern.MatchString(value) {
		return "", validationError("username may only contain letters, digits, underscores and hyphens")
	}

	if value[0] >= '0' && value[0] <= '9' {
		return "", validationError("username cannot start with a digit")
	}

	return Username(value), nil
}

func (u Username) String() string { return string(u) }

// RoleCode is a validated role identifier: uppercase, starting with a
// letter, 2-50 characters.
type RoleCode string

// NewRoleCode validates and returns a RoleCode.
func NewRoleCode(value string) (RoleCode, error) {
	if value == "" {
		return "", validationError("role code cannot be empty")
	}

	if len(value) < 2 || len(value) > 50 {
		return "", validationError("role code must be between 2 and 50 characters")
	}

	if !roleCodePattern.MatchString(value) {
		return "", validationError("role code must start with an uppercase letter and contain only uppercase letters, digits and underscores")
	}

	return RoleCode(value), nil
}

func (c RoleCode) String() string { return string(c) }

// PermissionCode is a validated permission identifier in dotted form,
// e.g. "users.read" or "system.config.update".
type PermissionCode string

// NewPermissionCode validates and returns a PermissionCode.
func NewPermissionCode(value string) (PermissionCode, error) {
	if value == "" {
		return "", validationError("permission code cannot be empty")
	}

	if len(value) < 2 || len(value) > 100 {
		return "", validationError("permission code must be between 2 and 100 characters")
	}

	if !permissionCodePattern.MatchString(value) {
		return "", validationError("permission code must start with a letter and contain only letters, digits, underscores, colons, dots and hyphens")
	}

	return PermissionCode(value), nil
}

// Parts splits the code on dots.
func (c PermissionCode) Parts() []string {
	return strings.Split(string(c), ".")
}

// Module returns the first dotted segment.
func (c PermissionCode) Module() string {
	return c.Parts()[0]
}

// Resource returns the second dotted segment, if present.
func (c PermissionCode) Resource() string {
	parts := c.Parts()
	if len(parts) < 2 {
		return ""
	}

	return parts[1]
}

// Action returns the third dotted segment, if present.
func (c PermissionCode) Action() string {
	parts := c.Parts()
	if len(parts) < 3 {
		return ""
	}

	return parts[2]
}

func (c PermissionCode) String() string { return string(c) }

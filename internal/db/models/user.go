// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// User represents a user account row.
// Role assignments live in the user_roles junction table and are loaded
// explicitly by the controllers.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:50;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// FullName is the user's display name.
	FullName string `gorm:"size:100"`
	// Phone is the user's mobile number, empty if not set.
	Phone string `gorm:"size:20"`
	// AvatarURL points at the user's avatar image.
	AvatarURL string `gorm:"size:255"`
	// Active indicates whether the user account is active and can log in.
	Active bool `gorm:"default:true"`
	// Superuser bypasses all permission checks.
	Superuser bool `gorm:"default:false"`
	// Deleted is the soft delete flag; deleted rows are kept for audit.
	Deleted bool `gorm:"default:false"`
	// EmailVerified records whether the email address was confirmed.
	EmailVerified bool `gorm:"default:false"`
	// PhoneVerified records whether the phone number was confirmed.
	PhoneVerified bool `gorm:"default:false"`
	// LastLoginAt is the timestamp of the last successful login.
	LastLoginAt *time.Time
	// LoginCount counts successful logins.
	LoginCount int `gorm:"default:0"`
	// PasswordChangedAt is the timestamp of the last password change.
	PasswordChangedAt *time.Time
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}

// ToDomain maps the row onto the domain aggregate. Roles start empty and
// are attached by the caller after loading the junction rows.
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.Password,
		FullName:          u.FullName,
		Phone:             u.Phone,
		AvatarURL:         u.AvatarURL,
		IsActive:          u.Active,
		IsSuperuser:       u.Superuser,
		IsDeleted:         u.Deleted,
		EmailVerified:     u.EmailVerified,
		PhoneVerified:     u.PhoneVerified,
		LastLoginAt:       u.LastLoginAt,
		LoginCount:        u.LoginCount,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		Roles:             domain.RoleSet{},
	}
}

// UserFromDomain maps a domain aggregate onto a row for persistence.
func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Password:          u.PasswordHash,
		FullName:          u.FullName,
		Phone:             u.Phone,
		AvatarURL:         u.AvatarURL,
		Active:            u.IsActive,
		Superuser:         u.IsSuperuser,
		Deleted:           u.IsDeleted,
		EmailVerified:     u.EmailVerified,
		PhoneVerified:     u.PhoneVerified,
		LastLoginAt:       u.LastLoginAt,
		LoginCount:        u.LoginCount,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

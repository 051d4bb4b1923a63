// Package user provides CRUD operations for managing users and their role assignments.
package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

const (
	usernameQueryPattern = "username = ?"
	userQueryPattern     = "user_id = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when attempting to create a user whose username is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by ID with the full aggregate attached: currently
// valid role assignments and the permissions those roles carry.
func Get(db *gorm.DB, id uuid.UUID) (*domain.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.User
	result := db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return hydrate(db, &row)
}

// GetByUsername retrieves a user by username with the full aggregate attached.
func GetByUsername(db *gorm.DB, username string) (*domain.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.User
	result := db.Where(usernameQueryPattern, username).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return hydrate(db, &row)
}

// GetAll retrieves all users that are not soft deleted, without role
// aggregates.
func GetAll(db *gorm.DB) ([]*domain.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.User
	result := db.Where("deleted = ?", false).Order("username").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].ToDomain())
	}

	return users, nil
}

// Create stores a new user.
func Create(db *gorm.DB, u *domain.User) error {
	if db == nil {
		return ErrDBNil
	}

	// Check if the username is already taken
	var existing models.User
	result := db.Where(usernameQueryPattern, u.Username).First(&existing)
	if result.Error == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(models.UserFromDomain(u)).Error
}

// Save persists a modified user row. Role assignments are persisted
// separately through Assign and Unassign.
func Save(db *gorm.DB, u *domain.User) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).
		Where("id = ?", u.ID).
		Select("*").Omit("id", "created_at").
		Updates(models.UserFromDomain(u))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Assign records a role assignment for a user. The domain guards (active
// user, active role) must already have passed; this persists the junction
// row.
func Assign(db *gorm.DB, assignment *domain.UserRole) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(models.UserRoleFromDomain(assignment)).Error
}

// Unassign removes a role assignment. Removing an assignment that does not
// exist is not an error.
func Unassign(db *gorm.DB, userID, roleID uuid.UUID) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
}

// Assignments retrieves the role assignment records of a user, including
// inactive and expired ones.
func Assignments(db *gorm.DB, userID uuid.UUID) ([]*domain.UserRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.UserRole
	result := db.Where(userQueryPattern, userID).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	assignments := make([]*domain.UserRole, 0, len(rows))
	for i := range rows {
		assignments = append(assignments, rows[i].ToDomain())
	}

	return assignments, nil
}

// hydrate attaches the roles of currently valid assignments, each with its
// permissions, to the user aggregate. Switched off and expired assignments
// do not contribute roles.
func hydrate(db *gorm.DB, row *models.User) (*domain.User, error) {
	u := row.ToDomain()

	var assignments []models.UserRole
	result := db.Where(userQueryPattern, row.ID).Find(&assignments)
	if result.Error != nil {
		return nil, result.Error
	}

	for i := range assignments {
		assignment := assignments[i].ToDomain()
		if !assignment.IsValid() {
			continue
		}

		r, err := role.Get(db, assignment.RoleID)
		if err != nil {
			if errors.Is(err, role.ErrRoleNotFound) {
				continue
			}
			return nil, err
		}

		u.Roles[r.ID] = r
	}

	return u, nil
}

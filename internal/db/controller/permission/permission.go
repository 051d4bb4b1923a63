// Package permission provides CRUD operations for managing permissions.
package permission

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

const (
	codeQueryPattern = "code = ?"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionAlreadyExists is returned when attempting to create a permission whose code is taken.
	ErrPermissionAlreadyExists = errors.New("permission already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a permission by its ID.
func Get(db *gorm.DB, id uuid.UUID) (*domain.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.Permission
	result := db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return row.ToDomain(), nil
}

// GetByCode retrieves a permission by its unique code.
func GetByCode(db *gorm.DB, code string) (*domain.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.Permission
	result := db.Where(codeQueryPattern, code).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return row.ToDomain(), nil
}

// GetAll retrieves all permissions that are not soft deleted, ordered for display.
func GetAll(db *gorm.DB) ([]*domain.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.Permission
	result := db.Where("deleted = ?", false).Order("sort_order, code").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	perms := make([]*domain.Permission, 0, len(rows))
	for i := range rows {
		perms = append(perms, rows[i].ToDomain())
	}

	return perms, nil
}

// Create stores a new permission.
func Create(db *gorm.DB, perm *domain.Permission) error {
	if db == nil {
		return ErrDBNil
	}

	// Check if the code is already taken
	var existing models.Permission
	result := db.Where(codeQueryPattern, perm.Code).First(&existing)
	if result.Error == nil {
		return ErrPermissionAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(models.PermissionFromDomain(perm)).Error
}

// Save persists a modified permission.
func Save(db *gorm.DB, perm *domain.Permission) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Permission{}).
		Where("id = ?", perm.ID).
		Select("*").Omit("id", "created_at").
		Updates(models.PermissionFromDomain(perm))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}

	return nil
}

// Delete soft deletes a permission. System permissions are rejected by the
// domain layer.
func Delete(db *gorm.DB, id uuid.UUID) error {
	perm, err := Get(db, id)
	if err != nil {
		return err
	}

	if err := perm.SoftDelete(); err != nil {
		return err
	}

	return Save(db, perm)
}

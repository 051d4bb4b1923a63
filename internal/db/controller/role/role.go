// Package role provides CRUD operations for managing roles and their permission grants.
package role

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

const (
	codeQueryPattern = "code = ?"
	roleQueryPattern = "role_id = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleAlreadyExists is returned when attempting to create a role whose code is taken.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a role by ID with its granted permissions attached.
func Get(db *gorm.DB, id uuid.UUID) (*domain.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.Role
	result := db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return hydrate(db, &row)
}

// GetByCode retrieves a role by its unique code with its granted permissions attached.
func GetByCode(db *gorm.DB, code string) (*domain.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.Role
	result := db.Where(codeQueryPattern, code).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return hydrate(db, &row)
}

// GetAll retrieves all roles that are not soft deleted, without permissions,
// ordered for display.
func GetAll(db *gorm.DB) ([]*domain.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.Role
	result := db.Where("deleted = ?", false).Order("sort_order, code").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	roles := make([]*domain.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, rows[i].ToDomain())
	}

	return roles, nil
}

// Create stores a new role.
func Create(db *gorm.DB, r *domain.Role) error {
	if db == nil {
		return ErrDBNil
	}

	// Check if the code is already taken
	var existing models.Role
	result := db.Where(codeQueryPattern, r.Code).First(&existing)
	if result.Error == nil {
		return ErrRoleAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	return db.Create(models.RoleFromDomain(r)).Error
}

// Save persists a modified role row. Permission grants are persisted
// separately through Grant and Revoke.
func Save(db *gorm.DB, r *domain.Role) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Role{}).
		Where("id = ?", r.ID).
		Select("*").Omit("id", "created_at").
		Updates(models.RoleFromDomain(r))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}

// Delete soft deletes a role. System roles are rejected by the domain layer.
func Delete(db *gorm.DB, id uuid.UUID) error {
	r, err := Get(db, id)
	if err != nil {
		return err
	}

	if err := r.SoftDelete(); err != nil {
		return err
	}

	return Save(db, r)
}

// Grant records a permission grant for a role. The domain guards (active
// role, non-deleted permission) must already have passed; this persists the
// junction row.
func Grant(db *gorm.DB, grant *domain.RolePermission) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(models.RolePermissionFromDomain(grant)).Error
}

// Revoke removes a permission grant. Revoking a grant that does not exist
// is not an error.
func Revoke(db *gorm.DB, roleID, permissionID uuid.UUID) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermission{}).Error
}

// Grants retrieves the grant records of a role.
func Grants(db *gorm.DB, roleID uuid.UUID) ([]*domain.RolePermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.RolePermission
	result := db.Where(roleQueryPattern, roleID).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	grants := make([]*domain.RolePermission, 0, len(rows))
	for i := range rows {
		grants = append(grants, rows[i].ToDomain())
	}

	return grants, nil
}

// hydrate attaches the granted permissions to the role aggregate.
func hydrate(db *gorm.DB, row *models.Role) (*domain.Role, error) {
	r := row.ToDomain()

	var perms []models.Permission
	result := db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where(roleQueryPattern, row.ID).
		Find(&perms)
	if result.Error != nil {
		return nil, result.Error
	}

	for i := range perms {
		p := perms[i].ToDomain()
		r.Permissions[p.ID] = p
	}

	return r, nil
}

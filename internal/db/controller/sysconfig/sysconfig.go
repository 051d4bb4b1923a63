// Package sysconfig provides CRUD operations for typed system configuration entries.
package sysconfig

import (
	"errors"

	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

const (
	keyQueryPattern = "config_key = ?"
)

var (
	// ErrConfigNotFound is returned when a config entry is not found.
	ErrConfigNotFound = errors.New("config entry not found")
	// ErrConfigKeyEmpty is returned when attempting to access a config entry with an empty key.
	ErrConfigKeyEmpty = errors.New("config key cannot be empty")
	// ErrConfigAlreadyExists is returned when attempting to create a config entry that already exists.
	ErrConfigAlreadyExists = errors.New("config entry already exists")
	// ErrVersionConflict is returned when a concurrent writer changed the entry first.
	ErrVersionConflict = errors.New("config entry was modified concurrently")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a config entry by its key.
func Get(db *gorm.DB, key string) (*domain.SystemConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrConfigKeyEmpty
	}

	var row models.SystemConfig
	result := db.Where(keyQueryPattern, key).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, result.Error
	}

	return row.ToDomain()
}

// GetAll retrieves all config entries that are not soft deleted.
func GetAll(db *gorm.DB) ([]*domain.SystemConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.SystemConfig
	result := db.Where("deleted = ?", false).Order("config_key").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*domain.SystemConfig, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetByCategory retrieves all non-deleted config entries of one category.
func GetByCategory(db *gorm.DB, category domain.ConfigCategory) ([]*domain.SystemConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.SystemConfig
	result := db.Where("category = ? AND deleted = ?", string(category), false).Order("config_key").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*domain.SystemConfig, 0, len(rows))
	for i := range rows {
		entry, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Create stores a new config entry.
func Create(db *gorm.DB, entry *domain.SystemConfig) error {
	if db == nil {
		return ErrDBNil
	}
	if entry.Key == "" {
		return ErrConfigKeyEmpty
	}

	// Check if the entry already exists
	var existing models.SystemConfig
	result := db.Where(keyQueryPattern, entry.Key).First(&existing)
	if result.Error == nil {
		return ErrConfigAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	row, err := models.SystemConfigFromDomain(entry)
	if err != nil {
		return err
	}

	return db.Create(row).Error
}

// Save persists a modified config entry guarded by an optimistic version
// check. previousVersion is the version the caller read before modifying
// the entry; when a concurrent writer bumped the version in between the
// write is rejected with ErrVersionConflict.
func Save(db *gorm.DB, entry *domain.SystemConfig, previousVersion int) error {
	if db == nil {
		return ErrDBNil
	}
	if entry.Key == "" {
		return ErrConfigKeyEmpty
	}

	row, err := models.SystemConfigFromDomain(entry)
	if err != nil {
		return err
	}

	result := db.Model(&models.SystemConfig{}).
		Where("config_key = ? AND version = ?", entry.Key, previousVersion).
		Select("*").Omit("id", "config_key", "created_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing row from a lost race.
		var existing models.SystemConfig
		if errors.Is(db.Where(keyQueryPattern, entry.Key).First(&existing).Error, gorm.ErrRecordNotFound) {
			return ErrConfigNotFound
		}

		return ErrVersionConflict
	}

	return nil
}

// SetValue loads the entry, applies the typed value through the domain
// layer and persists it with the optimistic version check.
func SetValue(db *gorm.DB, key string, raw any) (*domain.SystemConfig, error) {
	entry, err := Get(db, key)
	if err != nil {
		return nil, err
	}

	previous := entry.Version
	if err := entry.SetValue(raw); err != nil {
		return nil, err
	}

	if err := Save(db, entry, previous); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete soft deletes a config entry by key.
func Delete(db *gorm.DB, key string) error {
	entry, err := Get(db, key)
	if err != nil {
		return err
	}

	previous := entry.Version
	entry.SoftDelete()

	return Save(db, entry, previous)
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// SystemConfig represents a typed configuration entry stored in the database.
// The value and default value columns hold the JSON encoded envelope
// produced by the domain layer; the version column backs optimistic
// concurrency in the config controller.
type SystemConfig struct {
	// ID is the unique identifier for the entry.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Key is the unique configuration key in dotted form, e.g. "app.name".
	Key string `gorm:"column:config_key;unique;size:100;not null"`
	// Value is the JSON encoded value envelope, nil when never set.
	Value []byte `gorm:"type:blob"`
	// Description explains what the entry controls.
	Description string `gorm:"size:255"`
	// Category groups the entry by subsystem.
	Category string `gorm:"size:50;not null"`
	// DataType declares how the value is coerced and validated.
	DataType string `gorm:"size:20;not null"`
	// IsPublic marks the entry as exposable to unauthenticated readers.
	IsPublic bool `gorm:"default:false"`
	// IsEncrypted marks the stored value as encrypted at rest.
	IsEncrypted bool `gorm:"default:false"`
	// Deleted is the soft delete flag.
	Deleted bool `gorm:"default:false"`
	// ValidationRule is an optional extra validation expression.
	ValidationRule string `gorm:"size:255"`
	// DefaultValue is the JSON encoded default envelope, nil if none.
	DefaultValue []byte `gorm:"type:blob"`
	// Version starts at 1 and increments on every value change.
	Version int `gorm:"default:1;not null"`
	// CreatedAt is the timestamp when the entry was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the entry was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the SystemConfig model.
func (SystemConfig) TableName() string {
	return "system_configs"
}

// ToDomain maps the row onto the domain entity, decoding the stored
// value envelopes.
func (c *SystemConfig) ToDomain() (*domain.SystemConfig, error) {
	value, err := decodeEnvelope(c.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s: decode value", c.Key)
	}

	defaultValue, err := decodeEnvelope(c.DefaultValue)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s: decode default value", c.Key)
	}

	return &domain.SystemConfig{
		ID:             c.ID,
		Key:            c.Key,
		Value:          value,
		Description:    c.Description,
		Category:       domain.ConfigCategory(c.Category),
		DataType:       domain.ConfigDataType(c.DataType),
		IsPublic:       c.IsPublic,
		IsEncrypted:    c.IsEncrypted,
		IsDeleted:      c.Deleted,
		ValidationRule: c.ValidationRule,
		DefaultValue:   defaultValue,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

// SystemConfigFromDomain maps a domain entity onto a row, encoding the
// value envelopes.
func SystemConfigFromDomain(c *domain.SystemConfig) (*SystemConfig, error) {
	value, err := encodeEnvelope(c.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s: encode value", c.Key)
	}

	defaultValue, err := encodeEnvelope(c.DefaultValue)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s: encode default value", c.Key)
	}

	return &SystemConfig{
		ID:             c.ID,
		Key:            c.Key,
		Value:          value,
		Description:    c.Description,
		Category:       string(c.Category),
		DataType:       string(c.DataType),
		IsPublic:       c.IsPublic,
		IsEncrypted:    c.IsEncrypted,
		Deleted:        c.IsDeleted,
		ValidationRule: c.ValidationRule,
		DefaultValue:   defaultValue,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

func decodeEnvelope(raw []byte) (*domain.ConfigValue, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v domain.ConfigValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &v, nil
}

func encodeEnvelope(v *domain.ConfigValue) ([]byte, error) {
	if v == nil {
		return nil, nil
	}

	return json.Marshal(v) //nolint:wrapcheck
}

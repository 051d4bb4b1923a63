package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaskedValue replaces sensitive configuration values in any display or
// export path.
const MaskedValue = "***MASKED***"

// ConfigCategory groups configuration entries by subsystem.
type ConfigCategory string

// Configuration categories.
const (
	CategorySystem   ConfigCategory = "system"
	CategorySecurity ConfigCategory = "security"
	CategoryEmail    ConfigCategory = "email"
	CategorySMS      ConfigCategory = "sms"
	CategoryPayment  ConfigCategory = "payment"
	CategoryStorage  ConfigCategory = "storage"
	CategoryLogging  ConfigCategory = "logging"
	CategoryCache    ConfigCategory = "cache"
	CategoryDatabase ConfigCategory = "database"
	CategoryAPI      ConfigCategory = "api"
	CategoryUI       ConfigCategory = "ui"
	CategoryFeature  ConfigCategory = "feature"
)

// ConfigDataType declares how a configuration value is coerced and
// validated.
type ConfigDataType string

// Configuration data types.
const (
	TypeString   ConfigDataType = "string"
	TypeInteger  ConfigDataType = "integer"
	TypeFloat    ConfigDataType = "float"
	TypeBoolean  ConfigDataType = "boolean"
	TypeJSON     ConfigDataType = "json"
	TypeList     ConfigDataType = "list"
	TypePassword ConfigDataType = "password"
)

// ConfigValue is the stored envelope around a configuration value: the raw
// data together with the data type it was validated against.
type ConfigValue struct {
	Data any    `json:"data"`
	Type string `json:"type"`
}

// Clone returns an independent copy of the envelope.
func (v *ConfigValue) Clone() *ConfigValue {
	if v == nil {
		return nil
	}

	return &ConfigValue{Data: v.Data, Type: v.Type}
}

// SystemConfig is a typed, versioned configuration entry. Every value write
// is validated against the declared data type before being wrapped and
// stored, and bumps the version for optimistic concurrency at the
// persistence layer. Sensitive entries render masked unless a caller
// explicitly opts into exposure.
type SystemConfig struct {
	// ID is the unique identifier for the entry.
	ID uuid.UUID
	// Key is the unique configuration key in dotted form, e.g. "app.name".
	Key string
	// Value is the stored envelope, nil when no value was ever set.
	Value *ConfigValue
	// Description explains what the entry controls.
	Description string
	// Category groups the entry by subsystem.
	Category ConfigCategory
	// DataType declares how the value is coerced and validated.
	DataType ConfigDataType
	// IsPublic marks the entry as exposable to unauthenticated readers.
	IsPublic bool
	// IsEncrypted marks the stored value as encrypted at rest. Forced true
	// for password-typed entries.
	IsEncrypted bool
	// IsDeleted is the soft-delete flag.
	IsDeleted bool
	// ValidationRule is an optional extra validation expression.
	ValidationRule string
	// DefaultValue is returned by TypedValue when no value is stored.
	DefaultValue *ConfigValue
	// Version starts at 1 and increments on every value change.
	Version int
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time
}

// SystemConfigSpec carries the attributes accepted when creating an entry.
type SystemConfigSpec struct {
	Key            string
	Description    string
	Category       ConfigCategory
	DataType       ConfigDataType
	IsPublic       bool
	IsEncrypted    bool
	ValidationRule string
	DefaultValue   *ConfigValue
}

// NewSystemConfig validates the spec and returns a new entry at version 1.
// Password-typed entries are always marked encrypted.
func NewSystemConfig(spec SystemConfigSpec) (*SystemConfig, error) {
	if err := validateConfigKey(spec.Key); err != nil {
		return nil, err
	}

	category := spec.Category
	if category == "" {
		category = CategorySystem
	}

	dataType := spec.DataType
	if dataType == "" {
		dataType = TypeString
	}

	encrypted := spec.IsEncrypted
	if dataType == TypePassword {
		encrypted = true
	}

	now := time.Now().UTC()

	return &SystemConfig{
		ID:             uuid.New(),
		Key:            spec.Key,
		Description:    spec.Description,
		Category:       category,
		DataType:       dataType,
		IsPublic:       spec.IsPublic,
		IsEncrypted:    encrypted,
		ValidationRule: spec.ValidationRule,
		DefaultValue:   spec.DefaultValue.Clone(),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func validateConfigKey(key string) error {
	if key == "" {
		return validationError("config key cannot be empty")
	}

	if len(key) > 100 {
		return validationError("config key cannot exceed 100 characters")
	}

	for _, r := range key {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum && r != '.' && r != '_' && r != '-' {
			return validationError("config key may only contain letters, digits, dots, underscores and hyphens")
		}
	}

	return nil
}

// SetValue validates the value against the declared data type, wraps it in
// an envelope and bumps the version. Raw unvalidated input is never stored.
func (c *SystemConfig) SetValue(value any) error {
	if err := c.validateValue(value); err != nil {
		return err
	}

	c.Value = &ConfigValue{Data: value, Type: string(c.DataType)}
	c.UpdatedAt = time.Now().UTC()
	c.Version++

	return nil
}

// TypedValue unwraps the stored envelope and coerces the raw data to the
// declared data type. When no value is stored it falls back to
// TypedDefault. Coercion failures return a validation error.
func (c *SystemConfig) TypedValue() (any, error) {
	if c.Value == nil {
		return c.TypedDefault(), nil
	}

	return coerce(c.DataType, c.Value.Data)
}

// TypedDefault returns the default value coerced to the declared type, or
// the type's zero value when no default is declared.
func (c *SystemConfig) TypedDefault() any {
	if c.DefaultValue == nil {
		switch c.DataType {
		case TypeInteger:
			return 0
		case TypeFloat:
			return 0.0
		case TypeBoolean:
			return false
		case TypeJSON:
			return map[string]any{}
		case TypeList:
			return []any{}
		default:
			return ""
		}
	}

	return c.DefaultValue.Data
}

// validateValue checks that value can be stored under the declared data
// type. JSON and list values given as text must parse.
func (c *SystemConfig) validateValue(value any) error {
	if value == nil {
		return nil
	}

	switch c.DataType {
	case TypeString, TypePassword:
		// Anything can be stringified.
	case TypeInteger:
		if _, err := toInt(value); err != nil {
			return validationError("config value validation failed: %v", err)
		}
	case TypeFloat:
		if _, err := toFloat(value); err != nil {
			return validationError("config value validation failed: %v", err)
		}
	case TypeBoolean:
		switch value.(type) {
		case bool, string, int, int64, float64:
		default:
			return validationError("config value validation failed: invalid boolean value")
		}
	case TypeJSON:
		switch v := value.(type) {
		case map[string]any, []any:
		case string:
			var parsed any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return validationError("config value validation failed: %v", err)
			}
		default:
			return validationError("config value validation failed: invalid json value")
		}
	case TypeList:
		switch v := value.(type) {
		case []any, []string:
		case string:
			var parsed []any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return validationError("config value validation failed: %v", err)
			}
		default:
			return validationError("config value validation failed: invalid list value")
		}
	}

	return nil
}

// coerce converts raw envelope data to the declared data type.
func coerce(dataType ConfigDataType, raw any) (any, error) {
	switch dataType {
	case TypeString, TypePassword:
		if raw == nil {
			return "", nil
		}

		if s, ok := raw.(string); ok {
			return s, nil
		}

		return fmt.Sprint(raw), nil

	case TypeInteger:
		if raw == nil {
			return 0, nil
		}

		n, err := toInt(raw)
		if err != nil {
			return nil, validationError("config value coercion failed: %v", err)
		}

		return n, nil

	case TypeFloat:
		if raw == nil {
			return 0.0, nil
		}

		f, err := toFloat(raw)
		if err != nil {
			return nil, validationError("config value coercion failed: %v", err)
		}

		return f, nil

	case TypeBoolean:
		return toBool(raw), nil

	case TypeJSON:
		switch v := raw.(type) {
		case nil:
			return map[string]any{}, nil
		case string:
			var parsed any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, validationError("config value coercion failed: %v", err)
			}

			return parsed, nil
		default:
			return raw, nil
		}

	case TypeList:
		switch v := raw.(type) {
		case nil:
			return []any{}, nil
		case []any:
			return v, nil
		case []string:
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}

			return out, nil
		case string:
			var parsed []any
			if err := json.Unmarshal([]byte(v), &parsed); err != nil {
				return nil, validationError("config value coercion failed: %v", err)
			}

			return parsed, nil
		default:
			return []any{raw}, nil
		}

	default:
		return raw, nil
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	case bool:
		if n {
			return 1, nil
		}

		return 0, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to integer", n)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float", n)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// toBool follows the truthy-string convention: "true", "1", "yes" and "on"
// are true, any other string is false. Numbers are true when non-zero.
func toBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true", "1", "yes", "on":
			return true
		default:
			return false
		}
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	default:
		return true
	}
}

// IsSensitive reports whether the entry's value must be masked on display.
// Encrypted and password-typed entries are sensitive, as is any key whose
// name mentions passwords, secrets, keys or tokens.
func (c *SystemConfig) IsSensitive() bool {
	if c.IsEncrypted || c.DataType == TypePassword {
		return true
	}

	key := strings.ToLower(c.Key)
	for _, marker := range []string{"password", "secret", "key", "token"} {
		if strings.Contains(key, marker) {
			return true
		}
	}

	return false
}

// DisplayValue renders the value for humans, masking sensitive entries.
func (c *SystemConfig) DisplayValue() string {
	if c.IsSensitive() {
		return MaskedValue
	}

	typed, err := c.TypedValue()
	if err != nil {
		return ""
	}

	switch v := typed.(type) {
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

// IncrementVersion bumps the version without changing the value.
func (c *SystemConfig) IncrementVersion() {
	c.Version++
	c.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the entry deleted.
func (c *SystemConfig) SoftDelete() {
	c.IsDeleted = true
	c.UpdatedAt = time.Now().UTC()
}

// Restore clears the soft-delete flag.
func (c *SystemConfig) Restore() {
	c.IsDeleted = false
	c.UpdatedAt = time.Now().UTC()
}

// Clone returns a fresh independent entry under newKey: value and default
// envelopes are deep-copied, the version resets to 1, the deletion flag is
// cleared and a new identity is generated.
func (c *SystemConfig) Clone(newKey string) (*SystemConfig, error) {
	if err := validateConfigKey(newKey); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &SystemConfig{
		ID:             uuid.New(),
		Key:            newKey,
		Value:          c.Value.Clone(),
		Description:    c.Description,
		Category:       c.Category,
		DataType:       c.DataType,
		IsPublic:       c.IsPublic,
		IsEncrypted:    c.IsEncrypted,
		ValidationRule: c.ValidationRule,
		DefaultValue:   c.DefaultValue.Clone(),
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ToMap exports the entry for display or serialization. The value renders
// masked for sensitive entries unless includeSensitive is set.
func (c *SystemConfig) ToMap(includeSensitive bool) map[string]any {
	out := map[string]any{
		"id":           c.ID.String(),
		"key":          c.Key,
		"description":  c.Description,
		"category":     string(c.Category),
		"data_type":    string(c.DataType),
		"is_public":    c.IsPublic,
		"is_encrypted": c.IsEncrypted,
		"is_deleted":   c.IsDeleted,
		"version":      c.Version,
		"created_at":   c.CreatedAt.Format(time.RFC3339),
		"updated_at":   c.UpdatedAt.Format(time.RFC3339),
	}

	if includeSensitive || !c.IsSensitive() {
		typed, err := c.TypedValue()
		if err == nil {
			out["value"] = typed
		}
	} else {
		out["value"] = MaskedValue
	}

	return out
}

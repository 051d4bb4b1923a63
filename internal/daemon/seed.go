package daemon

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	permissionctl "github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/permission"
	rolectl "github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	sysconfigctl "github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/sysconfig"
	userctl "github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/randkey"
)

const (
	adminRoleCode  = "ADMIN"
	adminRoleLevel = 999
	adminUsername  = "admin"

	bootstrapPasswordLen = 20
)

// seedPermissions are the system permissions matching the API surface.
var seedPermissions = []domain.PermissionSpec{
	{Name: "Read users", Code: "users.read", Resource: "users", Action: "read", Method: "GET", Path: "/api/admin/users/*", IsSystem: true},
	{Name: "Manage users", Code: "users.write", Resource: "users", Action: "write", Path: "/api/admin/users/*", IsSystem: true},
	{Name: "Read roles", Code: "roles.read", Resource: "roles", Action: "read", Method: "GET", Path: "/api/admin/roles/*", IsSystem: true},
	{Name: "Manage roles", Code: "roles.write", Resource: "roles", Action: "write", Path: "/api/admin/roles/*", IsSystem: true},
	{Name: "Read permissions", Code: "permissions.read", Resource: "permissions", Action: "read", Method: "GET", Path: "/api/admin/permissions/*", IsSystem: true},
	{Name: "Manage permissions", Code: "permissions.write", Resource: "permissions", Action: "write", Path: "/api/admin/permissions/*", IsSystem: true},
	{Name: "Read configs", Code: "configs.read", Resource: "configs", Action: "read", Method: "GET", Path: "/api/admin/configs/*", IsSystem: true},
	{Name: "Manage configs", Code: "configs.write", Resource: "configs", Action: "write", Path: "/api/admin/configs/*", IsSystem: true},
	{Name: "Read audit trail", Code: "audit.read", Resource: "audit", Action: "read", Method: "GET", Path: "/api/admin/audit", IsSystem: true},
}

// seedConfigs are the baseline system configuration entries.
var seedConfigs = []domain.SystemConfigSpec{
	{Key: "app.name", Description: "Application display name", Category: domain.CategorySystem, DataType: domain.TypeString,
		IsPublic: true, DefaultValue: &domain.ConfigValue{Data: "go-rbac-admin", Type: string(domain.TypeString)}},
	{Key: "auth.session_timeout", Description: "Session timeout in seconds", Category: domain.CategorySecurity, DataType: domain.TypeInteger,
		DefaultValue: &domain.ConfigValue{Data: 3600, Type: string(domain.TypeInteger)}},
	{Key: "auth.max_login_attempts", Description: "Login attempts before lockout", Category: domain.CategorySecurity, DataType: domain.TypeInteger,
		DefaultValue: &domain.ConfigValue{Data: 5, Type: string(domain.TypeInteger)}},
	{Key: "feature.self_registration", Description: "Allow users to register themselves", Category: domain.CategoryFeature, DataType: domain.TypeBoolean,
		DefaultValue: &domain.ConfigValue{Data: false, Type: string(domain.TypeBoolean)}},
}

// seed creates the system permissions, the admin role and the initial
// superuser on an empty database. Seeding is idempotent: existing rows are
// left alone.
func seed(_ *config.Config, db *gorm.DB) {
	role := seedAdminRole(db)
	seedAdminUser(db, role)
	seedSystemConfigs(db)
}

func seedAdminRole(db *gorm.DB) *domain.Role {
	for _, spec := range seedPermissions {
		if _, err := permissionctl.GetByCode(db, spec.Code); err == nil {
			continue
		}

		p, err := domain.NewPermission(spec)
		if err != nil {
			log.Fatal().Err(err).Str("permission", spec.Code).Msg("failed to build seed permission")
		}

		if err := permissionctl.Create(db, p); err != nil {
			log.Fatal().Err(err).Str("permission", spec.Code).Msg("failed to seed permission")
		}
	}

	if r, err := rolectl.GetByCode(db, adminRoleCode); err == nil {
		return r
	}

	r, err := domain.NewRole(domain.RoleSpec{
		Name:        "Administrator",
		Code:        adminRoleCode,
		Description: "Full administrative access",
		Level:       adminRoleLevel,
		IsSystem:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build admin role")
	}

	if err := rolectl.Create(db, r); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin role")
	}

	perms, err := permissionctl.GetAll(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load seeded permissions")
	}

	for _, p := range perms {
		if !p.IsSystem {
			continue
		}

		grant, err := domain.NewRolePermission(r.ID, p.ID, uuid.Nil)
		if err != nil {
			log.Fatal().Err(err).Str("permission", p.Code).Msg("failed to build seed grant")
		}

		if err := rolectl.Grant(db, grant); err != nil {
			log.Fatal().Err(err).Str("permission", p.Code).Msg("failed to seed grant")
		}
	}

	return r
}

func seedAdminUser(db *gorm.DB, r *domain.Role) {
	if _, err := userctl.GetByUsername(db, adminUsername); err == nil {
		return
	}

	// Generate a one-time bootstrap password and print it once. There is no
	// other way to recover it; the operator is expected to change it.
	password := randkey.New(bootstrapPasswordLen)

	u, err := domain.NewUser(domain.UserSpec{
		Username:     adminUsername,
		Email:        "admin@localhost.local",
		PasswordHash: models.HashPassword(password),
		FullName:     "Administrator",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build admin user")
	}

	u.IsSuperuser = true

	if err := userctl.Create(db, u); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	assignment, err := domain.NewUserRole(u.ID, r.ID, uuid.Nil, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build admin role assignment")
	}

	if err := userctl.Assign(db, assignment); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin role assignment")
	}

	log.Warn().Str("username", adminUsername).Str("password", password).
		Msg("created initial admin user, change the password after first login")
}

func seedSystemConfigs(db *gorm.DB) {
	for _, spec := range seedConfigs {
		if _, err := sysconfigctl.Get(db, spec.Key); err == nil {
			continue
		}

		entry, err := domain.NewSystemConfig(spec)
		if err != nil {
			log.Fatal().Err(err).Str("key", spec.Key).Msg("failed to build seed config")
		}

		if err := sysconfigctl.Create(db, entry); err != nil {
			log.Fatal().Err(err).Str("key", spec.Key).Msg("failed to seed config")
		}
	}
}

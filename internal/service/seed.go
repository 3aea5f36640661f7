package service

import (
	"context"
	"errors"
	"fmt"

	"go-wholesale-inventory/internal/config"
	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed creates the default privileges, roles and the initial master admin.
// Each step is skipped when its rows already exist.
func Seed(ctx context.Context, db *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Privileges first
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	all, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}

	// 2. Roles with their default grants
	if err := roleRepo.SeedDefaults(ctx, all); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// 3. Master admin
	_, err = userRepo.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	master, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return fmt.Errorf("load master role: %w", err)
	}
	admin := &model.User{
		Email:      cfg.AdminEmail,
		FullName:   "Master Administrator",
		RoleID:     &master.ID,
		IsActive:   true,
		Privileges: master.Privileges,
	}
	admin.Stamp("system")
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("default admin created", zap.String("email", admin.Email))
	return nil
}

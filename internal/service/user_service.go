package service

import (
	"context"
	"errors"
	"strings"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrRoleNotFound = errors.New("role not found")
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)
}

type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number" validate:"max=20"`
	RoleID      uint       `json:"role_id" validate:"required"`
	StoreID     *uuid.UUID `json:"store_id"`
}

type UpdateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    *string    `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number" validate:"max=20"`
	RoleID      uint       `json:"role_id" validate:"required"`
	StoreID     *uuid.UUID `json:"store_id"`
	IsActive    *bool      `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	storeRepo     repository.StoreRepository
	log           *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	storeRepo repository.StoreRepository,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		storeRepo:     storeRepo,
		log:           log.Named("user"),
	}
}

func (s *userService) role(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	return role, err
}

func (s *userService) checkStore(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.storeRepo.FindByID(ctx, *id)
	return lookupErr(err, "store", *id)
}

func (s *userService) reload(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.UserResponse, error) {
	// 1. Validate request
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Check if email already exists
	if existing, _ := s.userRepo.FindByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	// 3. Validate role and home store
	role, err := s.role(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(ctx, req.StoreID); err != nil {
		return nil, err
	}

	// 4. Create user with the role's privileges
	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		RoleID:      &req.RoleID,
		StoreID:     req.StoreID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.Stamp(creatorID)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translate(err, ErrEmailExists)
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", role.Code))
	return s.reload(ctx, user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.UserResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(ctx, req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}
	role, err := s.role(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(ctx, req.StoreID); err != nil {
		return nil, err
	}

	roleChanged := user.RoleID == nil || *user.RoleID != req.RoleID
	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &req.RoleID
	user.StoreID = req.StoreID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, translate(err, ErrEmailExists)
	}

	// A new role resets privileges to the role defaults.
	if roleChanged {
		if err := s.userRepo.UpdatePrivileges(ctx, userID, role.Privileges); err != nil {
			return nil, err
		}
	}
	return s.reload(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}
	if len(privileges) != len(privilegeCodes) {
		return nil, invalid("privileges", "contains an unknown code")
	}
	if err := s.userRepo.UpdatePrivileges(ctx, userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user privileges updated", zap.String("user_id", userID.String()), zap.Strings("privileges", privilegeCodes))
	return s.reload(ctx, userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	return s.reload(ctx, id)
}

func (s *userService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.FindAll(ctx)
}

func (s *userService) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll(ctx)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-wholesale-inventory/internal/model"
	"go-wholesale-inventory/internal/repository"
	"go-wholesale-inventory/internal/ws"
	"go-wholesale-inventory/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
	Logout(ctx context.Context, userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	idleTimeout time.Duration
	events      ws.Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, idleTimeout time.Duration, events ws.Publisher, log *zap.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		idleTimeout: idleTimeout,
		events:      events,
		log:         log.Named("auth"),
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new token version invalidates older tokens.
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, errors.New("failed to update session")
	}
	now := s.now()
	if err := s.userRepo.UpdateLastSeen(ctx, user.ID, now); err != nil {
		return nil, errors.New("failed to update session")
	}
	user.TokenVersion = version
	user.LastSeenAt = &now

	token, err := s.tokens.Generate(user.ID, user.Email, user.FullName, user.RoleCode(), user.PrivilegeCodes(), version)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return invalid("new_password", "must be at least 6 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	if user.IdleFor(s.idleTimeout, s.now()) {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	now := s.now()
	if err := s.userRepo.UpdateLastSeen(ctx, userID, now); err != nil {
		return err
	}
	s.events.Publish(ws.Event{
		Type: ws.EventUserStatus,
		Data: map[string]any{
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": now,
		},
	})
	return nil
}

// Logout rotates the token version so the current token stops working.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateTokenVersion(ctx, userID, uuid.New().String()); err != nil {
		return err
	}
	s.events.Publish(ws.Event{
		Type: ws.EventUserStatus,
		Data: map[string]any{"user_id": userID.String(), "status": "offline"},
	})
	return nil
}

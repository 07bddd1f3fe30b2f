package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
	BranchID *uuid.UUID  `json:"branchId,omitempty"`
}

type UserService interface {
	Create(ctx context.Context, actor *Actor, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	audit    AuditLogsService
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, audit AuditLogsService, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, audit: audit, logger: logger}
}

// Create registers an account. actor is nil when bootstrapping the first
// admin from the command line.
func (s *userService) Create(ctx context.Context, actor *Actor, req *CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is invalid", common.ErrValidation)
	}
	if err := common.ValidateRequiredString(req.FullName, "fullName"); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, req.Role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		BranchID:     req.BranchID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	var changedBy *uuid.UUID
	if actor != nil {
		changedBy = &actor.ID
	}
	values, err := CreateEntityValues(user)
	if err == nil {
		err = s.audit.LogActivity(ctx, "users", user.ID.String(), models.ActionInsert, changedBy, nil, values)
	}
	if err != nil {
		s.logger.Warn("failed to audit user creation", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error) {
	if role != nil && !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, *role)
	}
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, role, limit, offset)
}

package users

import (
	"context"
	"strings"

	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/security"
	"github.com/google/uuid"
)

// Service defines user management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// CreateInput captures a new user. Password is optional: it only feeds
// the low-security admin gate.
type CreateInput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" validate:"required"`
	Role       string  `json:"role" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Department *string `json:"department"`
	Password   string  `json:"password"`
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService wires the user service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name required")
	}
	role, err := enums.ParseUserRole(input.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user role")
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user email required")
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	user := &models.User{
		ID:         id,
		Name:       name,
		Role:       role,
		Email:      email,
		Department: input.Department,
	}

	if input.Password != "" {
		hash, err := security.HashPassword(input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = &hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	userList, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return userList, nil
}

package admingate

import (
	"context"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/auth"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/security"
)

// Service is the low-security admin gate: a password check that issues a
// short-lived token. It deliberately carries no account lockout or MFA;
// the gate protects admin UI affordances, not the data model.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type service struct {
	userRepo users.Repository
	jwtCfg   config.JWTConfig
}

// NewService wires the admin gate.
func NewService(userRepo users.Repository, jwtCfg config.JWTConfig) (Service, error) {
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	return &service{userRepo: userRepo, jwtCfg: jwtCfg}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || user.PasswordHash == nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, *user.PasswordHash)
	if err != nil || !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAdminToken(s.jwtCfg, time.Now().UTC(), user.ID, user.Role)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}
	return token, nil
}

package admingate

import (
	"context"
	"testing"

	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/auth"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/security"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "assetdesk-test",
	ExpirationMinutes: 15,
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("correct horse", config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := &stubUserRepo{user: &models.User{
		ID:           "u1",
		Name:         "Admin One",
		Role:         enums.UserRoleAdmin,
		Email:        "admin@example.com",
		PasswordHash: &hash,
	}}
	svc := newTestService(t, repo)

	token, err := svc.Login(context.Background(), "Admin@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := auth.ParseAdminToken(testJWTConfig, token)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("right", config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := &stubUserRepo{user: &models.User{ID: "u1", Role: enums.UserRoleAdmin, Email: "admin@example.com", PasswordHash: &hash}}
	svc := newTestService(t, repo)

	_, err = svc.Login(context.Background(), "admin@example.com", "wrong")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserRepo{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUserWithoutPassword(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{user: &models.User{ID: "u1", Role: enums.UserRoleViewer, Email: "viewer@example.com"}}
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), "viewer@example.com", "anything")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserRepo{})

	if _, err := svc.Login(context.Background(), "", "password"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.c", ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestService(t *testing.T, repo users.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, testJWTConfig)
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}
	return svc
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	if s.user == nil {
		return nil, nil
	}
	return []models.User{*s.user}, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

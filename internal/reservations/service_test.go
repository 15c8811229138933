package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

func TestServiceCreateReservation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubReservationRepo{}, true, true)
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	reservation, err := svc.Create(context.Background(), CreateInput{
		AssetID:   "a1",
		UserID:    "u1",
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.ID == "" {
		t.Fatal("expected generated id")
	}
	if reservation.Status != enums.ReservationStatusPending {
		t.Fatalf("expected pending status, got %s", reservation.Status)
	}
}

func TestServiceCreateRejectsInvertedDates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubReservationRepo{}, true, true)
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), CreateInput{
		AssetID:   "a1",
		UserID:    "u1",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateRequiresExistingReferences(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	input := CreateInput{AssetID: "a1", UserID: "u1", StartDate: start, EndDate: start.Add(time.Hour)}

	missingAsset := newTestService(t, &stubReservationRepo{}, false, true)
	if _, err := missingAsset.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing asset, got %v", err)
	}

	missingUser := newTestService(t, &stubReservationRepo{}, true, false)
	if _, err := missingUser.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	repo := &stubReservationRepo{existing: &models.Reservation{
		ID:     "r1",
		Status: enums.ReservationStatusPending,
	}}
	svc := newTestService(t, repo, true, true)

	reservation, err := svc.UpdateStatus(context.Background(), "r1", "confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != enums.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", reservation.Status)
	}
}

func TestServiceUpdateStatusInvalidValue(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubReservationRepo{}, true, true)

	_, err := svc.UpdateStatus(context.Background(), "r1", "done")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceUpdateStatusMissingReservation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubReservationRepo{}, true, true)

	_, err := svc.UpdateStatus(context.Background(), "nope", "confirmed")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newTestService(t *testing.T, repo Repository, assetExists, userExists bool) Service {
	t.Helper()
	svc, err := NewService(repo, stubAssetRepo{exists: assetExists}, stubUserRepo{exists: userExists})
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}
	return svc
}

type stubReservationRepo struct {
	existing *models.Reservation
	created  []models.Reservation
}

func (s *stubReservationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReservationRepo) Create(ctx context.Context, reservation *models.Reservation) error {
	s.created = append(s.created, *reservation)
	return nil
}

func (s *stubReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	if s.existing != nil && s.existing.ID == id {
		r := *s.existing
		return &r, nil
	}
	return nil, nil
}

func (s *stubReservationRepo) List(ctx context.Context) ([]models.Reservation, error) {
	return s.created, nil
}

func (s *stubReservationRepo) Update(ctx context.Context, reservation *models.Reservation) error {
	return nil
}

type stubAssetRepo struct {
	exists bool
}

func (s stubAssetRepo) WithTx(tx *gorm.DB) assets.Repository { return s }

func (s stubAssetRepo) Create(ctx context.Context, asset *models.Asset) error { return nil }

func (s stubAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	if !s.exists {
		return nil, nil
	}
	return &models.Asset{ID: id, Name: "Asset", Category: "misc", Status: enums.AssetStatusAvailable}, nil
}

func (s stubAssetRepo) List(ctx context.Context, filter assets.ListFilter) ([]models.Asset, error) {
	return nil, nil
}

func (s stubAssetRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Asset, error) {
	return nil, nil
}

func (s stubAssetRepo) Update(ctx context.Context, asset *models.Asset) error { return nil }

type stubUserRepo struct {
	exists bool
}

func (s stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !s.exists {
		return nil, nil
	}
	return &models.User{ID: id, Name: "User", Role: enums.UserRoleStaff, Email: "user@example.com"}, nil
}

func (s stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (s stubUserRepo) List(ctx context.Context) ([]models.User, error) { return nil, nil }

func (s stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

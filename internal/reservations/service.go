package reservations

import (
	"context"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service manages advisory reservations. Reservations deliberately do
// not constrain the lifecycle engine: a confirmed reservation can
// coexist with the same asset being borrowed through an unrelated
// transaction.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Reservation, error)
	List(ctx context.Context) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Reservation, error)
}

// CreateInput captures a new reservation request.
type CreateInput struct {
	AssetID   string    `json:"assetId" validate:"required"`
	UserID    string    `json:"userId" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type service struct {
	repo      Repository
	assetRepo assets.Repository
	userRepo  users.Repository
}

// NewService wires the reservation service.
func NewService(repo Repository, assetRepo assets.Repository, userRepo users.Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reservation repository required")
	}
	if assetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	return &service{repo: repo, assetRepo: assetRepo, userRepo: userRepo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Reservation, error) {
	if strings.TrimSpace(input.AssetID) == "" || strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id and user id required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date")
	}

	asset, err := s.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	if asset == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	reservation := &models.Reservation{
		ID:        uuid.NewString(),
		AssetID:   input.AssetID,
		UserID:    input.UserID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    enums.ReservationStatusPending,
	}
	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *service) List(ctx context.Context) ([]models.Reservation, error) {
	reservationList, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return reservationList, nil
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*models.Reservation, error) {
	parsed, err := enums.ParseReservationStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reservation status")
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if reservation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	reservation.Status = parsed
	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

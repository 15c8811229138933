package reservations

import (
	"context"
	"errors"

	"github.com/assetdesk/assetdesk-backend/pkg/db"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for reservations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	List(ctx context.Context) ([]models.Reservation, error)
	Update(ctx context.Context, reservation *models.Reservation) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reservation repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) error {
	err := r.db.WithContext(ctx).Create(reservation).Error
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "reservation id already exists")
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) List(ctx context.Context) ([]models.Reservation, error) {
	var reservationList []models.Reservation
	if err := r.db.WithContext(ctx).Order("start_date ASC, id ASC").Find(&reservationList).Error; err != nil {
		return nil, err
	}
	return reservationList, nil
}

func (r *repository) Update(ctx context.Context, reservation *models.Reservation) error {
	result := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Select("*").Omit("id", "created_at").
		Updates(reservation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}
	return nil
}

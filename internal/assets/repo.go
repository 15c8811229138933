package assets

import (
	"context"
	"errors"
	"strings"

	"github.com/assetdesk/assetdesk-backend/pkg/db"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for assets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter ListFilter) ([]models.Asset, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
}

// ListFilter narrows the asset listing; zero value lists everything.
type ListFilter struct {
	Status   string
	Category string
	Search   string
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an asset repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, asset *models.Asset) error {
	err := r.db.WithContext(ctx).Create(asset).Error
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "asset id already exists")
	}
	return err
}

// GetByID returns (nil, nil) when the id is absent: a missing asset is a
// non-fatal signal, never a crash.
func (r *repository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Asset, error) {
	query := r.db.WithContext(ctx).Model(&models.Asset{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR serial_number LIKE ?", pattern, pattern)
	}

	var assets []models.Asset
	if err := query.Order("created_at ASC, id ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []string) ([]models.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var assets []models.Asset
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *repository) Update(ctx context.Context, asset *models.Asset) error {
	result := r.db.WithContext(ctx).Model(&models.Asset{}).
		Where("id = ?", asset.ID).
		Select("*").Omit("id", "created_at").
		Updates(asset)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return nil
}

package ledger

import (
	"context"

	"github.com/assetdesk/assetdesk-backend/pkg/db"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository manages persistence for the append-only transaction ledger.
// There is no update or delete surface: entries are immutable facts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transaction *models.Transaction) error
	List(ctx context.Context) ([]models.Transaction, error)
	ListByAssetID(ctx context.Context, assetID string) ([]models.Transaction, error)
	ListRecent(ctx context.Context, limit int) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create appends one entry. Seq is allocated inside the insert
// transaction so entries with identical timestamps keep insertion order.
func (r *repository) Create(ctx context.Context, transaction *models.Transaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if transaction.Seq == 0 {
			var maxSeq int64
			if err := tx.Model(&models.Transaction{}).
				Select("COALESCE(MAX(seq), 0)").
				Scan(&maxSeq).Error; err != nil {
				return err
			}
			transaction.Seq = maxSeq + 1
		}
		return tx.Create(transaction).Error
	})
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction already recorded")
	}
	return err
}

// List returns the full ledger in canonical display order: timestamp
// descending, insertion order breaking ties.
func (r *repository) List(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC, seq DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *repository) ListByAssetID(ctx context.Context, assetID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("timestamp DESC, seq DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	var transactions []models.Transaction
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC, seq DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

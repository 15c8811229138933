package assets

import (
	"context"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/google/uuid"
)

// ChangeListener is notified after every successful asset mutation so
// derived state (alerts) can be recomputed from the full store.
type ChangeListener interface {
	Recompute(ctx context.Context)
}

// Service defines asset store operations, including the bulk mutator.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter ListFilter) ([]models.Asset, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Asset, error)
	BulkUpdate(ctx context.Context, input BulkUpdateInput) ([]models.Asset, error)
}

type service struct {
	repo     Repository
	listener ChangeListener
}

// CreateInput captures a new asset. ID is optional; a fresh uuid is
// assigned when absent.
type CreateInput struct {
	ID             string            `json:"id"`
	Name           string            `json:"name" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Model          string            `json:"model"`
	SerialNumber   string            `json:"serialNumber"`
	PurchaseDate   *time.Time        `json:"purchaseDate"`
	ImageRef       string            `json:"imageRef"`
	Description    *string           `json:"description"`
	CustomFeatures map[string]string `json:"customFeatures"`
}

// UpdateInput is the direct-edit patch. Absent fields leave the stored
// value unchanged. A status edit through here emits no transaction; it is
// the only path to the lost state.
type UpdateInput struct {
	Name           *string            `json:"name"`
	Category       *string            `json:"category"`
	Model          *string            `json:"model"`
	SerialNumber   *string            `json:"serialNumber"`
	PurchaseDate   *time.Time         `json:"purchaseDate"`
	Status         *enums.AssetStatus `json:"status"`
	CurrentHolder  *string            `json:"currentHolder"`
	ImageRef       *string            `json:"imageRef"`
	Description    *string            `json:"description"`
	CustomFeatures map[string]string  `json:"customFeatures"`
}

// BulkUpdateInput applies one patch across many assets, atomically per
// asset. Missing ids are skipped silently.
type BulkUpdateInput struct {
	IDs      []string           `json:"ids" validate:"required,min=1"`
	Status   *enums.AssetStatus `json:"status"`
	Category *string            `json:"category"`
}

// NewService wires the asset service.
func NewService(repo Repository, listener ChangeListener) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	return &service{repo: repo, listener: listener}, nil
}

func (s *service) notifyChange(ctx context.Context) {
	if s.listener != nil {
		s.listener.Recompute(ctx)
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset name required")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset category required")
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	purchased := time.Now().UTC()
	if input.PurchaseDate != nil {
		purchased = *input.PurchaseDate
	}

	asset := &models.Asset{
		ID:             id,
		Name:           name,
		Category:       category,
		Model:          input.Model,
		SerialNumber:   input.SerialNumber,
		PurchaseDate:   purchased,
		Status:         enums.AssetStatusAvailable,
		ImageRef:       input.ImageRef,
		QRPayload:      id,
		Description:    input.Description,
		CustomFeatures: input.CustomFeatures,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, err
	}
	s.notifyChange(ctx)
	return asset, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	if asset == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return asset, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Asset, error) {
	if filter.Status != "" {
		if _, err := enums.ParseAssetStatus(filter.Status); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
	}
	assets, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return assets, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset name cannot be empty")
		}
		asset.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		asset.Category = *input.Category
	}
	if input.Model != nil {
		asset.Model = *input.Model
	}
	if input.SerialNumber != nil {
		asset.SerialNumber = *input.SerialNumber
	}
	if input.PurchaseDate != nil {
		asset.PurchaseDate = *input.PurchaseDate
	}
	if input.ImageRef != nil {
		asset.ImageRef = *input.ImageRef
	}
	if input.Description != nil {
		asset.Description = input.Description
	}
	if input.CustomFeatures != nil {
		asset.CustomFeatures = input.CustomFeatures
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset status")
		}
		asset.Status = *input.Status
	}
	if input.CurrentHolder != nil {
		holder := strings.TrimSpace(*input.CurrentHolder)
		if holder == "" {
			asset.CurrentHolder = nil
		} else {
			asset.CurrentHolder = &holder
		}
	}

	// Holder present iff borrowed.
	if asset.Status == enums.AssetStatusBorrowed {
		if asset.HolderName() == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrowed asset requires a current holder")
		}
	} else {
		asset.CurrentHolder = nil
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}
	s.notifyChange(ctx)
	return asset, nil
}

func (s *service) BulkUpdate(ctx context.Context, input BulkUpdateInput) ([]models.Asset, error) {
	if len(input.IDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one asset id required")
	}
	if input.Status == nil && input.Category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk patch must set status or category")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid asset status")
	}
	if input.Status != nil && *input.Status == enums.AssetStatusBorrowed {
		// A bulk patch carries no holder, so it cannot produce a valid
		// borrowed asset.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrowed status requires a borrow transition")
	}

	targets, err := s.repo.ListByIDs(ctx, input.IDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bulk targets")
	}

	changed := make([]models.Asset, 0, len(targets))
	for i := range targets {
		asset := targets[i]
		dirty := false
		if input.Status != nil && asset.Status != *input.Status {
			asset.Status = *input.Status
			if asset.Status != enums.AssetStatusBorrowed {
				asset.CurrentHolder = nil
			}
			dirty = true
		}
		if input.Category != nil && *input.Category != "" && asset.Category != *input.Category {
			asset.Category = *input.Category
			dirty = true
		}
		if !dirty {
			continue
		}
		if err := s.repo.Update(ctx, &asset); err != nil {
			// Per-asset atomicity: one failed write does not abort the batch.
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk update asset")
		}
		changed = append(changed, asset)
	}

	if len(changed) > 0 {
		s.notifyChange(ctx)
	}
	return changed, nil
}

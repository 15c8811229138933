package lifecycle

import (
	"context"
	"strings"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// Service is the state machine governing borrow/return/maintenance-log
// transitions. Every transition appends exactly one ledger entry; the
// lost state is reachable only through a direct asset edit and never
// through this engine.
type Service interface {
	Borrow(ctx context.Context, input TransitionInput) (*Result, error)
	Return(ctx context.Context, input TransitionInput) (*Result, error)
	LogMaintenance(ctx context.Context, input TransitionInput) (*Result, error)
}

// TransitionInput carries one lifecycle call. Signature is an opaque
// image payload produced by signature capture; it is stored verbatim.
type TransitionInput struct {
	AssetID   string  `json:"assetId" validate:"required"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName" validate:"required"`
	Signature string  `json:"signature"`
	Notes     *string `json:"notes"`
}

// Result pairs the mutated asset with the appended ledger entry.
type Result struct {
	Asset       *models.Asset       `json:"asset"`
	Transaction *models.Transaction `json:"transaction"`
}

type service struct {
	assetRepo assets.Repository
	ledger    ledger.Service
	logg      *logger.Logger
}

// NewService wires the lifecycle engine.
func NewService(assetRepo assets.Repository, ledgerSvc ledger.Service, logg *logger.Logger) (Service, error) {
	if assetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	if ledgerSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger service required")
	}
	return &service{assetRepo: assetRepo, ledger: ledgerSvc, logg: logg}, nil
}

func (s *service) Borrow(ctx context.Context, input TransitionInput) (*Result, error) {
	asset, err := s.loadAsset(ctx, input)
	if err != nil {
		return nil, err
	}
	if asset.Status != enums.AssetStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "asset is not available to borrow").
			WithDetails(map[string]any{"status": asset.Status})
	}

	holder := strings.TrimSpace(input.UserName)
	asset.Status = enums.AssetStatusBorrowed
	asset.CurrentHolder = &holder
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	transaction, err := s.ledger.Record(ctx, ledger.RecordInput{
		AssetID:   asset.ID,
		AssetName: asset.Name,
		UserID:    input.UserID,
		UserName:  holder,
		Type:      enums.TransactionTypeBorrow,
		Signature: input.Signature,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAssetID(ctx, asset.ID), "asset borrowed")
	}
	return &Result{Asset: asset, Transaction: transaction}, nil
}

func (s *service) Return(ctx context.Context, input TransitionInput) (*Result, error) {
	asset, err := s.loadAsset(ctx, input)
	if err != nil {
		return nil, err
	}
	if asset.Status != enums.AssetStatusBorrowed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "asset is not currently borrowed").
			WithDetails(map[string]any{"status": asset.Status})
	}

	asset.Status = enums.AssetStatusAvailable
	asset.CurrentHolder = nil
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	transaction, err := s.ledger.Record(ctx, ledger.RecordInput{
		AssetID:   asset.ID,
		AssetName: asset.Name,
		UserID:    input.UserID,
		UserName:  strings.TrimSpace(input.UserName),
		Type:      enums.TransactionTypeReturn,
		Signature: input.Signature,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAssetID(ctx, asset.ID), "asset returned")
	}
	return &Result{Asset: asset, Transaction: transaction}, nil
}

// LogMaintenance appends a maintenance_log entry without touching the
// asset status. Putting an asset into maintenance is a direct edit;
// logging the work done on it is this call. The two are independent.
func (s *service) LogMaintenance(ctx context.Context, input TransitionInput) (*Result, error) {
	asset, err := s.loadAsset(ctx, input)
	if err != nil {
		return nil, err
	}

	transaction, err := s.ledger.Record(ctx, ledger.RecordInput{
		AssetID:   asset.ID,
		AssetName: asset.Name,
		UserID:    input.UserID,
		UserName:  strings.TrimSpace(input.UserName),
		Type:      enums.TransactionTypeMaintenanceLog,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Asset: asset, Transaction: transaction}, nil
}

func (s *service) loadAsset(ctx context.Context, input TransitionInput) (*models.Asset, error) {
	if strings.TrimSpace(input.AssetID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id required")
	}
	if strings.TrimSpace(input.UserName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name required")
	}

	asset, err := s.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	if asset == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return asset, nil
}

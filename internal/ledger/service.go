package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/metrics"
	"github.com/google/uuid"
)

// ChangeListener is notified after every appended transaction.
type ChangeListener interface {
	Recompute(ctx context.Context)
}

// Service defines operations over the transaction ledger.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	ListByAssetID(ctx context.Context, assetID string) ([]models.Transaction, error)
}

type service struct {
	repo     Repository
	listener ChangeListener
	metrics  *metrics.Metrics
}

// RecordInput captures the immutable data a ledger entry requires.
// AssetName and UserName are denormalized deliberately: they are the
// names at the time of the event and are never re-synced.
type RecordInput struct {
	AssetID   string
	AssetName string
	UserID    string
	UserName  string
	Type      enums.TransactionType
	Signature string
	Notes     *string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository, listener ChangeListener, m *metrics.Metrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	return &service{repo: repo, listener: listener, metrics: m}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.Transaction, error) {
	if strings.TrimSpace(input.AssetID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id required")
	}
	if strings.TrimSpace(input.UserName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}

	transaction := &models.Transaction{
		ID:        uuid.NewString(),
		AssetID:   input.AssetID,
		AssetName: input.AssetName,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Type:      input.Type,
		Timestamp: time.Now().UTC(),
		Signature: input.Signature,
		Notes:     input.Notes,
	}

	if err := s.repo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(input.Type))
	if s.listener != nil {
		s.listener.Recompute(ctx)
	}
	return transaction, nil
}

func (s *service) List(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return transactions, nil
}

func (s *service) ListByAssetID(ctx context.Context, assetID string) ([]models.Transaction, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id required")
	}
	transactions, err := s.repo.ListByAssetID(ctx, assetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list asset transactions")
	}
	return transactions, nil
}

package lifecycle

import (
	"context"
	"testing"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"gorm.io/gorm"
)

func TestBorrowThenReturn(t *testing.T) {
	t.Parallel()

	assetRepo := newFakeAssetRepo()
	assetRepo.seed(models.Asset{ID: "AST-002", Name: "Sony Alpha a7 IV", Category: "camera", Status: enums.AssetStatusAvailable})
	ledgerRepo := &fakeLedgerRepo{}
	svc := newTestService(t, assetRepo, ledgerRepo)
	ctx := context.Background()

	borrowed, err := svc.Borrow(ctx, TransitionInput{AssetID: "AST-002", UserName: "Alice Chen", Signature: "data:image/png;base64,sig"})
	if err != nil {
		t.Fatalf("unexpected borrow error: %v", err)
	}
	if borrowed.Asset.Status != enums.AssetStatusBorrowed {
		t.Fatalf("expected borrowed status, got %s", borrowed.Asset.Status)
	}
	if borrowed.Asset.HolderName() != "Alice Chen" {
		t.Fatalf("expected holder Alice Chen, got %q", borrowed.Asset.HolderName())
	}
	if borrowed.Transaction.Type != enums.TransactionTypeBorrow {
		t.Fatalf("expected borrow entry, got %s", borrowed.Transaction.Type)
	}
	if borrowed.Transaction.AssetName != "Sony Alpha a7 IV" {
		t.Fatalf("expected denormalized asset name, got %q", borrowed.Transaction.AssetName)
	}

	returned, err := svc.Return(ctx, TransitionInput{AssetID: "AST-002", UserName: "Alice Chen"})
	if err != nil {
		t.Fatalf("unexpected return error: %v", err)
	}
	if returned.Asset.Status != enums.AssetStatusAvailable {
		t.Fatalf("expected available status, got %s", returned.Asset.Status)
	}
	if returned.Asset.CurrentHolder != nil {
		t.Fatalf("expected holder cleared, got %q", *returned.Asset.CurrentHolder)
	}
	if returned.Transaction.Type != enums.TransactionTypeReturn {
		t.Fatalf("expected return entry, got %s", returned.Transaction.Type)
	}

	// The full cycle leaves exactly two ledger entries, newest first.
	entries, err := ledgerRepo.ListByAssetID(ctx, "AST-002")
	if err != nil {
		t.Fatalf("listing ledger: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != enums.TransactionTypeReturn || entries[1].Type != enums.TransactionTypeBorrow {
		t.Fatalf("unexpected ledger order: %s, %s", entries[0].Type, entries[1].Type)
	}
}

func TestBorrowUnavailableAsset(t *testing.T) {
	t.Parallel()

	holder := "Bob Park"
	assetRepo := newFakeAssetRepo()
	assetRepo.seed(models.Asset{ID: "a1", Name: "Camera", Category: "camera", Status: enums.AssetStatusBorrowed, CurrentHolder: &holder})
	ledgerRepo := &fakeLedgerRepo{}
	svc := newTestService(t, assetRepo, ledgerRepo)

	_, err := svc.Borrow(context.Background(), TransitionInput{AssetID: "a1", UserName: "Alice Chen"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(ledgerRepo.created) != 0 {
		t.Fatalf("rejected transition must not append entries, got %d", len(ledgerRepo.created))
	}
}

func TestReturnRequiresBorrowedState(t *testing.T) {
	t.Parallel()

	assetRepo := newFakeAssetRepo()
	assetRepo.seed(models.Asset{ID: "a1", Name: "Camera", Category: "camera", Status: enums.AssetStatusAvailable})
	svc := newTestService(t, assetRepo, &fakeLedgerRepo{})

	_, err := svc.Return(context.Background(), TransitionInput{AssetID: "a1", UserName: "Alice Chen"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestLogMaintenanceLeavesStatusUntouched(t *testing.T) {
	t.Parallel()

	assetRepo := newFakeAssetRepo()
	assetRepo.seed(models.Asset{ID: "a1", Name: "Camera", Category: "camera", Status: enums.AssetStatusMaintenance})
	ledgerRepo := &fakeLedgerRepo{}
	svc := newTestService(t, assetRepo, ledgerRepo)

	notes := "replaced shutter assembly"
	result, err := svc.LogMaintenance(context.Background(), TransitionInput{AssetID: "a1", UserName: "Tech Team", Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Asset.Status != enums.AssetStatusMaintenance {
		t.Fatalf("expected status untouched, got %s", result.Asset.Status)
	}
	if result.Transaction.Type != enums.TransactionTypeMaintenanceLog {
		t.Fatalf("expected maintenance entry, got %s", result.Transaction.Type)
	}
	if result.Transaction.Notes == nil || *result.Transaction.Notes != notes {
		t.Fatalf("expected notes carried through, got %v", result.Transaction.Notes)
	}
}

func TestTransitionMissingAsset(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeAssetRepo(), &fakeLedgerRepo{})

	_, err := svc.Borrow(context.Background(), TransitionInput{AssetID: "nope", UserName: "Alice Chen"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransitionValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeAssetRepo(), &fakeLedgerRepo{})

	if _, err := svc.Borrow(context.Background(), TransitionInput{UserName: "Alice Chen"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing asset id, got %v", err)
	}
	if _, err := svc.Borrow(context.Background(), TransitionInput{AssetID: "a1"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing user name, got %v", err)
	}
}

func newTestService(t *testing.T, assetRepo assets.Repository, ledgerRepo ledger.Repository) Service {
	t.Helper()
	ledgerSvc, err := ledger.NewService(ledgerRepo, nil, nil)
	if err != nil {
		t.Fatalf("creating ledger service: %v", err)
	}
	svc, err := NewService(assetRepo, ledgerSvc, nil)
	if err != nil {
		t.Fatalf("creating lifecycle service: %v", err)
	}
	return svc
}

type fakeAssetRepo struct {
	items map[string]models.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{items: map[string]models.Asset{}}
}

func (f *fakeAssetRepo) seed(asset models.Asset) { f.items[asset.ID] = asset }

func (f *fakeAssetRepo) WithTx(tx *gorm.DB) assets.Repository { return f }

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	f.seed(*asset)
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	asset, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &asset, nil
}

func (f *fakeAssetRepo) List(ctx context.Context, filter assets.ListFilter) ([]models.Asset, error) {
	var out []models.Asset
	for _, asset := range f.items {
		out = append(out, asset)
	}
	return out, nil
}

func (f *fakeAssetRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Asset, error) {
	var out []models.Asset
	for _, id := range ids {
		if asset, ok := f.items[id]; ok {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	if _, ok := f.items[asset.ID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	f.items[asset.ID] = *asset
	return nil
}

type fakeLedgerRepo struct {
	created []models.Transaction
}

func (f *fakeLedgerRepo) WithTx(tx *gorm.DB) ledger.Repository { return f }

func (f *fakeLedgerRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	transaction.Seq = int64(len(f.created) + 1)
	f.created = append(f.created, *transaction)
	return nil
}

func (f *fakeLedgerRepo) List(ctx context.Context) ([]models.Transaction, error) {
	out := make([]models.Transaction, len(f.created))
	for i := range f.created {
		out[i] = f.created[len(f.created)-1-i]
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListByAssetID(ctx context.Context, assetID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].AssetID == assetID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	all, _ := f.List(ctx)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
	"github.com/assetdesk/assetdesk-backend/pkg/metrics"
)

// Service maintains the current alert set. Recompute is full-replace on
// every store mutation rather than incremental diffing; stale alerts can
// never accumulate, and the fleet sizes here are back-office scale.
type Service interface {
	Recompute(ctx context.Context)
	List(ctx context.Context) []Alert
}

type service struct {
	assetRepo    assets.Repository
	ledgerRepo   ledger.Repository
	overdueAfter time.Duration
	logg         *logger.Logger
	metrics      *metrics.Metrics

	mu      sync.RWMutex
	current []Alert
}

// NewService wires the alert deriver over the canonical store.
func NewService(assetRepo assets.Repository, ledgerRepo ledger.Repository, overdueAfter time.Duration, logg *logger.Logger, m *metrics.Metrics) (Service, error) {
	if assetRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	if ledgerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger repository required")
	}
	if overdueAfter <= 0 {
		overdueAfter = DefaultOverdueAfter
	}
	return &service{
		assetRepo:    assetRepo,
		ledgerRepo:   ledgerRepo,
		overdueAfter: overdueAfter,
		logg:         logg,
		metrics:      m,
	}, nil
}

func (s *service) Recompute(ctx context.Context) {
	assetList, err := s.assetRepo.List(ctx, assets.ListFilter{})
	if err != nil {
		// A failed recompute keeps the previous set; the next mutation
		// will retry.
		if s.logg != nil {
			s.logg.Error(ctx, "alert recompute failed loading assets", err)
		}
		return
	}
	transactions, err := s.ledgerRepo.List(ctx)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "alert recompute failed loading transactions", err)
		}
		return
	}

	derived := Derive(assetList, transactions, time.Now().UTC(), s.overdueAfter)

	s.mu.Lock()
	s.current = derived
	s.mu.Unlock()

	s.publishGauges(derived)
}

func (s *service) List(ctx context.Context) []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, len(s.current))
	copy(out, s.current)
	return out
}

func (s *service) publishGauges(derived []Alert) {
	counts := map[enums.AlertSeverity]int{
		enums.AlertSeverityCritical: 0,
		enums.AlertSeverityWarning:  0,
	}
	for _, alert := range derived {
		counts[alert.Severity]++
	}
	for severity, count := range counts {
		s.metrics.SetActiveAlerts(string(severity), count)
	}
}

var (
	_ assets.ChangeListener = (*service)(nil)
	_ ledger.ChangeListener = (*service)(nil)
)

package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// DefaultOverdueAfter is the borrow age beyond which an overdue alert fires.
const DefaultOverdueAfter = 7 * 24 * time.Hour

// Derive is a pure function of (assets, transactions, now). It returns
// the complete alert set in deterministic order: critical before
// warning, asset id ascending within each severity.
func Derive(assetList []models.Asset, transactions []models.Transaction, now time.Time, overdueAfter time.Duration) []Alert {
	if overdueAfter <= 0 {
		overdueAfter = DefaultOverdueAfter
	}

	var lost, overdue []Alert

	latestBorrow := latestBorrowByAsset(transactions)

	for _, asset := range assetList {
		switch asset.Status {
		case enums.AssetStatusLost:
			lost = append(lost, Alert{
				Key:         fmt.Sprintf("lost-%s", asset.ID),
				Kind:        enums.AlertKindLost,
				AssetID:     asset.ID,
				Title:       "Asset lost",
				Message:     fmt.Sprintf("%s is marked as lost.", asset.Name),
				Severity:    enums.AlertSeverityCritical,
				GeneratedAt: now,
			})
		case enums.AssetStatusBorrowed:
			borrowedAt, ok := latestBorrow[asset.ID]
			if !ok {
				// A borrowed asset without a borrow entry is a data
				// inconsistency; absence of evidence is not overdue.
				continue
			}
			if now.Sub(borrowedAt) <= overdueAfter {
				continue
			}
			overdue = append(overdue, Alert{
				Key:         fmt.Sprintf("overdue-%s", asset.ID),
				Kind:        enums.AlertKindOverdue,
				AssetID:     asset.ID,
				Title:       "Borrow overdue",
				Message:     fmt.Sprintf("%s has been held by %s for more than %d days.", asset.Name, asset.HolderName(), int(overdueAfter.Hours()/24)),
				Severity:    enums.AlertSeverityWarning,
				GeneratedAt: now,
			})
		}
	}

	sort.Slice(lost, func(i, j int) bool { return lost[i].AssetID < lost[j].AssetID })
	sort.Slice(overdue, func(i, j int) bool { return overdue[i].AssetID < overdue[j].AssetID })

	return append(lost, overdue...)
}

// latestBorrowByAsset finds the max borrow timestamp per asset id.
func latestBorrowByAsset(transactions []models.Transaction) map[string]time.Time {
	latest := make(map[string]time.Time)
	for _, transaction := range transactions {
		if transaction.Type != enums.TransactionTypeBorrow {
			continue
		}
		if current, ok := latest[transaction.AssetID]; !ok || transaction.Timestamp.After(current) {
			latest[transaction.AssetID] = transaction.Timestamp
		}
	}
	return latest
}

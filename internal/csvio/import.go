package csvio

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
	"github.com/assetdesk/assetdesk-backend/pkg/metrics"
	"github.com/google/uuid"
)

// placeholderImageRef marks imported assets that have no photo yet.
const placeholderImageRef = "/images/placeholder-asset.png"

// ImportResult reports a best-effort batch outcome: partial success is
// success, and the caller learns counts rather than a failed subset.
type ImportResult struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Assets  []models.Asset `json:"assets"`
}

// Importer creates assets from an uploaded CSV table.
type Importer struct {
	repo     assets.Repository
	listener assets.ChangeListener
	logg     *logger.Logger
	metrics  *metrics.Metrics
}

// NewImporter wires the CSV import half of the codec.
func NewImporter(repo assets.Repository, listener assets.ChangeListener, logg *logger.Logger, m *metrics.Metrics) (*Importer, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset repository required")
	}
	return &Importer{repo: repo, listener: listener, logg: logg, metrics: m}, nil
}

// Import reads a header row plus data rows. Only the first four
// comma-separated fields are consumed (name, category, model, serial);
// later columns are ignored. This is deliberately asymmetric with
// export. Rows whose name is empty after trimming surrounding quotes are
// skipped; a batch with bad rows still commits the good ones.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	if r == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv body required")
	}

	result := &ImportResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	now := time.Now().UTC()
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			line = strings.TrimPrefix(line, string(utf8BOM))
			// Header row.
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ",")
		name := cleanField(fields, 0)
		if name == "" {
			result.Skipped++
			continue
		}

		id := uuid.NewString()
		asset := &models.Asset{
			ID:           id,
			Name:         name,
			Category:     cleanField(fields, 1),
			Model:        cleanField(fields, 2),
			SerialNumber: cleanField(fields, 3),
			PurchaseDate: now,
			Status:       enums.AssetStatusAvailable,
			ImageRef:     placeholderImageRef,
			QRPayload:    id,
		}

		if err := i.repo.Create(ctx, asset); err != nil {
			result.Skipped++
			if i.logg != nil {
				i.logg.Error(i.logg.WithAssetID(ctx, asset.ID), "csv import row rejected", err)
			}
			continue
		}
		result.Created++
		result.Assets = append(result.Assets, *asset)
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv body")
	}

	i.metrics.AddImportRows("created", result.Created)
	i.metrics.AddImportRows("skipped", result.Skipped)

	if result.Created > 0 && i.listener != nil {
		i.listener.Recompute(ctx)
	}
	return result, nil
}

func cleanField(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	value := strings.TrimSpace(fields[idx])
	value = strings.Trim(value, `"`)
	return strings.TrimSpace(value)
}

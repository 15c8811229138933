package csvio

import (
	"bytes"
	"encoding/csv"
	"sort"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/db/models"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
)

// utf8BOM keeps spreadsheet tools from mis-sniffing the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var fixedExportColumns = []string{
	"id", "name", "category", "model", "serial",
	"status", "holder", "purchase date", "description",
}

const exportDateLayout = "2006-01-02"

// Export serializes the asset view to CSV text. Fixed columns come
// first, then one column per distinct custom-feature key across the
// exported set, sorted lexicographically.
func Export(assetList []models.Asset) ([]byte, error) {
	featureColumns := collectFeatureKeys(assetList)

	buf := &bytes.Buffer{}
	buf.Write(utf8BOM)
	writer := csv.NewWriter(buf)

	header := append(append([]string{}, fixedExportColumns...), featureColumns...)
	if err := writer.Write(header); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "write csv header")
	}

	for _, asset := range assetList {
		row := []string{
			asset.ID,
			asset.Name,
			asset.Category,
			asset.Model,
			asset.SerialNumber,
			string(asset.Status),
			asset.HolderName(),
			formatPurchaseDate(asset.PurchaseDate),
			derefOrEmpty(asset.Description),
		}
		for _, key := range featureColumns {
			row = append(row, asset.CustomFeatures[key])
		}
		if err := writer.Write(row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeEncoding, err, "flush csv")
	}
	return buf.Bytes(), nil
}

func collectFeatureKeys(assetList []models.Asset) []string {
	seen := map[string]struct{}{}
	for _, asset := range assetList {
		for key := range asset.CustomFeatures {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatPurchaseDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportDateLayout)
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

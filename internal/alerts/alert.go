package alerts

import (
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

// Alert is a derived, non-persisted notification. Its key is
// deterministic (kind + asset id) so repeated recomputes of the same
// store state yield the same set.
type Alert struct {
	Key         string              `json:"key"`
	Kind        enums.AlertKind     `json:"kind"`
	AssetID     string              `json:"assetId"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Severity    enums.AlertSeverity `json:"severity"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

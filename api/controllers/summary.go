package controllers

import (
	"net/http"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/internal/summary"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// InventorySummary returns free-text inventory prose, or the placeholder
// when the collaborator is unavailable.
func InventorySummary(svc summary.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "summary service unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"summary": svc.Summarize(r.Context())})
	}
}

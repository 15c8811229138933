package controllers

import (
	"net/http"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/internal/alerts"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// AlertList returns the current derived alert set.
func AlertList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

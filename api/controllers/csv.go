package controllers

import (
	"net/http"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/csvio"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

const exportFilename = "assets-export.csv"

// AssetImport ingests a CSV request body and creates assets best-effort.
func AssetImport(importer *csvio.Importer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if importer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "csv importer unavailable"))
			return
		}

		result, err := importer.Import(r.Context(), r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AssetExport streams the asset view as a CSV download. The same list
// filters as the asset listing apply.
func AssetExport(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		filter := assets.ListFilter{
			Status:   r.URL.Query().Get("status"),
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		}

		assetList, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body, err := csvio.Export(assetList)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil && logg != nil {
			logg.Error(r.Context(), "csv export write failed", err)
		}
	}
}

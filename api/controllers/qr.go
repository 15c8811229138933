package controllers

import (
	"net/http"
	"strconv"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/qrexport"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

const qrArchiveFilename = "asset-qrcodes.zip"

// AssetQRArchive builds one QR code per asset and streams the zip.
func AssetQRArchive(assetSvc assets.Service, qrSvc qrexport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if assetSvc == nil || qrSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "qr export unavailable"))
			return
		}

		assetList, err := assetSvc.List(r.Context(), assets.ListFilter{
			Status:   r.URL.Query().Get("status"),
			Category: r.URL.Query().Get("category"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := qrSvc.BuildArchive(r.Context(), assetList)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="`+qrArchiveFilename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.Archive)))
		w.Header().Set("X-QR-Generated", strconv.Itoa(result.Generated))
		w.Header().Set("X-QR-Skipped", strconv.Itoa(result.Skipped))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(result.Archive); err != nil && logg != nil {
			logg.Error(r.Context(), "qr archive write failed", err)
		}
	}
}

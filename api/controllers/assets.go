package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/api/validators"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// AssetList returns the asset view, optionally filtered by status,
// category, or a name/serial search term.
func AssetList(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
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

		responses.WriteSuccess(w, assetList)
	}
}

// AssetCreate registers a new asset in the store.
func AssetCreate(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		var payload assets.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

// AssetGet returns one asset by id.
func AssetGet(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		asset, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}

// AssetUpdate applies a direct edit. This path emits no transaction and
// is the only way an asset becomes lost.
func AssetUpdate(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		var payload assets.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		asset, err := svc.Update(r.Context(), chi.URLParam(r, "id"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, asset)
	}
}

// AssetBulkUpdate applies one patch across many assets and returns only
// the ones that actually changed.
func AssetBulkUpdate(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "asset service unavailable"))
			return
		}

		var payload assets.BulkUpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed, err := svc.BulkUpdate(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"changed": changed,
			"count":   len(changed),
		})
	}
}

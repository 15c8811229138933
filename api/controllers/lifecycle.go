package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/api/validators"
	"github.com/assetdesk/assetdesk-backend/internal/lifecycle"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

type transitionRequest struct {
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName" validate:"required"`
	Signature string  `json:"signature"`
	Notes     *string `json:"notes"`
}

func (t transitionRequest) toInput(assetID string) lifecycle.TransitionInput {
	return lifecycle.TransitionInput{
		AssetID:   assetID,
		UserID:    t.UserID,
		UserName:  t.UserName,
		Signature: t.Signature,
		Notes:     t.Notes,
	}
}

// AssetBorrow moves an available asset to borrowed and appends the
// borrow transaction.
func AssetBorrow(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, input lifecycle.TransitionInput) (*lifecycle.Result, error) {
		return svc.Borrow(r.Context(), input)
	})
}

// AssetReturn moves a borrowed asset back to available.
func AssetReturn(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, input lifecycle.TransitionInput) (*lifecycle.Result, error) {
		return svc.Return(r.Context(), input)
	})
}

// AssetMaintenanceLog appends a maintenance entry without changing the
// asset status.
func AssetMaintenanceLog(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, input lifecycle.TransitionInput) (*lifecycle.Result, error) {
		return svc.LogMaintenance(r.Context(), input)
	})
}

func transitionHandler(svc lifecycle.Service, logg *logger.Logger, call func(*http.Request, lifecycle.TransitionInput) (*lifecycle.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lifecycle service unavailable"))
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := call(r, payload.toInput(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

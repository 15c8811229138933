package controllers

import (
	"net/http"

	"github.com/assetdesk/assetdesk-backend/api/responses"
	"github.com/assetdesk/assetdesk-backend/api/validators"
	"github.com/assetdesk/assetdesk-backend/internal/admingate"
	pkgerrors "github.com/assetdesk/assetdesk-backend/pkg/errors"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin exchanges credentials for a short-lived admin token.
func AdminLogin(svc admingate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin gate unavailable"))
			return
		}

		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}

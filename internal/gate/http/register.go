package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Account Registration Endpoint
//	@Description	Create a new account gated on a valid invitation key. The key is
//	@Description	consumed atomically; a consumed key is not refunded if account
//	@Description	creation subsequently fails.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			name		formData	string					true	"Display name"
//	@Param			email		formData	string					true	"Email address (unique, case-insensitive)"
//	@Param			password	formData	string					true	"Password"
//	@Param			invite_key	formData	string					true	"Invitation key"
//	@Success		201			{object}	gatesdk.RegisterResponse	"user_id, name, email"
//	@Failure		400			{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		409			{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid form data",
		})
		return
	}

	user, err := h.RegistrationService.Register(
		ctx,
		r.FormValue("name"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("invite_key"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeMissingFields,
				ErrorDescription: "name, email, password and invite_key are required",
			})
		case errors.Is(err, service.ErrKeyInvalid):
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeKeyInvalid,
				ErrorDescription: "Invitation key is invalid or inactive",
			})
		case errors.Is(err, service.ErrKeyExpired):
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeKeyExpired,
				ErrorDescription: "Invitation key has expired",
			})
		case errors.Is(err, service.ErrKeyExhausted):
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeKeyExhausted,
				ErrorDescription: "Invitation key has no uses remaining",
			})
		case errors.Is(err, service.ErrDuplicateEmail):
			httpx.WriteJSON(w, http.StatusConflict, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeDuplicateEmail,
				ErrorDescription: "Email is already registered",
			})
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeServerError,
				ErrorDescription: "Failed to register user",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, gatesdk.RegisterResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
}

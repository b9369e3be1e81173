package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/sessionx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with email and password. On success returns a signed
//	@Description	session token and the identity attributes to place in session state.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string				true	"Email address"
//	@Param			password	formData	string				true	"Password"
//	@Success		200			{object}	gatesdk.LoginResponse	"session_token, token_type, expires_in, user"
//	@Failure		400			{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401			{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500			{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid form data",
		})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email and password are required",
		})
		return
	}

	user, token, err := h.SessionService.Login(ctx, email, password)
	if err != nil {
		// Unknown email and wrong password are indistinguishable on purpose.
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidCredentials,
				ErrorDescription: "Invalid credentials",
			})
			return
		}
		log.Error("failed to login user", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to login",
		})
		return
	}

	ttl := h.SessionService.TTL
	if ttl <= 0 {
		ttl = sessionx.DefaultSessionTTL
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.LoginResponse{
		SessionToken: token,
		TokenType:    "Bearer",
		ExpiresIn:    int(ttl.Seconds()),
		User: gatesdk.UserIdentity{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
	})
}

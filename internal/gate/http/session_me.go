package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type SessionMeHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Session Identity Endpoint
//	@Description	Return the identity of the authenticated session, re-read from the store.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	gatesdk.UserIdentity	"id, name, email, is_admin"
//	@Failure		401	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/session/me [get].
func (h *SessionMeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromCtx(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Authentication required",
		})
		return
	}

	user, err := h.SessionService.Identity(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token subject no longer exists; treat the session as dead.
			httpx.WriteJSON(w, http.StatusUnauthorized, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidCredentials,
				ErrorDescription: "Session subject not found",
			})
			return
		}
		log.Error("failed to fetch session identity", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to fetch identity",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.UserIdentity{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

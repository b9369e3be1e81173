package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/domain"
	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type KeysIssueHandler struct {
	LedgerService *service.LedgerService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invitation Key Endpoint
//	@Description	Mint a new invitation key. The raw key value is returned once in
//	@Description	the response; list responses never include it.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.IssueKeyRequest	true	"key (optional), label, max_uses, expires_at (optional RFC3339)"
//	@Success		201		{object}	gatesdk.KeyResponse		"issued key record including raw key"
//	@Failure		400		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/keys [post].
func (h *KeysIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.IssueKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidRequest,
				ErrorDescription: "expires_at must be an RFC3339 timestamp",
			})
			return
		}
		expiresAt = &t
	}

	createdBy, _ := httpx.UserIDFromCtx(ctx)

	key, err := h.LedgerService.Issue(ctx, service.IssueParams{
		Key:       req.Key,
		Label:     req.Label,
		MaxUses:   req.MaxUses,
		ExpiresAt: expiresAt,
		CreatedBy: createdBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidIssueRequest) {
			httpx.WriteJSON(w, http.StatusBadRequest, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeInvalidRequest,
				ErrorDescription: "max_uses must be at least 1, expiry must be in the future and the key token must be unused",
			})
			return
		}
		log.Error("failed to issue invitation key", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to issue invitation key",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, keyToResponse(key))
}

// keyToResponse maps a ledger record to its wire form. The raw key value is
// included: key endpoints are admin-only and the token is what admins hand
// out to invitees.
func keyToResponse(k domain.InviteKey) gatesdk.KeyResponse {
	resp := gatesdk.KeyResponse{
		ID:        k.ID,
		Key:       k.Key,
		Label:     k.Label,
		MaxUses:   k.MaxUses,
		UsedCount: k.UsedCount,
		Active:    k.Active,
		CreatedBy: k.CreatedBy,
		CreatedAt: k.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: k.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if k.ExpiresAt != nil {
		resp.ExpiresAt = k.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}

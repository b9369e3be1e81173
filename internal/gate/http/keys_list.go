package http

import (
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type KeysListHandler struct {
	LedgerService *service.LedgerService
}

// ServeHTTP godoc
//
//	@Summary		List Invitation Keys Endpoint
//	@Description	List every key in the ledger, newest first, including exhausted,
//	@Description	expired and deactivated keys. Raw key values are included; this
//	@Description	is an admin-only surface and the tokens are what admins hand out.
//	@Tags			Keys
//	@Produce		json
//	@Success		200	{object}	gatesdk.ListKeysResponse	"keys"
//	@Failure		401	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/keys [get].
func (h *KeysListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	keys, err := h.LedgerService.List(ctx)
	if err != nil {
		log.Error("failed to list invitation keys", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invitation keys",
		})
		return
	}

	resp := gatesdk.ListKeysResponse{Keys: make([]gatesdk.KeyResponse, 0, len(keys))}
	for _, k := range keys {
		resp.Keys = append(resp.Keys, keyToResponse(k))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

type KeysDeactivateHandler struct {
	LedgerService *service.LedgerService
}

// ServeHTTP godoc
//
//	@Summary		Deactivate Invitation Key Endpoint
//	@Description	Permanently disable a key regardless of remaining capacity. The
//	@Description	record stays in the ledger as audit trail.
//	@Tags			Keys
//	@Produce		json
//	@Param			id	path	string	true	"Key ID"
//	@Success		204	"key deactivated"
//	@Failure		401	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/keys/{id} [delete].
func (h *KeysDeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id := r.PathValue("id")

	if err := h.LedgerService.Deactivate(ctx, id); err != nil {
		if errors.Is(err, service.ErrKeyInvalid) {
			httpx.WriteJSON(w, http.StatusNotFound, gatesdk.ErrorResponse{
				Error:            gatesdk.ErrorCodeKeyInvalid,
				ErrorDescription: "No invitation key with that ID",
			})
			return
		}
		log.Error("failed to deactivate invitation key", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, gatesdk.ErrorResponse{
			Error:            gatesdk.ErrorCodeServerError,
			ErrorDescription: "Failed to deactivate invitation key",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

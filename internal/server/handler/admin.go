package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// AdminHandler serves operator endpoints. It sits behind the admin API key.
type AdminHandler struct {
	finalizer FinalizeRunner
	remover   AuctionRemover
	// queued sweeps run on the background finalizer; otherwise the sweep
	// runs inside the request.
	queued bool
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler. Set queued when a background
// finalizer loop consumes triggers in this process.
func NewAdminHandler(finalizer FinalizeRunner, remover AuctionRemover, queued bool, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		finalizer: finalizer,
		remover:   remover,
		queued:    queued,
		logger:    logger,
	}
}

type removeRequest struct {
	Reason string `json:"reason"`
}

// Finalize requests a finalization sweep.
// POST /api/admin/finalize
func (h *AdminHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "handler: finalize requested", slog.Bool("queued", h.queued))

	if h.queued {
		h.finalizer.Trigger()
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":       "accepted",
			"requested_at": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	sum, ran := h.finalizer.RunOnce(r.Context())
	if !ran {
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusConflict, "finalize sweep already running")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// RemoveAuction takes an active auction off the market.
// POST /api/admin/auctions/{id}/remove
func (h *AdminHandler) RemoveAuction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	var req removeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.remover.Remove(r.Context(), id, strings.TrimSpace(req.Reason)); err != nil {
		writeServiceError(w, r, h.logger, "remove auction", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "removed",
		"auction_id": id,
	})
}

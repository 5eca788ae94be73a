package handlers

import (
	"net/http"

	"github.com/chessclub/arena/middleware"
	"github.com/chessclub/arena/services"
)

type SyncHandler struct {
	syncService services.SyncService
}

func NewSyncHandler(syncService services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync imports concluded games from the configured round sheets. Safe to
// trigger repeatedly: already-imported games are skipped.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	report, err := h.syncService.SyncAll(r.Context(), admin)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/chessclub/arena/services"
)

type AuditHandler struct {
	audit services.AuditLogger
}

func NewAuditHandler(audit services.AuditLogger) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.audit.List(r.Context(), limit)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

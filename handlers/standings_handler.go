package handlers

import (
	"net/http"

	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/services"
	"github.com/go-chi/chi/v5"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	category := models.Category(chi.URLParam(r, "category"))

	result, err := h.standingsService.GetStandings(r.Context(), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

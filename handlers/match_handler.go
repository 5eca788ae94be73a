package handlers

import (
	"net/http"
	"time"

	"github.com/chessclub/arena/middleware"
	"github.com/chessclub/arena/models"
	"github.com/chessclub/arena/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// ListLive is the public board: in-progress and scheduled matches.
func (h *MatchHandler) ListLive(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListActive(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListArchive is the public archive of concluded matches, newest first.
func (h *MatchHandler) ListArchive(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListArchived(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateLive(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	var input services.CreateLiveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateLive(r.Context(), admin, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateScheduled(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	var input services.CreateScheduledInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateScheduled(r.Context(), admin, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Promote(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		GameURL string `json:"game_url"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.PromoteToLive(r.Context(), admin, id, input.GameURL)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Result    string `json:"result"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.RecordResult(r.Context(), admin, id, input.Result, input.Confirmed); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "result recorded"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		CurrentActive bool `json:"current_active"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.ToggleStatus(r.Context(), admin, id, input.CurrentActive); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "status toggled"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WhiteID   *string          `json:"white_id"`
		BlackID   *string          `json:"black_id"`
		WhiteName *string          `json:"white_name"`
		BlackName *string          `json:"black_name"`
		GameURL   *string          `json:"game_url"`
		StartTime *time.Time       `json:"start_time"`
		Category  *models.Category `json:"category"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	update := models.MatchUpdate{
		WhiteID:   input.WhiteID,
		BlackID:   input.BlackID,
		WhiteName: input.WhiteName,
		BlackName: input.BlackName,
		GameURL:   input.GameURL,
		StartTime: input.StartTime,
		Category:  input.Category,
	}
	if err := h.matchService.UpdateFields(r.Context(), admin, id, update); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "match updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Deletion is permanent; the confirm flag travels as a query parameter
	// because DELETE requests carry no body.
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.matchService.Delete(r.Context(), admin, id, confirmed); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "match deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StopAll(w http.ResponseWriter, r *http.Request) {
	admin, err := middleware.GetAdminEmailFromContext(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	archived, err := h.matchService.StopAll(r.Context(), admin)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"archived": archived}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

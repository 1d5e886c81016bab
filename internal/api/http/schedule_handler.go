package http

import (
	"net/http"
	"strconv"

	"kuzeybank-backend/internal/service"

	"github.com/gorilla/mux"
)

// ScheduleHandler serves the recurring transfer instruction CRUD
type ScheduleHandler struct {
	schedules service.ScheduleService
}

func NewScheduleHandler(schedules service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	views, err := h.schedules.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var input service.ScheduleInput
	if !decodeBody(w, r, &input) {
		return
	}

	st, err := h.schedules.Create(r.Context(), claims.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input service.ScheduleInput
	if !decodeBody(w, r, &input) {
		return
	}

	st, err := h.schedules.Update(r.Context(), claims.UserID, id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.schedules.Delete(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// pathID parses the {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return int32(id), true
}

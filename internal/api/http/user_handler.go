package http

import (
	"net/http"

	"kuzeybank-backend/internal/service"
)

// UserHandler serves the customer's own profile
type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	user, err := h.users.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.UpdateProfile(r.Context(), claims.UserID, req.FullName, req.Email, req.PhoneNumber, req.Address); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

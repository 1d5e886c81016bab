package http

import (
	"net/http"

	"kuzeybank-backend/internal/service"
)

// CardHandler serves customer card listing and requests
type CardHandler struct {
	cards service.CardService
}

func NewCardHandler(cards service.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

func (h *CardHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	cards, err := h.cards.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var input service.CardInput
	if !decodeBody(w, r, &input) {
		return
	}

	card, err := h.cards.Create(r.Context(), claims.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

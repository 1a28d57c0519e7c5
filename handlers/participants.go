// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/roles"
)

type ParticipantHandler struct {
	kitchen ParticipantSource
}

func NewParticipantHandler(k ParticipantSource) *ParticipantHandler {
	return &ParticipantHandler{kitchen: k}
}

// ListParticipants handles GET /lobbies/{id}/participants?start=N
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	start := 0
	if raw := r.URL.Query().Get("start"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "start must be an integer")
			return
		}
		start = n
	}

	participants, err := h.kitchen.ListParticipants(r.Context(), lobbyID)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("participant list returned malformed data", "lobby_id", lobbyID, "error", err)
		page := roles.Page(lobbyID, nil, 0)
		page.Degraded = true
		page.Warning = "Participants returned unexpected data"
		middleware.JSONResponse(w, http.StatusOK, page)
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load participants", "lobby_id", lobbyID)
		return
	}

	cards := roles.NewDealer(roles.LobbySource(lobbyID)).Deal(participants)

	middleware.JSONResponse(w, http.StatusOK, roles.Page(lobbyID, cards, start))
}

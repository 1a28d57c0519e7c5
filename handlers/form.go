// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mealpick/cliparse"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/preferences"
)

type FormHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	kitchen PreferenceSink
}

func NewFormHandler(db *sql.DB, cfg cliparse.Config, k PreferenceSink) *FormHandler {
	return &FormHandler{db: db, cfg: cfg, kitchen: k}
}

// GetForm handles GET /dietary-form/{lobbyId}. The form is served even when
// the lobby cannot be loaded.
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "lobbyId")
	if !ok {
		return
	}

	resp := models.DietaryFormResponse{
		LobbyID: lobbyID,
		Options: preferences.Options(),
	}

	lobby, err := findLobby(r.Context(), h.db, h.kitchen, lobbyID)
	if err != nil {
		slog.Warn("dietary form served without lobby details", "lobby_id", lobbyID, "error", err)
		resp.Warning = "Lobby details are unavailable"
	} else {
		presented := presentLobby(h.cfg, lobby)
		resp.Lobby = &presented
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SubmitForm handles POST /dietary-form/{lobbyId}
func (h *FormHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "lobbyId")
	if !ok {
		return
	}

	var form models.Participant
	if err := middleware.ParseJSONBody(r, &form); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fields := preferences.Validate(form); fields != nil {
		middleware.ValidationError(w, fields)
		return
	}

	participant := preferences.Normalize(form)

	if err := h.kitchen.SubmitPreferences(r.Context(), lobbyID, participant); err != nil {
		slog.Error("failed to submit preferences", "lobby_id", lobbyID, "error", err)
		middleware.JSONResponse(w, http.StatusBadGateway, models.SubmitPreferencesFailure{
			Error:   http.StatusText(http.StatusBadGateway),
			Message: "Failed to submit preferences. Please try again.",
			Form:    participant,
		})
		return
	}

	slog.Info("preferences submitted", "lobby_id", lobbyID, "name", participant.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitPreferencesResponse{
		Message:     "Preferences submitted",
		Participant: participant,
	})
}

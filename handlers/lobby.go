// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mealpick/cliparse"
	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/token"
)

// maxLobbyIDAttempts bounds retries after a lobby ID collision
const maxLobbyIDAttempts = 3

var (
	errLobbyNotFound = errors.New("lobby not found")
	errUpstream      = errors.New("kitchen unavailable")
)

type LobbyHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	kitchen LobbyLookup
}

func NewLobbyHandler(db *sql.DB, cfg cliparse.Config, k LobbyLookup) *LobbyHandler {
	return &LobbyHandler{db: db, cfg: cfg, kitchen: k}
}

// CreateLobby handles POST /lobbies
func (h *LobbyHandler) CreateLobby(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLobbyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	fields := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Name is required"
	}

	var date time.Time
	if strings.TrimSpace(req.Date) == "" {
		fields["date"] = "Date is required"
	} else if d, err := parseLobbyDate(req.Date); err != nil {
		fields["date"] = "Date must be YYYY-MM-DD or RFC 3339"
	} else {
		date = d
	}

	if len(fields) > 0 {
		middleware.ValidationError(w, fields)
		return
	}

	lobby, err := h.insertLobby(r.Context(), name, date)
	if err != nil {
		slog.Error("failed to create lobby", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create lobby")
		return
	}

	slog.Info("lobby created", "lobby_id", lobby.ID, "name", lobby.Name)

	middleware.JSONResponse(w, http.StatusCreated, presentLobby(h.cfg, lobby))
}

// GetLobby handles GET /lobbies/{id}
func (h *LobbyHandler) GetLobby(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	lobby, err := findLobby(r.Context(), h.db, h.kitchen, lobbyID)
	switch {
	case errors.Is(err, errLobbyNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Lobby not found")
		return
	case errors.Is(err, errUpstream):
		slog.Error("failed to load lobby from kitchen", "lobby_id", lobbyID, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to load lobby")
		return
	case err != nil:
		slog.Error("failed to query lobby", "lobby_id", lobbyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, presentLobby(h.cfg, lobby))
}

// insertLobby stores a lobby under a fresh token, retrying when the token
// is already taken.
func (h *LobbyHandler) insertLobby(ctx context.Context, name string, date time.Time) (models.Lobby, error) {
	now := time.Now().UTC()

	for attempt := 1; attempt <= maxLobbyIDAttempts; attempt++ {
		lobbyID, err := token.GenerateLobbyID()
		if err != nil {
			return models.Lobby{}, fmt.Errorf("generate lobby id: %w", err)
		}

		_, err = h.db.ExecContext(ctx, `
			INSERT INTO lobby (id, name, event_date, created_at)
			VALUES ($1, $2, $3, $4)
		`, lobbyID, name, date, now)
		if err == nil {
			return models.Lobby{ID: lobbyID, Name: name, Date: date, CreatedAt: now}, nil
		}

		taken, existsErr := lobbyExists(ctx, h.db, lobbyID)
		if existsErr != nil || !taken {
			return models.Lobby{}, fmt.Errorf("insert lobby: %w", err)
		}
		slog.Warn("lobby id collision", "lobby_id", lobbyID, "attempt", attempt)
	}

	return models.Lobby{}, fmt.Errorf("insert lobby: no free id after %d attempts", maxLobbyIDAttempts)
}

func lobbyExists(ctx context.Context, db *sql.DB, lobbyID string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lobby WHERE id = $1", lobbyID).Scan(&n)
	return n > 0, err
}

// findLobby reads the local store first and falls back to the kitchen API
func findLobby(ctx context.Context, db *sql.DB, k LobbyLookup, lobbyID string) (models.Lobby, error) {
	lobby := models.Lobby{ID: lobbyID}
	err := db.QueryRowContext(ctx, `
		SELECT name, event_date, created_at FROM lobby WHERE id = $1
	`, lobbyID).Scan(&lobby.Name, &lobby.Date, &lobby.CreatedAt)
	if err == nil {
		return lobby, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Lobby{}, fmt.Errorf("query lobby: %w", err)
	}

	info, err := k.GetLobby(ctx, lobbyID)
	if kitchen.IsNotFound(err) {
		return models.Lobby{}, errLobbyNotFound
	}
	if err != nil {
		return models.Lobby{}, fmt.Errorf("%w: %w", errUpstream, err)
	}

	lobby.Name = info.Name
	if d, err := parseLobbyDate(info.Date); err == nil {
		lobby.Date = d
	}
	return lobby, nil
}

// parseLobbyDate accepts a calendar date or a full RFC 3339 timestamp
func parseLobbyDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}

// presentLobby fills in the links and the relative date label
func presentLobby(cfg cliparse.Config, l models.Lobby) models.Lobby {
	l.Link = token.DietaryFormLink(l.ID)
	l.ShareURL = strings.TrimRight(cfg.PublicBaseURL, "/") + l.Link
	if !l.Date.IsZero() {
		l.DateLabel = humanize.Time(l.Date)
	}
	return l
}

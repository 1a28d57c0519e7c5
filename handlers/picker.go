// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/picker"
	"github.com/danielhkuo/mealpick/recipes"
	"github.com/danielhkuo/mealpick/token"
)

// spinHistoryLimit caps GET /lobbies/{id}/spins
const spinHistoryLimit = 50

type PickerHandler struct {
	db          *sql.DB
	board       *picker.Board
	recommender *recipes.Recommender
}

func NewPickerHandler(db *sql.DB, board *picker.Board, recommender *recipes.Recommender) *PickerHandler {
	return &PickerHandler{db: db, board: board, recommender: recommender}
}

// Spin handles POST /lobbies/{id}/spin. The body is optional and defaults
// to wheel mode.
func (h *PickerHandler) Spin(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	var req models.SpinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Mode {
	case "", models.SpinModeWheel, models.SpinModeRecipes:
	default:
		middleware.ValidationError(w, map[string]string{"mode": "Mode must be wheel or recipes"})
		return
	}

	wheel := h.board.Wheel(lobbyID)

	var candidates []models.Recipe
	if req.Mode == models.SpinModeRecipes {
		// Spin rechecks under the wheel lock; this only skips the kitchen
		// round trip for a trigger that would be refused anyway
		if wheel.State().State == models.SpinStateSpinning {
			middleware.ErrorResponse(w, http.StatusConflict, "A spin is already in progress")
			return
		}
		result, err := h.recommender.ForLobby(r.Context(), lobbyID)
		if err != nil {
			kitchenFailure(w, r, err, "Failed to load recommendations", "lobby_id", lobbyID)
			return
		}
		candidates = result.Recipes
	}

	state, err := wheel.Spin(req.Mode, candidates)
	switch {
	case errors.Is(err, picker.ErrSpinning):
		middleware.ErrorResponse(w, http.StatusConflict, "A spin is already in progress")
		return
	case errors.Is(err, picker.ErrNoCandidates):
		middleware.ErrorResponse(w, http.StatusBadRequest, "No recipes to pick from")
		return
	case errors.Is(err, picker.ErrClosed):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Picker is shutting down")
		return
	case err != nil:
		slog.Error("failed to start spin", "lobby_id", lobbyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start spin")
		return
	}

	slog.Info("spin started", "lobby_id", lobbyID, "mode", req.Mode, "candidates", len(candidates))

	middleware.JSONResponse(w, http.StatusAccepted, state)
}

// GetSpin handles GET /lobbies/{id}/spin. With wait=true it blocks until
// the current spin settles or the request ends.
func (h *PickerHandler) GetSpin(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	wheel, ok := h.board.Lookup(lobbyID)
	if !ok {
		middleware.JSONResponse(w, http.StatusOK, models.SpinStateResponse{
			LobbyID: lobbyID,
			State:   models.SpinStateIdle,
		})
		return
	}

	if r.URL.Query().Get("wait") != "true" {
		middleware.JSONResponse(w, http.StatusOK, wheel.State())
		return
	}

	state, err := wheel.Wait(r.Context())
	if err != nil {
		// Deadline hit while spinning; report where the wheel is now
		state = wheel.State()
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// ListSpins handles GET /lobbies/{id}/spins, newest first
func (h *PickerHandler) ListSpins(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, mode, rotation, segment_index, segment, recipe_id, recipe_title, settled_at
		FROM spin
		WHERE lobby_id = $1
		ORDER BY settled_at DESC
		LIMIT $2
	`, lobbyID, spinHistoryLimit)
	if err != nil {
		slog.Error("failed to query spins", "lobby_id", lobbyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	spins := []models.SpinOutcome{}
	for rows.Next() {
		spin := models.SpinOutcome{LobbyID: lobbyID}
		var recipeID sql.NullInt64
		var recipeTitle sql.NullString
		if err := rows.Scan(&spin.ID, &spin.Mode, &spin.Rotation, &spin.SegmentIndex,
			&spin.Segment, &recipeID, &recipeTitle, &spin.SettledAt); err != nil {
			slog.Error("failed to scan spin", "lobby_id", lobbyID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if recipeID.Valid {
			spin.Recipe = &models.Recipe{ID: int(recipeID.Int64), Title: recipeTitle.String}
		}
		spins = append(spins, spin)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read spins", "lobby_id", lobbyID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SpinHistoryResponse{
		LobbyID: lobbyID,
		Spins:   spins,
	})
}

// SpinRecorder returns a settle callback that stores every outcome. It runs
// on the wheel's timer goroutine, so it uses its own deadline.
func SpinRecorder(db *sql.DB, timeout time.Duration) func(models.SpinOutcome) {
	return func(outcome models.SpinOutcome) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := recordSpin(ctx, db, outcome); err != nil {
			slog.Error("failed to record spin", "lobby_id", outcome.LobbyID, "error", err)
			return
		}
		slog.Info("spin settled", "lobby_id", outcome.LobbyID, "segment", outcome.Segment)
	}
}

func recordSpin(ctx context.Context, db *sql.DB, o models.SpinOutcome) error {
	if o.ID == "" {
		id, err := token.GenerateID(12)
		if err != nil {
			return fmt.Errorf("generate spin id: %w", err)
		}
		o.ID = id
	}

	var recipeID sql.NullInt64
	var recipeTitle sql.NullString
	if o.Recipe != nil {
		recipeID = sql.NullInt64{Int64: int64(o.Recipe.ID), Valid: true}
		recipeTitle = sql.NullString{String: o.Recipe.Title, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO spin (id, lobby_id, mode, rotation, segment_index, segment, recipe_id, recipe_title, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.LobbyID, o.Mode, o.Rotation, o.SegmentIndex, o.Segment, recipeID, recipeTitle, o.SettledAt)
	if err != nil {
		return fmt.Errorf("insert spin: %w", err)
	}
	return nil
}

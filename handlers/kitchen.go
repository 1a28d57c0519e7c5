// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/token"
)

// Each handler depends only on the kitchen calls it makes. *kitchen.Client
// satisfies all of them.

type LobbyLookup interface {
	GetLobby(ctx context.Context, lobbyID string) (kitchen.LobbyInfo, error)
}

type PreferenceSink interface {
	LobbyLookup
	SubmitPreferences(ctx context.Context, lobbyID string, p models.Participant) error
}

type ParticipantSource interface {
	ListParticipants(ctx context.Context, lobbyID string) ([]models.Participant, error)
}

type RecipeCatalog interface {
	RecipeInformation(ctx context.Context, id int) (kitchen.RecipeInfo, error)
	RecipesFromIngredients(ctx context.Context, ingredients []string) ([]kitchen.RecipeStub, error)
}

type Fridge interface {
	FridgeItems(ctx context.Context) ([]kitchen.FridgeItem, error)
	AddFridgeItem(ctx context.Context, item kitchen.FridgeItem) error
	DeleteFridgeItem(ctx context.Context, name string) error
}

type GroceryFeed interface {
	GroceryDiscounts(ctx context.Context) (map[string][]kitchen.Discount, error)
}

type UserDirectory interface {
	ListUsers(ctx context.Context) ([]string, error)
	UserPreferences(ctx context.Context, name string) (models.Participant, error)
}

// lobbyIDFromPath reads and validates the {id} or {lobbyId} path value,
// writing a 400 when it is unusable.
func lobbyIDFromPath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	lobbyID := r.PathValue(name)
	if lobbyID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lobby_id is required")
		return "", false
	}
	if err := token.ValidateLobbyID(lobbyID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid lobby ID")
		return "", false
	}
	return lobbyID, true
}

// kitchenFailure logs a failed kitchen call and writes 404 for kitchen
// not-found answers, 502 otherwise.
func kitchenFailure(w http.ResponseWriter, r *http.Request, err error, msg string, args ...any) {
	if kitchen.IsNotFound(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	args = append(args, "request_id", middleware.RequestID(r.Context()))
	if errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("kitchen request timed out", append(args, "error", err)...)
	} else {
		slog.Error("kitchen request failed", append(args, "error", err)...)
	}
	middleware.ErrorResponse(w, http.StatusBadGateway, msg)
}

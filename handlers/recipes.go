// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/recipes"
)

type RecipeHandler struct {
	recommender *recipes.Recommender
	catalog     RecipeCatalog
}

func NewRecipeHandler(recommender *recipes.Recommender, catalog RecipeCatalog) *RecipeHandler {
	return &RecipeHandler{recommender: recommender, catalog: catalog}
}

// LobbyRecommendations handles GET /lobbies/{id}/recommendations
func (h *RecipeHandler) LobbyRecommendations(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	result, err := h.recommender.ForLobby(r.Context(), lobbyID)
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load recommendations", "lobby_id", lobbyID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecommendationResponse{
		LobbyID:      lobbyID,
		Restrictions: result.Restrictions.Terms(),
		Recipes:      result.Recipes,
		Degraded:     result.Degraded,
		Warning:      result.Warning,
	})
}

// Recommendations handles GET /recommendations, grouping the unfiltered
// candidates by dish type.
func (h *RecipeHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	batch, err := h.recommender.Candidates(r.Context())
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load recommendations")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CategorizedRecipesResponse{
		Categories: recipes.Categorize(batch.Recipes),
		Degraded:   batch.Degraded,
		Warning:    batch.Warning,
	})
}

// Restrictions handles GET /lobbies/{id}/restrictions
func (h *RecipeHandler) Restrictions(w http.ResponseWriter, r *http.Request) {
	lobbyID, ok := lobbyIDFromPath(w, r, "id")
	if !ok {
		return
	}

	result, err := h.recommender.Restrictions(r.Context(), lobbyID)
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load participants", "lobby_id", lobbyID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RestrictionsResponse{
		LobbyID:      lobbyID,
		Restrictions: result.Restrictions.Terms(),
		Degraded:     result.Degraded,
		Warning:      result.Warning,
	})
}

// GetRecipe handles GET /recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || recipeID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	info, err := h.catalog.RecipeInformation(r.Context(), recipeID)
	if kitchen.IsNotFound(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load recipe", "recipe_id", recipeID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, info.Detail())
}

// ByIngredients handles GET /recipes/by-ingredients?ingredients=a,b
func (h *RecipeHandler) ByIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients := lo.Uniq(lo.FilterMap(strings.Split(r.URL.Query().Get("ingredients"), ","),
		func(s string, _ int) (string, bool) {
			s = strings.TrimSpace(s)
			return s, s != ""
		}))
	if len(ingredients) == 0 {
		middleware.ValidationError(w, map[string]string{"ingredients": "At least one ingredient is required"})
		return
	}

	stubs, err := h.catalog.RecipesFromIngredients(r.Context(), ingredients)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("ingredient search returned malformed data", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.RecipeListResponse{
			Recipes:  []models.Recipe{},
			Degraded: true,
			Warning:  "Recipe search returned unexpected data",
		})
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to search recipes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecipeListResponse{
		Recipes: lo.Map(stubs, func(s kitchen.RecipeStub, _ int) models.Recipe { return s.Recipe() }),
	})
}

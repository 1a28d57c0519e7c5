// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mealpick/cliparse"
	"github.com/danielhkuo/mealpick/handlers"
	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/picker"
	"github.com/danielhkuo/mealpick/recipes"
	"github.com/danielhkuo/mealpick/version"
)

// Services are the long-lived components shared by handlers
type Services struct {
	Kitchen     *kitchen.Client
	Recommender *recipes.Recommender
	Board       *picker.Board
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	lobbyHandler := handlers.NewLobbyHandler(db, cfg, svc.Kitchen)
	formHandler := handlers.NewFormHandler(db, cfg, svc.Kitchen)
	participantHandler := handlers.NewParticipantHandler(svc.Kitchen)
	recipeHandler := handlers.NewRecipeHandler(svc.Recommender, svc.Kitchen)
	pickerHandler := handlers.NewPickerHandler(db, svc.Board, svc.Recommender)
	fridgeHandler := handlers.NewFridgeHandler(svc.Kitchen)
	groceryHandler := handlers.NewGroceryHandler(svc.Kitchen)
	userHandler := handlers.NewUserHandler(svc.Kitchen)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, version.Get(cfg.DatabaseType))
	})

	// Lobbies and the dietary form
	mux.HandleFunc("POST /lobbies", middleware.WithLogging(lobbyHandler.CreateLobby))
	mux.HandleFunc("GET /lobbies/{id}", middleware.WithLogging(lobbyHandler.GetLobby))
	mux.HandleFunc("GET /dietary-form/{lobbyId}", middleware.WithLogging(formHandler.GetForm))
	mux.HandleFunc("POST /dietary-form/{lobbyId}", middleware.WithLogging(formHandler.SubmitForm))
	mux.HandleFunc("GET /lobbies/{id}/participants", middleware.WithLogging(participantHandler.ListParticipants))

	// Recipes
	mux.HandleFunc("GET /lobbies/{id}/restrictions", middleware.WithLogging(recipeHandler.Restrictions))
	mux.HandleFunc("GET /lobbies/{id}/recommendations", middleware.WithLogging(recipeHandler.LobbyRecommendations))
	mux.HandleFunc("GET /recommendations", middleware.WithLogging(recipeHandler.Recommendations))
	mux.HandleFunc("GET /recipes/by-ingredients", middleware.WithLogging(recipeHandler.ByIngredients))
	mux.HandleFunc("GET /recipes/{id}", middleware.WithLogging(recipeHandler.GetRecipe))

	// Picker
	mux.HandleFunc("POST /lobbies/{id}/spin", middleware.WithLogging(pickerHandler.Spin))
	mux.HandleFunc("GET /lobbies/{id}/spin", middleware.WithLogging(pickerHandler.GetSpin))
	mux.HandleFunc("GET /lobbies/{id}/spins", middleware.WithLogging(pickerHandler.ListSpins))

	// Inventory
	mux.HandleFunc("GET /fridge", middleware.WithLogging(fridgeHandler.ListItems))
	mux.HandleFunc("POST /fridge", middleware.WithLogging(fridgeHandler.AddItem))
	mux.HandleFunc("DELETE /fridge/{name}", middleware.WithLogging(fridgeHandler.DeleteItem))
	mux.HandleFunc("GET /groceries", middleware.WithLogging(groceryHandler.ListDiscounts))

	// Users
	mux.HandleFunc("GET /users", middleware.WithLogging(userHandler.ListUsers))
	mux.HandleFunc("GET /users/preferences", middleware.WithLogging(userHandler.GetPreferences))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mealpick API v1"))
	})

	return mux
}

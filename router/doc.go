// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the mealpick API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, router.Services{...})

# Endpoints

Service:

	GET /health
	GET /version

Lobbies and preferences:

	POST /lobbies                    - Create lobby
	GET  /lobbies/{id}               - Lobby details
	GET  /dietary-form/{lobbyId}     - Form options and lobby
	POST /dietary-form/{lobbyId}     - Submit preferences
	GET  /lobbies/{id}/participants  - Role cards (?start=N)
	GET  /lobbies/{id}/restrictions  - Derived restriction set

Recipes:

	GET /lobbies/{id}/recommendations - Filtered main courses
	GET /recommendations              - Candidates by dish type
	GET /recipes/{id}                 - Recipe detail
	GET /recipes/by-ingredients       - Search (?ingredients=a,b)

Picker:

	POST /lobbies/{id}/spin  - Start a spin
	GET  /lobbies/{id}/spin  - Current state (?wait=true)
	GET  /lobbies/{id}/spins - Settled spins

Inventory and lookups:

	GET    /fridge             - List items
	POST   /fridge             - Add item
	DELETE /fridge/{name}      - Remove item
	GET    /groceries          - Discounts by store
	GET    /users              - Known users
	GET    /users/preferences  - One user's preferences (?name=)
*/
package router

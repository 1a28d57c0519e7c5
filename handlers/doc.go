// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the mealpick API.

# Handler Types

Each handler is a struct holding only what it calls:

  - LobbyHandler: Lobby creation and lookup
  - FormHandler: Dietary form options and submission
  - ParticipantHandler: Role cards in a sliding window of three
  - RecipeHandler: Recommendations, restrictions and recipe detail
  - PickerHandler: Wheel spins and spin history
  - FridgeHandler: Shared fridge inventory
  - GroceryHandler, UserHandler: Read-only kitchen lookups

Kitchen dependencies are small interfaces (LobbyLookup, Fridge, ...) that
*kitchen.Client satisfies:

	fridge := handlers.NewFridgeHandler(kitchenClient)

# Lobby Flow

	POST /lobbies                  → CreateLobby (returns link and share_url)
	GET  /dietary-form/{lobbyId}   → GetForm
	POST /dietary-form/{lobbyId}   → SubmitForm (validated, then forwarded)
	GET  /lobbies/{id}/participants → ListParticipants

Lobbies are read from the local store first and then from the kitchen API.

# Picker

	POST /lobbies/{id}/spin → Spin (202, or 409 while spinning)
	GET  /lobbies/{id}/spin → GetSpin (?wait=true blocks until settled)

SpinRecorder is passed to picker.OnSettle so settled spins land in the spin
table.

# Errors

Validation failures are 400 with a fields map. Kitchen failures are 502,
except kitchen 404s which pass through. Malformed kitchen lists are served
empty with degraded set.
*/
package handlers

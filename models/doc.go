// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Lobby: an event created by the organizer, stored locally
  - Participant: a preference submission, owned by the kitchen API
  - RoleCard: a participant dressed up with a kitchen role
  - Recipe, RecipeDetail: read-only recipe data from the kitchen API
  - FridgeItem, Discount: inventory and grocery data
  - SpinOutcome: the settled result of one picker spin

Participant keeps the kitchen API's camelCase field names because the same
value is validated here and forwarded unchanged. Everything else uses
snake_case.

# Request Types

  - CreateLobbyRequest: name, date
  - SpinRequest: mode ("wheel" or "recipes")
  - AddFridgeItemRequest: name, quantity, image_url

# Degraded Responses

Responses backed by list endpoints of the kitchen API carry a degraded flag.
When the kitchen API answers with something other than a list, the data is
empty, degraded is true and warning says what went wrong.

# Errors

ErrorResponse is the JSON body for all errors:

	{"error": "Bad Request", "message": "Validation failed", "fields": {"email": "Invalid email format"}}

fields is only present for validation failures.
*/
package models

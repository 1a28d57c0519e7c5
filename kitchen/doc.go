// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package kitchen is the HTTP client for the kitchen API, the external service
that owns participants, recipes, grocery discounts and the fridge.

	client := kitchen.NewClient(cfg.KitchenAPIURL, cfg.KitchenTimeout)
	items, err := client.FridgeItems(ctx)

Every call takes a context; request deadlines set by the server flow through.

# Errors

  - *APIError: the kitchen API answered with a non-2xx status. Message holds
    its {"error"} or {"message"} field when present. IsNotFound matches 404s.
  - ErrMalformed: the answer was not the expected shape, usually an object
    where a list was expected. Callers treat this as degraded data rather
    than a hard failure.

DeleteFridgeItem also returns a 404 *APIError when the kitchen API answers
2xx with an {"error"} body.

# Wire Types

RecipeStub, RecipeInfo, FridgeItem and Discount mirror the kitchen API's
camelCase payloads and convert to package models with Recipe, Detail and
Model.
*/
package kitchen

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
)

type FridgeHandler struct {
	kitchen Fridge
}

func NewFridgeHandler(k Fridge) *FridgeHandler {
	return &FridgeHandler{kitchen: k}
}

// ListItems handles GET /fridge
func (h *FridgeHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	resp, err := h.contents(r.Context())
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load fridge")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// AddItem handles POST /fridge and answers with the refreshed contents
func (h *FridgeHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddFridgeItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	fields := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Name is required"
	}
	if req.Quantity < 0 {
		fields["quantity"] = "Quantity cannot be negative"
	}
	if len(fields) > 0 {
		middleware.ValidationError(w, fields)
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := kitchen.FridgeItem{Name: name, Quantity: quantity, ImageURL: strings.TrimSpace(req.ImageURL)}
	if err := h.kitchen.AddFridgeItem(r.Context(), item); err != nil {
		slog.Error("failed to add fridge item", "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to add item. Please try again.")
		return
	}

	slog.Info("fridge item added", "name", name, "quantity", quantity)

	middleware.JSONResponse(w, http.StatusCreated, h.refreshed(r.Context()))
}

// DeleteItem handles DELETE /fridge/{name}. The item is gone only when the
// kitchen confirms it; otherwise the kitchen's error is returned and no
// list is sent.
func (h *FridgeHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	err := h.kitchen.DeleteFridgeItem(r.Context(), name)
	var apiErr *kitchen.APIError
	if errors.As(err, &apiErr) {
		slog.Warn("kitchen refused fridge delete", "name", name, "status", apiErr.Status, "error", apiErr.Message)
		status := apiErr.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		message := apiErr.Message
		if message == "" {
			message = "Failed to delete item"
		}
		middleware.ErrorResponse(w, status, message)
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to delete item", "name", name)
		return
	}

	slog.Info("fridge item deleted", "name", name)

	middleware.JSONResponse(w, http.StatusOK, h.refreshed(r.Context()))
}

// contents lists the fridge, degrading to an empty list on malformed data
func (h *FridgeHandler) contents(ctx context.Context) (models.FridgeResponse, error) {
	items, err := h.kitchen.FridgeItems(ctx)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("fridge list returned malformed data", "error", err)
		return models.FridgeResponse{
			Items:    []models.FridgeItem{},
			Degraded: true,
			Warning:  "Fridge returned unexpected data",
		}, nil
	}
	if err != nil {
		return models.FridgeResponse{}, err
	}

	return models.FridgeResponse{
		Items: lo.Map(items, func(i kitchen.FridgeItem, _ int) models.FridgeItem { return i.Model() }),
	}, nil
}

// refreshed is contents after a successful write. A failed re-read does
// not undo the write, so it is reported as a warning.
func (h *FridgeHandler) refreshed(ctx context.Context) models.FridgeResponse {
	resp, err := h.contents(ctx)
	if err != nil {
		slog.Warn("failed to refresh fridge", "error", err)
		return models.FridgeResponse{
			Items:    []models.FridgeItem{},
			Degraded: true,
			Warning:  "Saved, but the fridge could not be reloaded",
		}
	}
	return resp
}

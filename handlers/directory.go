// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/models"
)

type GroceryHandler struct {
	kitchen GroceryFeed
}

func NewGroceryHandler(k GroceryFeed) *GroceryHandler {
	return &GroceryHandler{kitchen: k}
}

// ListDiscounts handles GET /groceries
func (h *GroceryHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	stores, err := h.kitchen.GroceryDiscounts(r.Context())
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("grocery discounts returned malformed data", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.GroceriesResponse{
			Stores:   map[string][]models.Discount{},
			Degraded: true,
			Warning:  "Grocery discounts returned unexpected data",
		})
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load grocery discounts")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GroceriesResponse{
		Stores: lo.MapValues(stores, func(items []kitchen.Discount, _ string) []models.Discount {
			return lo.Map(items, func(d kitchen.Discount, _ int) models.Discount { return d.Model() })
		}),
	})
}

type UserHandler struct {
	kitchen UserDirectory
}

func NewUserHandler(k UserDirectory) *UserHandler {
	return &UserHandler{kitchen: k}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.kitchen.ListUsers(r.Context())
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("user list returned malformed data", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.UsersResponse{
			Users:    []string{},
			Degraded: true,
			Warning:  "User list returned unexpected data",
		})
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load users")
		return
	}

	users = lo.Uniq(users)
	sort.Strings(users)
	middleware.JSONResponse(w, http.StatusOK, models.UsersResponse{Users: users})
}

// GetPreferences handles GET /users/preferences?name=
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		middleware.ValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	p, err := h.kitchen.UserPreferences(r.Context(), name)
	if kitchen.IsNotFound(err) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		kitchenFailure(w, r, err, "Failed to load preferences", "name", name)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Picker modes
const (
	SpinModeWheel   = "wheel"
	SpinModeRecipes = "recipes"
)

// Picker states
const (
	SpinStateIdle     = "idle"
	SpinStateSpinning = "spinning"
)

// Domain types

type Lobby struct {
	ID        string    `json:"lobby_id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	DateLabel string    `json:"date_label,omitempty"`
	Link      string    `json:"link"`
	ShareURL  string    `json:"share_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Participant uses the kitchen API's field names since it is forwarded as-is
type Participant struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Specialties         []string `json:"specialties"`
}

type RoleCard struct {
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	PowerLevel          int      `json:"power_level"`
	Specialties         []string `json:"specialties"`
	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

type Recipe struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	ImageURL           string   `json:"image_url"`
	Ingredients        []string `json:"ingredients"`
	DishTypes          []string `json:"dish_types"`
	UsedIngredients    []string `json:"used_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	Likes              int      `json:"likes"`
}

type RecipeIngredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

type RecipeDetail struct {
	ID                  int                `json:"id"`
	Title               string             `json:"title"`
	ImageURL            string             `json:"image_url"`
	Servings            int                `json:"servings"`
	ReadyInMinutes      int                `json:"ready_in_minutes"`
	PreparationMinutes  int                `json:"preparation_minutes"`
	CookingMinutes      int                `json:"cooking_minutes"`
	HealthScore         float64            `json:"health_score"`
	PricePerServing     float64            `json:"price_per_serving"`
	PricePerServingText string             `json:"price_per_serving_text"`
	Diets               []string           `json:"diets"`
	DishTypes           []string           `json:"dish_types"`
	Instructions        string             `json:"instructions"`
	Summary             string             `json:"summary"`
	Ingredients         []RecipeIngredient `json:"ingredients"`
}

type FridgeItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

type Discount struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
}

type SpinOutcome struct {
	ID           string    `json:"id"`
	LobbyID      string    `json:"lobby_id"`
	Mode         string    `json:"mode"`
	Rotation     int       `json:"rotation"`
	SegmentIndex int       `json:"segment_index"`
	Segment      string    `json:"segment"`
	Recipe       *Recipe   `json:"recipe,omitempty"`
	SettledAt    time.Time `json:"settled_at"`
}

// Request types

type CreateLobbyRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type SpinRequest struct {
	Mode string `json:"mode"`
}

type AddFridgeItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

// Response types

type FormOptions struct {
	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Specialties         []string `json:"specialties"`
}

type DietaryFormResponse struct {
	LobbyID string      `json:"lobby_id"`
	Lobby   *Lobby      `json:"lobby"`
	Options FormOptions `json:"options"`
	Warning string      `json:"warning,omitempty"`
}

type SubmitPreferencesResponse struct {
	Message     string      `json:"message"`
	Participant Participant `json:"participant"`
}

// SubmitPreferencesFailure echoes the normalized form so it can be resent
type SubmitPreferencesFailure struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Form    Participant `json:"form"`
}

type ParticipantPage struct {
	LobbyID   string     `json:"lobby_id"`
	Start     int        `json:"start"`
	Total     int        `json:"total"`
	HasPrev   bool       `json:"has_prev"`
	HasNext   bool       `json:"has_next"`
	PrevStart int        `json:"prev_start"`
	NextStart int        `json:"next_start"`
	Visible   []RoleCard `json:"visible"`
	Degraded  bool       `json:"degraded"`
	Warning   string     `json:"warning,omitempty"`
}

type RestrictionsResponse struct {
	LobbyID      string   `json:"lobby_id"`
	Restrictions []string `json:"restrictions"`
	Degraded     bool     `json:"degraded"`
	Warning      string   `json:"warning,omitempty"`
}

type RecommendationResponse struct {
	LobbyID      string   `json:"lobby_id,omitempty"`
	Restrictions []string `json:"restrictions"`
	Recipes      []Recipe `json:"recipes"`
	Degraded     bool     `json:"degraded"`
	Warning      string   `json:"warning,omitempty"`
}

type CategorizedRecipesResponse struct {
	Categories map[string][]Recipe `json:"categories"`
	Degraded   bool                `json:"degraded"`
	Warning    string              `json:"warning,omitempty"`
}

type RecipeListResponse struct {
	Recipes  []Recipe `json:"recipes"`
	Degraded bool     `json:"degraded"`
	Warning  string   `json:"warning,omitempty"`
}

type SpinStateResponse struct {
	LobbyID   string       `json:"lobby_id"`
	State     string       `json:"state"`
	Rotation  int          `json:"rotation"`
	SettlesAt *time.Time   `json:"settles_at,omitempty"`
	Last      *SpinOutcome `json:"last,omitempty"`
}

type SpinHistoryResponse struct {
	LobbyID string        `json:"lobby_id"`
	Spins   []SpinOutcome `json:"spins"`
}

type FridgeResponse struct {
	Items    []FridgeItem `json:"items"`
	Degraded bool         `json:"degraded"`
	Warning  string       `json:"warning,omitempty"`
}

type GroceriesResponse struct {
	Stores   map[string][]Discount `json:"stores"`
	Degraded bool                  `json:"degraded"`
	Warning  string                `json:"warning,omitempty"`
}

type UsersResponse struct {
	Users    []string `json:"users"`
	Degraded bool     `json:"degraded"`
	Warning  string   `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

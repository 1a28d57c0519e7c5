// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kitchen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/models"
)

// Wire types mirror the kitchen API's camelCase payloads.

type LobbyInfo struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type Ingredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

// RecipeStub is a result of the ingredient search
type RecipeStub struct {
	ID                int          `json:"id"`
	Title             string       `json:"title"`
	Image             string       `json:"image"`
	UsedIngredients   []Ingredient `json:"usedIngredients"`
	MissedIngredients []Ingredient `json:"missedIngredients"`
	Likes             int          `json:"likes"`
}

// RecipeInfo is a full recipe record
type RecipeInfo struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image"`
	Servings            int          `json:"servings"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
	PreparationMinutes  int          `json:"preparationMinutes"`
	CookingMinutes      int          `json:"cookingMinutes"`
	HealthScore         float64      `json:"healthScore"`
	PricePerServing     float64      `json:"pricePerServing"`
	DairyFree           bool         `json:"dairyFree"`
	GlutenFree          bool         `json:"glutenFree"`
	Ketogenic           bool         `json:"ketogenic"`
	Vegan               bool         `json:"vegan"`
	Vegetarian          bool         `json:"vegetarian"`
	DishTypes           []string     `json:"dishTypes"`
	Instructions        string       `json:"instructions"`
	Summary             string       `json:"summary"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}

type Discount struct {
	Name  string     `json:"name"`
	Price FlexString `json:"price"`
	Image string     `json:"image"`
}

type FridgeItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl"`
}

// FlexString accepts either a JSON string or a JSON number
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func ingredientNames(in []Ingredient) []string {
	return lo.FilterMap(in, func(i Ingredient, _ int) (string, bool) {
		name := strings.TrimSpace(i.Name)
		return name, name != ""
	})
}

// Recipe converts a full record into the list representation
func (r RecipeInfo) Recipe() models.Recipe {
	title := r.Title
	if title == "" {
		title = "No Title"
	}
	dishTypes := r.DishTypes
	if dishTypes == nil {
		dishTypes = []string{}
	}
	return models.Recipe{
		ID:                 r.ID,
		Title:              title,
		ImageURL:           r.Image,
		Ingredients:        ingredientNames(r.ExtendedIngredients),
		DishTypes:          dishTypes,
		UsedIngredients:    []string{},
		MissingIngredients: []string{},
	}
}

// Recipe converts a search result into the list representation
func (s RecipeStub) Recipe() models.Recipe {
	used := ingredientNames(s.UsedIngredients)
	missing := ingredientNames(s.MissedIngredients)
	return models.Recipe{
		ID:                 s.ID,
		Title:              s.Title,
		ImageURL:           s.Image,
		Ingredients:        append(append([]string{}, used...), missing...),
		DishTypes:          []string{},
		UsedIngredients:    used,
		MissingIngredients: missing,
		Likes:              s.Likes,
	}
}

// Detail converts a full record for the single recipe view.
// Prices arrive in cents.
func (r RecipeInfo) Detail() models.RecipeDetail {
	diets := make([]string, 0, 5)
	for _, d := range []struct {
		on    bool
		label string
	}{
		{r.DairyFree, "Dairy free"},
		{r.GlutenFree, "Gluten free"},
		{r.Ketogenic, "Keto"},
		{r.Vegan, "Vegan"},
		{r.Vegetarian, "Vegetarian"},
	} {
		if d.on {
			diets = append(diets, d.label)
		}
	}

	dollars := r.PricePerServing / 100
	return models.RecipeDetail{
		ID:                  r.ID,
		Title:               r.Title,
		ImageURL:            r.Image,
		Servings:            r.Servings,
		ReadyInMinutes:      r.ReadyInMinutes,
		PreparationMinutes:  r.PreparationMinutes,
		CookingMinutes:      r.CookingMinutes,
		HealthScore:         r.HealthScore,
		PricePerServing:     dollars,
		PricePerServingText: "$" + humanize.FormatFloat("#,###.##", dollars),
		Diets:               diets,
		DishTypes:           lo.Ternary(r.DishTypes == nil, []string{}, r.DishTypes),
		Instructions:        r.Instructions,
		Summary:             r.Summary,
		Ingredients: lo.Map(r.ExtendedIngredients, func(i Ingredient, _ int) models.RecipeIngredient {
			return models.RecipeIngredient{ID: i.ID, Name: i.Name, Original: i.Original, Amount: i.Amount, Unit: i.Unit}
		}),
	}
}

func (d Discount) Model() models.Discount {
	return models.Discount{Name: d.Name, Price: string(d.Price), ImageURL: d.Image}
}

func (f FridgeItem) Model() models.FridgeItem {
	return models.FridgeItem{Name: f.Name, Quantity: f.Quantity, ImageURL: f.ImageURL}
}

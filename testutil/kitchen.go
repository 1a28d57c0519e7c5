// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/models"
)

// FakeKitchen is an in-process kitchen API. Configure the exported fields
// before issuing requests.
type FakeKitchen struct {
	Server *httptest.Server

	Lobbies      map[string]kitchen.LobbyInfo
	Participants map[string][]models.Participant
	Stubs        []kitchen.RecipeStub
	Recipes      map[int]kitchen.RecipeInfo
	Fridge       []kitchen.FridgeItem
	Discounts    map[string][]kitchen.Discount
	Users        map[string]models.Participant

	mu        sync.Mutex
	failures  map[string]int
	raw       map[string]string
	calls     map[string]int
	submitted map[string][]models.Participant
}

// NewFakeKitchen starts a fake kitchen API that is shut down with the test
func NewFakeKitchen(t *testing.T) *FakeKitchen {
	t.Helper()

	fk := &FakeKitchen{
		Lobbies:      map[string]kitchen.LobbyInfo{},
		Participants: map[string][]models.Participant{},
		Recipes:      map[int]kitchen.RecipeInfo{},
		Discounts:    map[string][]kitchen.Discount{},
		Users:        map[string]models.Participant{},
		failures:     map[string]int{},
		raw:          map[string]string{},
		calls:        map[string]int{},
		submitted:    map[string][]models.Participant{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /lobby/{id}", fk.getLobby)
	mux.HandleFunc("POST /submit-dietary-info/{id}", fk.submit)
	mux.HandleFunc("GET /get-participants/{id}", fk.participants)
	mux.HandleFunc("GET /recipes/getRecipesFromIngredientsForRecommendations", fk.stubs)
	mux.HandleFunc("GET /recipes/getRecipesFromIngredients", fk.stubs)
	mux.HandleFunc("GET /recipes/getBulkRecipeInformation", fk.bulk)
	mux.HandleFunc("GET /recipes/getRecipeInformation/{id}", fk.recipe)
	mux.HandleFunc("GET /recipes/groceries", fk.groceries)
	mux.HandleFunc("GET /recipes/getFridgeItems", fk.fridgeItems)
	mux.HandleFunc("POST /recipes/addFridgeItem", fk.addFridgeItem)
	mux.HandleFunc("POST /recipes/deleteFridgeItem", fk.deleteFridgeItem)
	mux.HandleFunc("GET /list-users", fk.listUsers)
	mux.HandleFunc("GET /get-user-preferences", fk.userPreferences)

	fk.Server = httptest.NewServer(fk.intercept(mux))
	t.Cleanup(fk.Server.Close)
	return fk
}

// Client returns a kitchen client pointed at the fake
func (fk *FakeKitchen) Client() *kitchen.Client {
	return kitchen.NewClient(fk.Server.URL, 2*time.Second)
}

// FailWith makes every request to path answer with status
func (fk *FakeKitchen) FailWith(path string, status int) {
	fk.mu.Lock()
	defer fk.mu.Unlock()
	fk.failures[path] = status
}

// RespondRaw makes every request to path answer 200 with body
func (fk *FakeKitchen) RespondRaw(path, body string) {
	fk.mu.Lock()
	defer fk.mu.Unlock()
	fk.raw[path] = body
}

// Calls reports how many requests reached path
func (fk *FakeKitchen) Calls(path string) int {
	fk.mu.Lock()
	defer fk.mu.Unlock()
	return fk.calls[path]
}

// Submitted returns the participants posted for a lobby
func (fk *FakeKitchen) Submitted(lobbyID string) []models.Participant {
	fk.mu.Lock()
	defer fk.mu.Unlock()
	return append([]models.Participant{}, fk.submitted[lobbyID]...)
}

func (fk *FakeKitchen) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fk.mu.Lock()
		fk.calls[r.URL.Path]++
		status, failing := fk.failures[r.URL.Path]
		body, overridden := fk.raw[r.URL.Path]
		fk.mu.Unlock()

		switch {
		case failing:
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		case overridden:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (fk *FakeKitchen) getLobby(w http.ResponseWriter, r *http.Request) {
	info, ok := fk.Lobbies[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Lobby not found"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (fk *FakeKitchen) submit(w http.ResponseWriter, r *http.Request) {
	var p models.Participant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	fk.mu.Lock()
	fk.submitted[r.PathValue("id")] = append(fk.submitted[r.PathValue("id")], p)
	fk.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Dietary info submitted"})
}

// participants lists seeded participants followed by submitted ones
func (fk *FakeKitchen) participants(w http.ResponseWriter, r *http.Request) {
	lobbyID := r.PathValue("id")
	fk.mu.Lock()
	list := append(append([]models.Participant{}, fk.Participants[lobbyID]...), fk.submitted[lobbyID]...)
	fk.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": list})
}

func (fk *FakeKitchen) stubs(w http.ResponseWriter, r *http.Request) {
	stubs := fk.Stubs
	if stubs == nil {
		stubs = []kitchen.RecipeStub{}
	}
	writeJSON(w, http.StatusOK, stubs)
}

func (fk *FakeKitchen) bulk(w http.ResponseWriter, r *http.Request) {
	infos := []kitchen.RecipeInfo{}
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if info, ok := fk.Recipes[id]; ok {
			infos = append(infos, info)
		}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (fk *FakeKitchen) recipe(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	info, ok := fk.Recipes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Recipe not found"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (fk *FakeKitchen) groceries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fk.Discounts)
}

func (fk *FakeKitchen) fridgeItems(w http.ResponseWriter, r *http.Request) {
	fk.mu.Lock()
	items := append([]kitchen.FridgeItem{}, fk.Fridge...)
	fk.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (fk *FakeKitchen) addFridgeItem(w http.ResponseWriter, r *http.Request) {
	var item kitchen.FridgeItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}
	fk.mu.Lock()
	fk.Fridge = append(fk.Fridge, item)
	fk.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item added"})
}

// deleteFridgeItem answers 200 with an error field for unknown items, the
// way the kitchen API does.
func (fk *FakeKitchen) deleteFridgeItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ingredient string `json:"ingredient"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}

	fk.mu.Lock()
	defer fk.mu.Unlock()
	for i, item := range fk.Fridge {
		if item.Name == body.Ingredient {
			fk.Fridge = append(fk.Fridge[:i], fk.Fridge[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"error": "not found"})
}

func (fk *FakeKitchen) listUsers(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(fk.Users))
	for name := range fk.Users {
		names = append(names, name)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": names})
}

func (fk *FakeKitchen) userPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := fk.Users[r.URL.Query().Get("name")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

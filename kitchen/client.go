// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/models"
)

// maxBodyBytes caps how much of a kitchen response is read
const maxBodyBytes = 10 << 20

// ErrMalformed means the kitchen API answered with an unexpected shape,
// typically an object where a list was expected.
var ErrMalformed = errors.New("malformed kitchen response")

// APIError is a non-success answer from the kitchen API
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kitchen %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("kitchen %s: status %d: %s", e.Path, e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the kitchen API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the kitchen API
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured kitchen origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and returns the raw body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kitchen %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	slog.Debug("kitchen call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Path: path, Message: errorMessage(raw)}
	}

	return raw, nil
}

// errorMessage pulls {"error": ...} or {"message": ...} out of a body
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// decodeList decodes a JSON array. When the body is an object and key is
// non-empty, the array under that key is used instead.
func decodeList(path string, raw []byte, key string, v interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' && key != "" {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return fmt.Errorf("%s: %w", path, ErrMalformed)
		}
		trimmed = bytes.TrimSpace(wrapper[key])
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return fmt.Errorf("%s: %w", path, ErrMalformed)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return nil
}

// GetLobby fetches lobby metadata kept by the kitchen API
func (c *Client) GetLobby(ctx context.Context, lobbyID string) (LobbyInfo, error) {
	path := "/lobby/" + url.PathEscape(lobbyID)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return LobbyInfo{}, err
	}

	var info LobbyInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return LobbyInfo{}, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return info, nil
}

// SubmitPreferences records a participant for a lobby
func (c *Client) SubmitPreferences(ctx context.Context, lobbyID string, p models.Participant) error {
	_, err := c.do(ctx, http.MethodPost, "/submit-dietary-info/"+url.PathEscape(lobbyID), nil, p)
	return err
}

// ListParticipants returns everyone who submitted preferences for a lobby
func (c *Client) ListParticipants(ctx context.Context, lobbyID string) ([]models.Participant, error) {
	path := "/get-participants/" + url.PathEscape(lobbyID)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var participants []models.Participant
	if err := decodeList(path, raw, "participants", &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// RecipesForRecommendations is the first stage of the recommendation fetch
func (c *Client) RecipesForRecommendations(ctx context.Context) ([]RecipeStub, error) {
	const path = "/recipes/getRecipesFromIngredientsForRecommendations"
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var stubs []RecipeStub
	if err := decodeList(path, raw, "results", &stubs); err != nil {
		return nil, err
	}
	return stubs, nil
}

// RecipesFromIngredients searches recipes by what is on hand
func (c *Client) RecipesFromIngredients(ctx context.Context, ingredients []string) ([]RecipeStub, error) {
	const path = "/recipes/getRecipesFromIngredients"
	query := url.Values{}
	if len(ingredients) > 0 {
		query.Set("ingredients", strings.Join(ingredients, ","))
	}

	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var stubs []RecipeStub
	if err := decodeList(path, raw, "results", &stubs); err != nil {
		return nil, err
	}
	return stubs, nil
}

// BulkRecipeInformation fetches full records for the given ids in one call
func (c *Client) BulkRecipeInformation(ctx context.Context, ids []int) ([]RecipeInfo, error) {
	if len(ids) == 0 {
		return []RecipeInfo{}, nil
	}

	const path = "/recipes/getBulkRecipeInformation"
	csv := strings.Join(lo.Map(ids, func(id int, _ int) string {
		return strconv.Itoa(id)
	}), ",")

	raw, err := c.do(ctx, http.MethodGet, path, url.Values{"ids": {csv}}, nil)
	if err != nil {
		return nil, err
	}

	var infos []RecipeInfo
	if err := decodeList(path, raw, "", &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// RecipeInformation fetches one recipe
func (c *Client) RecipeInformation(ctx context.Context, id int) (RecipeInfo, error) {
	path := "/recipes/getRecipeInformation/" + strconv.Itoa(id)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return RecipeInfo{}, err
	}

	var info RecipeInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return RecipeInfo{}, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return info, nil
}

// GroceryDiscounts returns discounted items grouped by store
func (c *Client) GroceryDiscounts(ctx context.Context) (map[string][]Discount, error) {
	const path = "/recipes/groceries"
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	stores := map[string][]Discount{}
	if err := json.Unmarshal(raw, &stores); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return stores, nil
}

// FridgeItems lists the shared fridge
func (c *Client) FridgeItems(ctx context.Context) ([]FridgeItem, error) {
	const path = "/recipes/getFridgeItems"
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var items []FridgeItem
	if err := decodeList(path, raw, "", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddFridgeItem stores a new item in the fridge
func (c *Client) AddFridgeItem(ctx context.Context, item FridgeItem) error {
	_, err := c.do(ctx, http.MethodPost, "/recipes/addFridgeItem", nil, item)
	return err
}

// DeleteFridgeItem removes an item by name. A 2xx answer carrying an
// error field is treated as a failed delete.
func (c *Client) DeleteFridgeItem(ctx context.Context, name string) error {
	const path = "/recipes/deleteFridgeItem"
	raw, err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"ingredient": name})
	if err != nil {
		return err
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return &APIError{Status: http.StatusNotFound, Path: path, Message: body.Error}
	}
	return nil
}

// ListUsers returns the names of everyone with stored preferences
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	const path = "/list-users"
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var users []string
	if err := decodeList(path, raw, "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserPreferences returns the stored preferences for one user
func (c *Client) UserPreferences(ctx context.Context, name string) (models.Participant, error) {
	const path = "/get-user-preferences"
	raw, err := c.do(ctx, http.MethodGet, path, url.Values{"name": {name}}, nil)
	if err != nil {
		return models.Participant{}, err
	}

	var p models.Participant
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Participant{}, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	return p, nil
}

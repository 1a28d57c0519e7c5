// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/mealpick/cache"
	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/models"
)

// Source is the part of the kitchen API the recommender reads
type Source interface {
	ListParticipants(ctx context.Context, lobbyID string) ([]models.Participant, error)
	RecipesForRecommendations(ctx context.Context) ([]kitchen.RecipeStub, error)
	BulkRecipeInformation(ctx context.Context, ids []int) ([]kitchen.RecipeInfo, error)
}

// Batch is a candidate list. Degraded is set when the kitchen API returned
// an unusable shape and the list is empty because of it.
type Batch struct {
	Recipes  []models.Recipe
	Degraded bool
	Warning  string
}

type Result struct {
	Restrictions RestrictionSet
	Batch
}

type Recommender struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
}

func NewRecommender(source Source, c cache.Cache, ttl time.Duration) *Recommender {
	return &Recommender{source: source, cache: c, ttl: ttl}
}

func cacheKey(id int) string {
	return "recipe:" + strconv.Itoa(id)
}

// Candidates runs the two-stage fetch. Stage two is skipped when stage one
// yields no ids.
func (r *Recommender) Candidates(ctx context.Context) (Batch, error) {
	stubs, err := r.source.RecipesForRecommendations(ctx)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("recommendation search returned malformed data", "error", err)
		return degraded("Recipe search returned unexpected data"), nil
	}
	if err != nil {
		return Batch{}, fmt.Errorf("fetch recommendation candidates: %w", err)
	}

	ids := lo.Uniq(lo.FilterMap(stubs, func(s kitchen.RecipeStub, _ int) (int, bool) {
		return s.ID, s.ID > 0
	}))
	if len(ids) == 0 {
		return Batch{Recipes: []models.Recipe{}}, nil
	}

	infos, err := r.details(ctx, ids)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("bulk recipe information returned malformed data", "error", err)
		return degraded("Recipe details returned unexpected data"), nil
	}
	if err != nil {
		return Batch{}, fmt.Errorf("fetch recipe details: %w", err)
	}

	// First occurrence wins when the search repeats an id
	stubsByID := lo.KeyBy(lo.UniqBy(stubs, func(s kitchen.RecipeStub) int { return s.ID }),
		func(s kitchen.RecipeStub) int { return s.ID })
	recipes := lo.Map(infos, func(info kitchen.RecipeInfo, _ int) models.Recipe {
		recipe := info.Recipe()
		if stub, ok := stubsByID[info.ID]; ok {
			fromStub := stub.Recipe()
			recipe.UsedIngredients = fromStub.UsedIngredients
			recipe.MissingIngredients = fromStub.MissingIngredients
			recipe.Likes = fromStub.Likes
		}
		return recipe
	})

	return Batch{Recipes: recipes}, nil
}

// ForLobby fetches participants and candidates concurrently, then filters
// once both have resolved. An unreadable participant list yields no
// recipes, since nothing can be checked against the guests' restrictions.
func (r *Recommender) ForLobby(ctx context.Context, lobbyID string) (Result, error) {
	var guests Result
	var batch Batch

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		guests, err = r.Restrictions(gctx, lobbyID)
		return err
	})
	g.Go(func() error {
		var err error
		batch, err = r.Candidates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if guests.Degraded {
		return guests, nil
	}
	batch.Recipes = FilterForLobby(batch.Recipes, guests.Restrictions)

	return Result{Restrictions: guests.Restrictions, Batch: batch}, nil
}

// Restrictions derives the restriction set for a lobby. A malformed
// participant list gives an empty set and a degraded, empty batch.
func (r *Recommender) Restrictions(ctx context.Context, lobbyID string) (Result, error) {
	participants, err := r.source.ListParticipants(ctx, lobbyID)
	if errors.Is(err, kitchen.ErrMalformed) {
		slog.Warn("participant list returned malformed data", "lobby_id", lobbyID, "error", err)
		return Result{
			Restrictions: RestrictionSet{},
			Batch:        degraded("Participants returned unexpected data"),
		}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("fetch participants: %w", err)
	}
	return Result{Restrictions: NewRestrictionSet(participants)}, nil
}

// details returns full records in ids order, serving what it can from the
// cache. Identical concurrent misses share one bulk call.
func (r *Recommender) details(ctx context.Context, ids []int) ([]kitchen.RecipeInfo, error) {
	found := make(map[int]kitchen.RecipeInfo, len(ids))
	missing := make([]int, 0, len(ids))

	for _, id := range ids {
		info, ok := r.cached(ctx, id)
		if ok {
			found[id] = info
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		key := strings.Join(lo.Map(missing, func(id int, _ int) string { return strconv.Itoa(id) }), ",")
		v, err, shared := r.group.Do(key, func() (interface{}, error) {
			// Shared callers must not fail because the first one went away
			return r.source.BulkRecipeInformation(context.WithoutCancel(ctx), missing)
		})
		if err != nil {
			return nil, err
		}
		if shared {
			slog.Debug("bulk recipe fetch shared", "ids", key)
		}

		for _, info := range v.([]kitchen.RecipeInfo) {
			found[info.ID] = info
			r.store(ctx, info)
		}
	}

	return lo.FilterMap(ids, func(id int, _ int) (kitchen.RecipeInfo, bool) {
		info, ok := found[id]
		return info, ok
	}), nil
}

func (r *Recommender) cached(ctx context.Context, id int) (kitchen.RecipeInfo, bool) {
	if r.cache == nil {
		return kitchen.RecipeInfo{}, false
	}

	raw, ok, err := r.cache.Get(ctx, cacheKey(id))
	if err != nil {
		slog.Warn("recipe cache read failed", "recipe_id", id, "error", err)
		return kitchen.RecipeInfo{}, false
	}
	if !ok {
		return kitchen.RecipeInfo{}, false
	}

	var info kitchen.RecipeInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return kitchen.RecipeInfo{}, false
	}
	return info, true
}

func (r *Recommender) store(ctx context.Context, info kitchen.RecipeInfo) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(info.ID), raw, r.ttl); err != nil {
		slog.Warn("recipe cache write failed", "recipe_id", info.ID, "error", err)
	}
}

func degraded(warning string) Batch {
	return Batch{Recipes: []models.Recipe{}, Degraded: true, Warning: warning}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recipes

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/models"
)

const MainCourse = "main course"

// RestrictionSet is the case-folded union of every participant's allergies
// and dietary restrictions. It is derived per request and never stored.
type RestrictionSet map[string]struct{}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewRestrictionSet collects terms from all participants, dropping blanks
func NewRestrictionSet(participants []models.Participant) RestrictionSet {
	set := RestrictionSet{}
	for _, p := range participants {
		for _, term := range append(append([]string{}, p.Allergies...), p.DietaryRestrictions...) {
			if t := normalize(term); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return set
}

func (s RestrictionSet) Contains(term string) bool {
	_, ok := s[normalize(term)]
	return ok
}

// Terms returns the set in sorted order
func (s RestrictionSet) Terms() []string {
	terms := lo.Keys(s)
	sort.Strings(terms)
	return terms
}

// Excluded reports whether a recipe conflicts with the set: the lower-cased
// title contains a term, or an ingredient name equals a term.
func Excluded(r models.Recipe, set RestrictionSet) bool {
	if len(set) == 0 {
		return false
	}

	title := strings.ToLower(r.Title)
	for term := range set {
		if strings.Contains(title, term) {
			return true
		}
	}

	return lo.SomeBy(r.Ingredients, func(ingredient string) bool {
		return set.Contains(ingredient)
	})
}

// Allowed drops every recipe that conflicts with the set, keeping order
func Allowed(recipes []models.Recipe, set RestrictionSet) []models.Recipe {
	return lo.Reject(recipes, func(r models.Recipe, _ int) bool {
		return Excluded(r, set)
	})
}

func IsMainCourse(r models.Recipe) bool {
	return lo.SomeBy(r.DishTypes, func(t string) bool {
		return normalize(t) == MainCourse
	})
}

// FilterForLobby keeps main courses that pass the restriction set
func FilterForLobby(recipes []models.Recipe, set RestrictionSet) []models.Recipe {
	return Allowed(lo.Filter(recipes, func(r models.Recipe, _ int) bool {
		return IsMainCourse(r)
	}), set)
}

// Categorize groups recipes under each of their dish types. A recipe with
// several dish types appears in each group.
func Categorize(recipes []models.Recipe) map[string][]models.Recipe {
	categories := map[string][]models.Recipe{}
	for _, r := range recipes {
		for _, t := range lo.Uniq(r.DishTypes) {
			categories[t] = append(categories[t], r)
		}
	}
	return categories
}

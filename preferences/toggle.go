// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package preferences

import (
	"slices"
	"strings"
)

// Key folds case and surrounding space so "Nuts" and " nuts" collide
func Key(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ToggleSet is an ordered selection of options. Membership is decided by
// Key, so custom entries cannot duplicate a catalog option in another case.
type ToggleSet struct {
	canonical map[string]string
	values    []string
	selected  map[string]struct{}
}

// NewToggleSet builds an empty selection over the given catalog
func NewToggleSet(catalog []string) *ToggleSet {
	canonical := make(map[string]string, len(catalog))
	for _, option := range catalog {
		canonical[Key(option)] = option
	}
	return &ToggleSet{canonical: canonical, selected: map[string]struct{}{}}
}

func (s *ToggleSet) spelling(v string) string {
	if c, ok := s.canonical[Key(v)]; ok {
		return c
	}
	return strings.TrimSpace(v)
}

// Toggle adds v when absent and removes it when present. It reports whether
// v is selected afterwards. Blank values are ignored.
func (s *ToggleSet) Toggle(v string) bool {
	k := Key(v)
	if k == "" {
		return false
	}

	if _, ok := s.selected[k]; ok {
		delete(s.selected, k)
		s.values = slices.DeleteFunc(s.values, func(existing string) bool {
			return Key(existing) == k
		})
		return false
	}

	s.selected[k] = struct{}{}
	s.values = append(s.values, s.spelling(v))
	return true
}

// AddCustom appends free text. It returns false for blank input or when the
// value collides with something already selected.
func (s *ToggleSet) AddCustom(v string) bool {
	k := Key(v)
	if k == "" || s.Has(v) {
		return false
	}

	s.selected[k] = struct{}{}
	s.values = append(s.values, s.spelling(v))
	return true
}

func (s *ToggleSet) Has(v string) bool {
	_, ok := s.selected[Key(v)]
	return ok
}

func (s *ToggleSet) Len() int {
	return len(s.values)
}

// Values returns the selection in insertion order
func (s *ToggleSet) Values() []string {
	return append([]string{}, s.values...)
}

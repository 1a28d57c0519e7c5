// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package preferences

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/roles"
)

const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Invalid email format"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	Allergies = []string{"Nuts", "Dairy", "Eggs", "Shellfish", "Soy", "Wheat", "Fish", "Sesame"}

	DietaryRestrictions = []string{"Vegetarian", "Vegan", "Gluten-free", "Kosher", "Halal", "Keto", "Paleo"}
)

// Specialties lists every specialty offered by a kitchen role
func Specialties() []string {
	return lo.Uniq(lo.FlatMap(roles.Catalog, func(r roles.Role, _ int) []string {
		return r.Specialties
	}))
}

// Options returns the selectable catalogs for the dietary form
func Options() models.FormOptions {
	return models.FormOptions{
		Allergies:           append([]string{}, Allergies...),
		DietaryRestrictions: append([]string{}, DietaryRestrictions...),
		Specialties:         Specialties(),
	}
}

// Validate returns one message per invalid field, or nil when the form can
// be submitted.
func Validate(p models.Participant) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = MsgNameRequired
	}

	email := strings.TrimSpace(p.Email)
	switch {
	case email == "":
		fields["email"] = MsgEmailRequired
	case !emailPattern.MatchString(email):
		fields["email"] = MsgEmailInvalid
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Normalize trims the identity fields and folds every list through a
// ToggleSet so duplicates in any case collapse to one entry.
func Normalize(p models.Participant) models.Participant {
	return models.Participant{
		Name:                strings.TrimSpace(p.Name),
		Email:               strings.TrimSpace(p.Email),
		Allergies:           collect(Allergies, p.Allergies),
		DietaryRestrictions: collect(DietaryRestrictions, p.DietaryRestrictions),
		Specialties:         collect(Specialties(), p.Specialties),
	}
}

func collect(catalog, values []string) []string {
	set := NewToggleSet(catalog)
	for _, v := range values {
		set.AddCustom(v)
	}
	return set.Values()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roles

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/danielhkuo/mealpick/models"
)

// WindowSize is how many cards the viewer shows at once
const WindowSize = 3

type Role struct {
	Title       string
	Description string
	Specialties []string
	PowerLevel  int
}

var Catalog = []Role{
	{
		Title:       "Head Chef",
		Description: "The kitchen maestro! Creates amazing dishes and runs the show.",
		Specialties: []string{"Secret Recipes", "Magic Sauces", "Perfect Seasoning"},
		PowerLevel:  5,
	},
	{
		Title:       "Sous Chef",
		Description: "Right-hand kitchen ninja and master of all trades.",
		Specialties: []string{"Quick Chopping", "Taste Testing", "Kitchen Magic"},
		PowerLevel:  4,
	},
	{
		Title:       "Pastry Chef",
		Description: "Sweet treats wizard and dessert mastermind.",
		Specialties: []string{"Cookie Magic", "Cake Artistry", "Sugar Spells"},
		PowerLevel:  4,
	},
	{
		Title:       "Saucier",
		Description: "Sauce sorcerer who makes everything delicious.",
		Specialties: []string{"Flavor Bombs", "Secret Ingredients", "Tasty Potions"},
		PowerLevel:  3,
	},
	{
		Title:       "Grill Chef",
		Description: "Master of flames and searing perfection.",
		Specialties: []string{"Fire Control", "Grill Marks", "Smoke Master"},
		PowerLevel:  3,
	},
	{
		Title:       "Fish Chef",
		Description: "Seafood specialist and fish whisperer.",
		Specialties: []string{"Ocean Magic", "Fresh Catches", "Scale Skills"},
		PowerLevel:  3,
	},
}

// LobbySource returns a random source derived from the lobby ID, so the
// same lobby deals the same cards on every page load.
func LobbySource(lobbyID string) rand.Source {
	h := xxhash.Sum64String(lobbyID)
	return rand.NewPCG(h, h^0x9e3779b97f4a7c15)
}

// Dealer assigns roles to participants from an injected source
type Dealer struct {
	rng *rand.Rand
}

func NewDealer(src rand.Source) *Dealer {
	return &Dealer{rng: rand.New(src)}
}

// Deal maps participants to cards in order. Power level is 1 to 5.
func (d *Dealer) Deal(participants []models.Participant) []models.RoleCard {
	cards := make([]models.RoleCard, 0, len(participants))
	for _, p := range participants {
		role := Catalog[d.rng.IntN(len(Catalog))]

		specialties := p.Specialties
		if len(specialties) == 0 {
			specialties = role.Specialties
		}

		cards = append(cards, models.RoleCard{
			Name:                p.Name,
			Email:               p.Email,
			Title:               role.Title,
			Description:         role.Description,
			PowerLevel:          1 + d.rng.IntN(5),
			Specialties:         append([]string{}, specialties...),
			Allergies:           nonNil(p.Allergies),
			DietaryRestrictions: nonNil(p.DietaryRestrictions),
		})
	}
	return cards
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// Window clamps start to [0, max(0, total-size)] and returns the half-open
// range to show. hi-lo is never negative and never exceeds size.
func Window(total, start, size int) (lo, hi int) {
	if total <= 0 || size <= 0 {
		return 0, 0
	}
	maxStart := max(0, total-size)
	lo = min(max(start, 0), maxStart)
	hi = min(lo+size, total)
	return lo, hi
}

// Page slices cards into the visible window starting at start
func Page(lobbyID string, cards []models.RoleCard, start int) models.ParticipantPage {
	lo, hi := Window(len(cards), start, WindowSize)
	return models.ParticipantPage{
		LobbyID:   lobbyID,
		Start:     lo,
		Total:     len(cards),
		HasPrev:   lo > 0,
		HasNext:   hi < len(cards),
		PrevStart: Prev(len(cards), lo),
		NextStart: Next(len(cards), lo),
		Visible:   append([]models.RoleCard{}, cards[lo:hi]...),
	}
}

// Next and Prev move the window by one card, clamped at both ends
func Next(total, start int) int {
	lo, _ := Window(total, start+1, WindowSize)
	return lo
}

func Prev(total, start int) int {
	lo, _ := Window(total, start-1, WindowSize)
	return lo
}

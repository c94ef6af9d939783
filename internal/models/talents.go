package models

import (
	"fmt"
	"math/rand/v2"
)

// Rarity is a display tier for talents. It has no mechanical effect.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Talent is an immutable catalog entry. Its modifiers are applied once to
// the starting attributes; after that the talent only steers the prompt.
type Talent struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Rarity        Rarity       `json:"rarity"`
	StatModifiers *StatChanges `json:"statModifiers,omitempty"`
}

const (
	// MaxTalents is how many talents a run may start with.
	MaxTalents = 3
	// TalentRollSize is how many options one roll presents.
	TalentRollSize = 10
	// TotalStatPoints is the allocation budget for starting attributes.
	TotalStatPoints = 20
)

// TalentPool is the fixed catalog players draw from.
var TalentPool = []Talent{
	{ID: "1", Name: "Chosen One", Description: "All attributes +5", Rarity: RarityLegendary,
		StatModifiers: &StatChanges{Health: 5, Intelligence: 5, Charm: 5, Wealth: 5, Happiness: 5}},
	{ID: "2", Name: "Premature Birth", Description: "Health -10, intelligence +5", Rarity: RarityCommon,
		StatModifiers: &StatChanges{Health: -10, Intelligence: 5}},
	{ID: "3", Name: "Tycoon's Heir", Description: "Wealth +30, happiness +10", Rarity: RarityLegendary,
		StatModifiers: &StatChanges{Wealth: 30, Happiness: 10}},
	{ID: "4", Name: "Born Streamer", Description: "Charm +15", Rarity: RarityRare,
		StatModifiers: &StatChanges{Charm: 15}},
	{ID: "5", Name: "Scholarly Family", Description: "Intelligence +10, happiness -5", Rarity: RarityRare,
		StatModifiers: &StatChanges{Intelligence: 10, Happiness: -5}},
	{ID: "6", Name: "Optimist", Description: "Happiness +20", Rarity: RarityRare,
		StatModifiers: &StatChanges{Happiness: 20}},
	{ID: "7", Name: "Fragile Beauty", Description: "Health -15, charm +20", Rarity: RarityEpic,
		StatModifiers: &StatChanges{Health: -15, Charm: 20}},
	{ID: "8", Name: "Lucky Koi", Description: "Extraordinary luck, pleasant surprises happen", Rarity: RarityEpic,
		StatModifiers: &StatChanges{Happiness: 5}},
	{ID: "9", Name: "Cyber Psychosis", Description: "Intelligence +20, health -10, unstable mind", Rarity: RarityEpic,
		StatModifiers: &StatChanges{Intelligence: 20, Health: -10}},
	{ID: "10", Name: "Iron Laborer", Description: "Health +10, wealth -5", Rarity: RarityCommon,
		StatModifiers: &StatChanges{Health: 10, Wealth: -5}},
	{ID: "11", Name: "Alien", Description: "You never felt like you belong on Earth", Rarity: RarityLegendary,
		StatModifiers: &StatChanges{Intelligence: 10, Charm: -10}},
	{ID: "12", Name: "Magical Girl", Description: "A hidden magical power sleeps in you", Rarity: RarityLegendary,
		StatModifiers: &StatChanges{Charm: 10, Health: 5}},
	{ID: "13", Name: "Only Child", Description: "Wealth +5, happiness +5", Rarity: RarityCommon,
		StatModifiers: &StatChanges{Wealth: 5, Happiness: 5}},
	{ID: "14", Name: "Foodie", Description: "Health -5, happiness +10", Rarity: RarityCommon,
		StatModifiers: &StatChanges{Health: -5, Happiness: 10}},
	{ID: "15", Name: "Rogue Chemist", Description: "Intelligence +15, questionable morals", Rarity: RarityRare,
		StatModifiers: &StatChanges{Intelligence: 15}},
}

// RollTalents returns a random selection of TalentRollSize talents from the
// pool, in shuffled order. The pool itself is never mutated.
func RollTalents() []Talent {
	shuffled := make([]Talent, len(TalentPool))
	copy(shuffled, TalentPool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > TalentRollSize {
		shuffled = shuffled[:TalentRollSize]
	}
	return shuffled
}

// FindTalents resolves catalog ids to talents, rejecting unknown ids and
// duplicates.
func FindTalents(ids []string) ([]Talent, error) {
	talents := make([]Talent, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("duplicate talent id %q", id)
		}
		seen[id] = true
		found := false
		for _, t := range TalentPool {
			if t.ID == id {
				talents = append(talents, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown talent id %q", id)
		}
	}
	return talents, nil
}

// ApplyTalentModifiers adds each talent's one-time modifiers to the base
// allocation. Every attribute is floored at 0 after each talent, matching
// how the start screen previews the final stats.
func ApplyTalentModifiers(base Stats, talents []Talent) Stats {
	out := base
	for _, t := range talents {
		if t.StatModifiers == nil {
			continue
		}
		out.Health = max(0, out.Health+t.StatModifiers.Health)
		out.Intelligence = max(0, out.Intelligence+t.StatModifiers.Intelligence)
		out.Charm = max(0, out.Charm+t.StatModifiers.Charm)
		out.Wealth = max(0, out.Wealth+t.StatModifiers.Wealth)
		out.Happiness = max(0, out.Happiness+t.StatModifiers.Happiness)
	}
	return out
}

package models

import "strings"

// DefaultTurnContent stands in for a missing narrative so the history
// never shows an empty year.
const DefaultTurnContent = "An uneventful year passes."

// TurnResult is the normalized outcome of one turn-generation call. It is
// the single contract every backend adapter must produce, regardless of how
// well-formed the underlying model output was.
type TurnResult struct {
	Content      string         `json:"content"`
	StatChanges  *StatChanges   `json:"statChanges,omitempty"`
	IsDeath      bool           `json:"isDeath"`
	DeathReason  string         `json:"deathReason,omitempty"`
	Achievements []string       `json:"achievements,omitempty"`
	Choices      []ChoiceOption `json:"choices,omitempty"`
}

// Normalize fills the optional fields a parse may have left nil so that
// consumers never have to guard against missing slices or deltas, and
// substitutes the placeholder narrative when content is blank.
func (t *TurnResult) Normalize() {
	if strings.TrimSpace(t.Content) == "" {
		t.Content = DefaultTurnContent
	}
	if t.StatChanges == nil {
		t.StatChanges = &StatChanges{}
	}
	if t.Achievements == nil {
		t.Achievements = []string{}
	}
	if t.Choices == nil {
		t.Choices = []ChoiceOption{}
	}
	if !t.IsDeath {
		t.DeathReason = ""
	}
}

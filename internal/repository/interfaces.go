package repository

import (
	"context"
	"errors"

	"liferestart-server/internal/models"
)

var (
	// ErrSessionNotFound is returned for unknown or discarded game sessions.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrPreferenceNotFound is returned when no model preference was ever saved.
	ErrPreferenceNotFound = errors.New("llm preference not found")
)

// SessionRepository stores live game sessions. All mutation goes through
// Update, which runs the callback under the store's lock; that is the
// single serialized entry point the state machine relies on.
type SessionRepository interface {
	// Create stores a new session and returns its id.
	Create(ctx context.Context, state *models.GameState) (string, error)
	// Snapshot returns a deep copy of the session state, safe to hand out.
	Snapshot(ctx context.Context, id string) (*models.GameState, error)
	// Update applies fn to the session state atomically. An error from fn
	// is returned as-is and leaves the state untouched only if fn itself
	// did not modify it; callers mutate last for that reason.
	Update(ctx context.Context, id string, fn func(*models.GameState) error) error
}

// PreferenceRepository persists the player's backend selection.
type PreferenceRepository interface {
	// GetSelection returns the saved selection, ErrPreferenceNotFound when
	// nothing was saved, or a decode error for a corrupt blob. Callers are
	// expected to fall back to the default selection on any error.
	GetSelection(ctx context.Context) (*models.LLMSelection, error)
	// SaveSelection persists the selection, overwriting any previous one.
	SaveSelection(ctx context.Context, sel models.LLMSelection) error
}

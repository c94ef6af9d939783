package handler

import "liferestart-server/internal/models"

// APIError is the standardized error response body.
type APIError struct {
	Message string `json:"message"`
}

// TalentCatalogResponse carries one rolled talent draw plus the creation
// constraints the front end needs to render the picker.
type TalentCatalogResponse struct {
	Talents    []models.Talent `json:"talents"`
	MaxPicks   int             `json:"maxPicks"`
	StatPoints int             `json:"statPoints"`
}

// StartGameRequest is the character-creation payload.
type StartGameRequest struct {
	Stats     models.Stats `json:"stats"`
	TalentIDs []string     `json:"talentIds"`
}

// GameResponse wraps a session id with its current state.
type GameResponse struct {
	ID    string            `json:"id"`
	State *models.GameState `json:"state"`
}

// AdvanceRequest is the turn payload. ChoiceID is empty for a plain year.
type AdvanceRequest struct {
	ChoiceID string `json:"choiceId"`
}

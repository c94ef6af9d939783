package service

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"liferestart-server/internal/models"
)

// TurnResolver turns a game state into the next life event. Implementations
// never return an error: every failure mode is mapped to an in-game
// TurnResult, fatal or not, so a broken backend degrades the fiction
// instead of breaking the API.
type TurnResolver interface {
	// ResolveTurn generates the event for the upcoming year. choiceText is
	// the option the player picked on the previous turn, or empty.
	ResolveTurn(ctx context.Context, model string, state *models.GameState, choiceText string) *models.TurnResult
	// ResolveSummary generates the end-of-life epitaph. Returns a canned
	// fallback when the backend fails.
	ResolveSummary(ctx context.Context, model string, state *models.GameState) string
}

// turnResultSchema declares the expected turn JSON for backends that
// support structured output.
var turnResultSchema = &jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"content": {
			Type:        jsonschema.String,
			Description: "Narrative text of the event, 1-3 sentences.",
		},
		"statChanges": {
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"health":       {Type: jsonschema.Integer},
				"intelligence": {Type: jsonschema.Integer},
				"charm":        {Type: jsonschema.Integer},
				"wealth":       {Type: jsonschema.Integer},
				"happiness":    {Type: jsonschema.Integer},
			},
		},
		"isDeath": {
			Type:        jsonschema.Boolean,
			Description: "True when this event ends the life.",
		},
		"deathReason": {
			Type:        jsonschema.String,
			Description: "Cause of death, only meaningful when isDeath is true.",
		},
		"achievements": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
		"choices": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"id":   {Type: jsonschema.String},
					"text": {Type: jsonschema.String},
				},
				Required: []string{"id", "text"},
			},
		},
	},
	Required: []string{"content", "isDeath"},
}

// rawFallbackLimit bounds how much unparseable model text is shown to the
// player verbatim.
const rawFallbackLimit = 100

// fallbackEpitaph is used whenever the summary call fails. The run has
// already ended at that point, so there is nothing to retry against.
const fallbackEpitaph = "They lived, they died, and the universe declined to comment."

// rawTextFallback builds a non-fatal result from model output that could
// not be parsed as JSON. The raw text is truncated and used as narrative;
// no stats change. Normalize supplies the placeholder when the text is
// blank.
func rawTextFallback(raw string) *models.TurnResult {
	result := &models.TurnResult{
		Content: truncateRunes(strings.TrimSpace(raw), rawFallbackLimit),
	}
	result.Normalize()
	return result
}

// transientFailureResult builds a non-fatal result for a transport or
// backend failure: the year is survived, at a happiness cost.
func transientFailureResult(content string, happinessPenalty int) *models.TurnResult {
	result := &models.TurnResult{
		Content:     content,
		StatChanges: &models.StatChanges{Happiness: -happinessPenalty},
	}
	result.Normalize()
	return result
}

// fatalResult builds a life-ending result for unrecoverable backend
// failures.
func fatalResult(content, reason string) *models.TurnResult {
	result := &models.TurnResult{
		Content:     content,
		IsDeath:     true,
		DeathReason: reason,
	}
	result.Normalize()
	return result
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

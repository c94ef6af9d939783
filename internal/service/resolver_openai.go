package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"liferestart-server/internal/config"
	"liferestart-server/internal/models"
	"liferestart-server/internal/schemas"
)

// Turn generation runs hot so the stories stay varied; the epitaph is a
// single short paragraph and does not need it.
const (
	openAITurnTemperature    = 1.2
	openAISummaryTemperature = 1.0
)

const (
	missingKeyContent = "You try to consult the oracle of fate, but the line was never connected. " +
		"Reality unravels around you."
	missingKeyReason = "The server has no API key configured for the cloud model."

	permissionContent = "A voice from above booms: \"ACCESS DENIED.\" Your existence lacked the " +
		"proper authorization, and the universe files you away."
	permissionReason = "The cloud model rejected the server's credentials."

	openAIGlitchContent = "The world stutters for a moment, like a dropped frame in reality. " +
		"You lose a year to the static."
)

// Compile-time check.
var _ TurnResolver = (*openAIResolver)(nil)

// openAIResolver adapts the OpenAI-compatible backend to the turn contract.
// It relies on structured output for well-formed turns and still runs the
// extraction chain as a guard, because compatible servers vary in how
// strictly they honor the declared schema.
type openAIResolver struct {
	client     AIClient
	prompts    *PromptBuilder
	apiKeySet  bool
	turnTokens int
	sumTokens  int
	logger     *zap.Logger
}

// NewOpenAIResolver creates the cloud turn resolver.
func NewOpenAIResolver(client AIClient, prompts *PromptBuilder, cfg *config.Config, logger *zap.Logger) TurnResolver {
	return &openAIResolver{
		client:     client,
		prompts:    prompts,
		apiKeySet:  cfg.OpenAIAPIKey != "",
		turnTokens: cfg.TurnMaxTokens,
		sumTokens:  cfg.SummaryMaxTokens,
		logger:     logger.Named("OpenAIResolver"),
	}
}

func (r *openAIResolver) ResolveTurn(ctx context.Context, model string, state *models.GameState, choiceText string) *models.TurnResult {
	if !r.apiKeySet {
		r.logger.Error("Turn requested without an API key configured")
		return fatalResult(missingKeyContent, missingKeyReason)
	}

	req := GenerationRequest{
		Model:          model,
		SystemPrompt:   r.prompts.TurnSystem(),
		UserPrompt:     r.prompts.TurnUser(state, state.Age+1, choiceText),
		Temperature:    openAITurnTemperature,
		MaxTokens:      r.turnTokens,
		ResponseSchema: turnResultSchema,
	}

	text, usage, err := r.client.GenerateText(ctx, req)
	if err != nil {
		if errors.Is(err, ErrAIPermission) {
			r.logger.Error("Cloud backend rejected credentials", zap.Error(err))
			return fatalResult(permissionContent, permissionReason)
		}
		r.logger.Warn("Cloud turn generation failed", zap.Error(err))
		return transientFailureResult(openAIGlitchContent, 5)
	}

	result, ok := schemas.ExtractTurnResult(text)
	if !ok {
		r.logger.Warn("Cloud turn output was not valid JSON",
			zap.Int("responseLength", len(text)),
			zap.Int("totalTokens", usage.TotalTokens),
		)
		return rawTextFallback(text)
	}
	return result
}

func (r *openAIResolver) ResolveSummary(ctx context.Context, model string, state *models.GameState) string {
	if !r.apiKeySet {
		return fallbackEpitaph
	}

	req := GenerationRequest{
		Model:        model,
		SystemPrompt: r.prompts.SummarySystem(),
		UserPrompt:   r.prompts.SummaryUser(state),
		Temperature:  openAISummaryTemperature,
		MaxTokens:    r.sumTokens,
	}

	text, _, err := r.client.GenerateText(ctx, req)
	if err != nil {
		r.logger.Warn("Cloud summary generation failed", zap.Error(err))
		return fallbackEpitaph
	}
	return text
}

package service

import (
	"context"

	"go.uber.org/zap"

	"liferestart-server/internal/config"
	"liferestart-server/internal/models"
	"liferestart-server/internal/schemas"
)

// Local models drift into prose at high temperatures, so turns run cooler
// here than on the cloud backend.
const (
	ollamaTurnTemperature    = 0.8
	ollamaSummaryTemperature = 0.9
)

const ollamaUnreachableContent = "The local spirit of fate does not answer. The year passes in a " +
	"strange fog. (Is ollama serve running?)"

// Compile-time check.
var _ TurnResolver = (*ollamaResolver)(nil)

// ollamaResolver adapts the local ollama backend to the turn contract.
// Ollama's JSON mode constrains the shape loosely, so the extraction chain
// does the heavy lifting: fenced blocks, brace spans and trailing commas
// all show up in practice with small local models.
type ollamaResolver struct {
	client     AIClient
	prompts    *PromptBuilder
	turnTokens int
	sumTokens  int
	logger     *zap.Logger
}

// NewOllamaResolver creates the local turn resolver.
func NewOllamaResolver(client AIClient, prompts *PromptBuilder, cfg *config.Config, logger *zap.Logger) TurnResolver {
	return &ollamaResolver{
		client:     client,
		prompts:    prompts,
		turnTokens: cfg.TurnMaxTokens,
		sumTokens:  cfg.SummaryMaxTokens,
		logger:     logger.Named("OllamaResolver"),
	}
}

func (r *ollamaResolver) ResolveTurn(ctx context.Context, model string, state *models.GameState, choiceText string) *models.TurnResult {
	req := GenerationRequest{
		Model:          model,
		SystemPrompt:   r.prompts.TurnSystem(),
		UserPrompt:     r.prompts.TurnUser(state, state.Age+1, choiceText),
		Temperature:    ollamaTurnTemperature,
		MaxTokens:      r.turnTokens,
		ResponseSchema: turnResultSchema,
	}

	text, usage, err := r.client.GenerateText(ctx, req)
	if err != nil {
		r.logger.Warn("Local turn generation failed", zap.Error(err))
		return transientFailureResult(ollamaUnreachableContent, 10)
	}

	result, ok := schemas.ExtractTurnResult(text)
	if !ok {
		r.logger.Warn("Local turn output was not valid JSON",
			zap.Int("responseLength", len(text)),
			zap.Int("totalTokens", usage.TotalTokens),
		)
		return rawTextFallback(text)
	}
	return result
}

func (r *ollamaResolver) ResolveSummary(ctx context.Context, model string, state *models.GameState) string {
	req := GenerationRequest{
		Model:        model,
		SystemPrompt: r.prompts.SummarySystem(),
		UserPrompt:   r.prompts.SummaryUser(state),
		Temperature:  ollamaSummaryTemperature,
		MaxTokens:    r.sumTokens,
	}

	text, _, err := r.client.GenerateText(ctx, req)
	if err != nil {
		r.logger.Warn("Local summary generation failed", zap.Error(err))
		return fallbackEpitaph
	}
	return text
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"liferestart-server/internal/config"
	"liferestart-server/internal/models"
	"liferestart-server/internal/service"
	"liferestart-server/internal/service/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		OpenAIAPIKey:        "test-key",
		TurnMaxTokens:       300,
		SummaryMaxTokens:    200,
		PromptHistoryTokens: 600,
	}
}

func playingState() *models.GameState {
	state := models.NewGameState()
	state.Phase = models.PhasePlaying
	state.Age = 5
	state.Stats = models.Stats{Health: 50, Intelligence: 10, Charm: 10, Wealth: 10, Happiness: 10}
	return state
}

func newTestPrompts() *service.PromptBuilder {
	return service.NewPromptBuilder(600, zap.NewNop())
}

func TestOpenAIResolver_MissingKeyIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""
	client := new(mocks.AIClient)

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), cfg, zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "gpt-4o-mini", playingState(), "")

	assert.True(t, result.IsDeath)
	assert.NotEmpty(t, result.DeathReason)
	client.AssertNumberOfCalls(t, "GenerateText", 0)
}

func TestOpenAIResolver_PermissionErrorIsFatal(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, service.ErrAIPermission)

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "gpt-4o-mini", playingState(), "")

	assert.True(t, result.IsDeath)
	assert.NotEmpty(t, result.DeathReason)
}

func TestOpenAIResolver_TransientErrorCostsHappiness(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("connection reset"))

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "gpt-4o-mini", playingState(), "")

	assert.False(t, result.IsDeath)
	assert.Equal(t, -5, result.StatChanges.Happiness)
	assert.NotEmpty(t, result.Content)
}

func TestOpenAIResolver_UnparseableOutputBecomesRawText(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("The model rambles on with no JSON anywhere in sight.", service.UsageInfo{}, nil)

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "gpt-4o-mini", playingState(), "")

	assert.False(t, result.IsDeath)
	assert.Contains(t, result.Content, "The model rambles")
	assert.True(t, result.StatChanges.IsZero())
}

func TestOpenAIResolver_SuccessParsesAndPassesRequest(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.MatchedBy(func(req service.GenerationRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			req.Temperature > 1.0 &&
			req.MaxTokens == 300 &&
			req.ResponseSchema != nil
	})).Return(`{"content":"You got promoted.","statChanges":{"wealth":10},"isDeath":false}`, service.UsageInfo{TotalTokens: 42}, nil)

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "gpt-4o-mini", playingState(), "")

	require.False(t, result.IsDeath)
	assert.Equal(t, "You got promoted.", result.Content)
	assert.Equal(t, 10, result.StatChanges.Wealth)
	client.AssertExpectations(t)
}

func TestOpenAIResolver_SummaryFallsBackOnError(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("boom"))

	resolver := service.NewOpenAIResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	summary := resolver.ResolveSummary(context.Background(), "gpt-4o-mini", playingState())

	assert.NotEmpty(t, summary)
}

func TestOllamaResolver_TransientErrorCostsHappiness(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("connection refused"))

	resolver := service.NewOllamaResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "qwen3:32b", playingState(), "")

	assert.False(t, result.IsDeath)
	assert.Equal(t, -10, result.StatChanges.Happiness)
}

func TestOllamaResolver_FencedOutputIsRecovered(t *testing.T) {
	client := new(mocks.AIClient)
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("Here you go:\n```json\n{\"content\":\"First day of school.\",\"isDeath\":false}\n```", service.UsageInfo{}, nil)

	resolver := service.NewOllamaResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "qwen3:32b", playingState(), "")

	assert.Equal(t, "First day of school.", result.Content)
}

func TestOllamaResolver_EmptyRawFallbackGetsPlaceholder(t *testing.T) {
	client := new(mocks.AIClient)
	// Whitespace only: unparseable and empty after truncation.
	client.On("GenerateText", mock.Anything, mock.Anything).
		Return("   ", service.UsageInfo{}, nil)

	resolver := service.NewOllamaResolver(client, newTestPrompts(), testConfig(), zap.NewNop())
	result := resolver.ResolveTurn(context.Background(), "qwen3:32b", playingState(), "")

	assert.False(t, result.IsDeath)
	assert.Equal(t, models.DefaultTurnContent, result.Content)
	assert.True(t, result.StatChanges.IsZero())
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
	"liferestart-server/internal/repository"
	repoMocks "liferestart-server/internal/repository/mocks"
	"liferestart-server/internal/service"
)

func TestNormalizeSelection(t *testing.T) {
	def := service.DefaultSelection()

	t.Run("empty input falls back to default", func(t *testing.T) {
		out := service.NormalizeSelection(models.LLMSelection{})
		assert.Equal(t, def, out)
	})

	t.Run("unknown provider falls back to default provider", func(t *testing.T) {
		out := service.NormalizeSelection(models.LLMSelection{Provider: "gemini", Model: ""})
		assert.Equal(t, def.Provider, out.Provider)
		assert.Equal(t, def.Model, out.Model)
	})

	t.Run("blank model gets the provider default", func(t *testing.T) {
		out := service.NormalizeSelection(models.LLMSelection{Provider: models.ProviderOpenAI, Model: "   "})
		assert.Equal(t, models.ProviderOpenAI, out.Provider)
		assert.Equal(t, "gpt-4o-mini", out.Model)
	})

	t.Run("explicit model is kept trimmed", func(t *testing.T) {
		out := service.NormalizeSelection(models.LLMSelection{Provider: models.ProviderOllama, Model: " llama3.1 "})
		assert.Equal(t, "llama3.1", out.Model)
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []models.LLMSelection{
			{},
			{Provider: "nope", Model: "whatever"},
			{Provider: models.ProviderOpenAI},
			{Provider: models.ProviderOllama, Model: "qwen2.5:14b"},
		}
		for _, in := range inputs {
			once := service.NormalizeSelection(in)
			twice := service.NormalizeSelection(once)
			assert.Equal(t, once, twice, "input %+v", in)
		}
	})
}

func TestSelectionStore_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing saved yields the default", func(t *testing.T) {
		prefs := new(repoMocks.PreferenceRepository)
		prefs.On("GetSelection", ctx).Return(nil, repository.ErrPreferenceNotFound)

		store := service.NewSelectionStore(prefs, zap.NewNop())
		assert.Equal(t, service.DefaultSelection(), store.Current(ctx))
	})

	t.Run("read failure yields the default", func(t *testing.T) {
		prefs := new(repoMocks.PreferenceRepository)
		prefs.On("GetSelection", ctx).Return(nil, errors.New("redis down"))

		store := service.NewSelectionStore(prefs, zap.NewNop())
		assert.Equal(t, service.DefaultSelection(), store.Current(ctx))
	})

	t.Run("saved selection is normalized on read", func(t *testing.T) {
		prefs := new(repoMocks.PreferenceRepository)
		prefs.On("GetSelection", ctx).Return(&models.LLMSelection{Provider: models.ProviderOpenAI, Model: ""}, nil)

		store := service.NewSelectionStore(prefs, zap.NewNop())
		sel := store.Current(ctx)
		assert.Equal(t, models.ProviderOpenAI, sel.Provider)
		assert.Equal(t, "gpt-4o-mini", sel.Model)
	})
}

func TestSelectionStore_Save(t *testing.T) {
	ctx := context.Background()

	prefs := new(repoMocks.PreferenceRepository)
	normalized := models.LLMSelection{Provider: models.ProviderOpenAI, Model: "gpt-4o-mini"}
	prefs.On("SaveSelection", ctx, normalized).Return(nil).Once()

	store := service.NewSelectionStore(prefs, zap.NewNop())
	saved, err := store.Save(ctx, models.LLMSelection{Provider: models.ProviderOpenAI, Model: " "})
	require.NoError(t, err)
	assert.Equal(t, normalized, saved)
	prefs.AssertExpectations(t)
}

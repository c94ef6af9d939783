package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"liferestart-server/internal/models"
	"liferestart-server/internal/repository"
)

// ModelOption describes one selectable backend for the settings screen.
type ModelOption struct {
	Provider     models.Provider `json:"provider"`
	Label        string          `json:"label"`
	Description  string          `json:"description"`
	DefaultModel string          `json:"defaultModel"`
	Helper       string          `json:"helper,omitempty"`
}

// SupportedModels is the fixed catalog of providers the player can choose
// from. The model name is a free-text override on top of each default.
var SupportedModels = []ModelOption{
	{
		Provider:     models.ProviderOllama,
		Label:        "Ollama (local)",
		Description:  "Uses a locally hosted model; requires a running ollama serve.",
		DefaultModel: "qwen3:32b",
		Helper:       "Any model already pulled locally, e.g. qwen2.5:14b or llama3.1.",
	},
	{
		Provider:     models.ProviderOpenAI,
		Label:        "OpenAI-compatible API",
		Description:  "Calls a hosted model with structured output; fast, needs an API key.",
		DefaultModel: "gpt-4o-mini",
		Helper:       "Requires OPENAI_API_KEY to be configured on the server.",
	},
}

// DefaultSelection is what every lookup falls back to.
func DefaultSelection() models.LLMSelection {
	return models.LLMSelection{
		Provider: SupportedModels[0].Provider,
		Model:    SupportedModels[0].DefaultModel,
	}
}

func findModelOption(p models.Provider) *ModelOption {
	for i := range SupportedModels {
		if SupportedModels[i].Provider == p {
			return &SupportedModels[i]
		}
	}
	return nil
}

// NormalizeSelection maps any input to a valid selection: an unknown
// provider falls back to the default provider, a blank model to the
// provider's default model. It is pure, total and idempotent.
func NormalizeSelection(sel models.LLMSelection) models.LLMSelection {
	option := findModelOption(sel.Provider)
	if option == nil {
		option = findModelOption(DefaultSelection().Provider)
	}
	model := strings.TrimSpace(sel.Model)
	if model == "" {
		model = option.DefaultModel
	}
	return models.LLMSelection{Provider: option.Provider, Model: model}
}

// SelectionStore wraps the preference repository with normalization and
// the hard-coded fallback, so callers always get a usable selection.
type SelectionStore struct {
	prefs  repository.PreferenceRepository
	logger *zap.Logger
}

// NewSelectionStore creates a SelectionStore.
func NewSelectionStore(prefs repository.PreferenceRepository, logger *zap.Logger) *SelectionStore {
	return &SelectionStore{
		prefs:  prefs,
		logger: logger.Named("SelectionStore"),
	}
}

// Current returns the saved selection or the default if nothing usable was
// ever saved. Read failures are logged, never surfaced.
func (s *SelectionStore) Current(ctx context.Context) models.LLMSelection {
	sel, err := s.prefs.GetSelection(ctx)
	if err != nil {
		if err != repository.ErrPreferenceNotFound {
			s.logger.Warn("Falling back to default llm selection", zap.Error(err))
		}
		return DefaultSelection()
	}
	return NormalizeSelection(*sel)
}

// Save normalizes and persists a selection, returning the normalized value.
func (s *SelectionStore) Save(ctx context.Context, sel models.LLMSelection) (models.LLMSelection, error) {
	normalized := NormalizeSelection(sel)
	if err := s.prefs.SaveSelection(ctx, normalized); err != nil {
		return normalized, err
	}
	return normalized, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"liferestart-server/internal/models"
)

// ResolverRouter picks the resolver for the player's saved backend
// selection. The lookup happens per turn, so a settings change applies to
// the next turn of an already running game.
type ResolverRouter struct {
	store  *SelectionStore
	ollama TurnResolver
	openai TurnResolver
	logger *zap.Logger
}

// NewResolverRouter creates a ResolverRouter over the two backends.
func NewResolverRouter(store *SelectionStore, ollama, openai TurnResolver, logger *zap.Logger) *ResolverRouter {
	return &ResolverRouter{
		store:  store,
		ollama: ollama,
		openai: openai,
		logger: logger.Named("ResolverRouter"),
	}
}

// Resolve returns the resolver and the normalized selection to use for the
// next generation call.
func (r *ResolverRouter) Resolve(ctx context.Context) (TurnResolver, models.LLMSelection) {
	sel := r.store.Current(ctx)
	switch sel.Provider {
	case models.ProviderOpenAI:
		return r.openai, sel
	default:
		return r.ollama, sel
	}
}

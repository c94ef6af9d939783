package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"liferestart-server/internal/models"
)

// TurnResolver is a mock of service.TurnResolver.
type TurnResolver struct {
	mock.Mock
}

func (m *TurnResolver) ResolveTurn(ctx context.Context, model string, state *models.GameState, choiceText string) *models.TurnResult {
	args := m.Called(ctx, model, state, choiceText)
	return args.Get(0).(*models.TurnResult)
}

func (m *TurnResolver) ResolveSummary(ctx context.Context, model string, state *models.GameState) string {
	args := m.Called(ctx, model, state)
	return args.String(0)
}

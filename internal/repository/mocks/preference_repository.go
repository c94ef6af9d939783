// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"liferestart-server/internal/models"
)

// PreferenceRepository is a mock of repository.PreferenceRepository.
type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) GetSelection(ctx context.Context) (*models.LLMSelection, error) {
	args := m.Called(ctx)
	if sel := args.Get(0); sel != nil {
		return sel.(*models.LLMSelection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PreferenceRepository) SaveSelection(ctx context.Context, sel models.LLMSelection) error {
	args := m.Called(ctx, sel)
	return args.Error(0)
}

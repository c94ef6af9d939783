// Package mocks provides testify mocks for the service interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"liferestart-server/internal/service"
)

// AIClient is a mock of service.AIClient.
type AIClient struct {
	mock.Mock
}

func (m *AIClient) GenerateText(ctx context.Context, req service.GenerationRequest) (string, service.UsageInfo, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Get(1).(service.UsageInfo), args.Error(2)
}

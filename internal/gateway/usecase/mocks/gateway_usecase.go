// Package mocks provides mock implementations of the gateway use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
)

// MockGatewayUseCase is a mock implementation of GatewayUseCase for testing.
type MockGatewayUseCase struct {
	mock.Mock
}

// Fetch mocks the Fetch method of GatewayUseCase.
func (m *MockGatewayUseCase) Fetch(ctx context.Context, path, query string) (*gatewayDomain.Response, error) {
	args := m.Called(ctx, path, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gatewayDomain.Response), args.Error(1)
}

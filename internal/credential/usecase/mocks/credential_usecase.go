// Package mocks provides mock implementations of the credential use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Save mocks the Save method of CredentialUseCase.
func (m *MockCredentialUseCase) Save(ctx context.Context, plaintext string) error {
	args := m.Called(ctx, plaintext)
	return args.Error(0)
}

// Get mocks the Get method of CredentialUseCase.
func (m *MockCredentialUseCase) Get(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Delete mocks the Delete method of CredentialUseCase.
func (m *MockCredentialUseCase) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Exists mocks the Exists method of CredentialUseCase.
func (m *MockCredentialUseCase) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

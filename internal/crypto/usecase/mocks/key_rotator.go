// Package mocks provides mock implementations of the crypto use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// MockKeyRotator is a mock implementation of KeyRotator for testing.
type MockKeyRotator struct {
	mock.Mock
}

// Rotate mocks the Rotate method of KeyRotator.
func (m *MockKeyRotator) Rotate(ctx context.Context, keyPath string) (*cryptoDomain.RotationResult, error) {
	args := m.Called(ctx, keyPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.RotationResult), args.Error(1)
}

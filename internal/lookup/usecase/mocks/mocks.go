// Package mocks provides mock implementations of the lookup interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
)

// MockCryptRepository is a mock implementation of CryptRepository for testing.
type MockCryptRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of CryptRepository.
func (m *MockCryptRepository) Upsert(ctx context.Context, crypt *lookupDomain.Crypt) error {
	args := m.Called(ctx, crypt)
	return args.Error(0)
}

// CreateIfNotExists mocks the CreateIfNotExists method of CryptRepository.
func (m *MockCryptRepository) CreateIfNotExists(ctx context.Context, crypt *lookupDomain.Crypt) (bool, error) {
	args := m.Called(ctx, crypt)
	return args.Bool(0), args.Error(1)
}

// GetByHash mocks the GetByHash method of CryptRepository.
func (m *MockCryptRepository) GetByHash(ctx context.Context, key lookupDomain.Key) (*lookupDomain.Crypt, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookupDomain.Crypt), args.Error(1)
}

// Exists mocks the Exists method of CryptRepository.
func (m *MockCryptRepository) Exists(ctx context.Context, key lookupDomain.Key) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method of CryptRepository.
func (m *MockCryptRepository) List(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	args := m.Called(ctx, alg, mode, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*lookupDomain.Crypt), args.Error(1)
}

// MockSecretStore is a mock implementation of SecretStore for testing.
type MockSecretStore struct {
	mock.Mock
}

// Get mocks the Get method of SecretStore.
func (m *MockSecretStore) Get(ctx context.Context, key lookupDomain.Key) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Put mocks the Put method of SecretStore.
func (m *MockSecretStore) Put(ctx context.Context, key lookupDomain.Key, secret string, salt *string) error {
	args := m.Called(ctx, key, secret, salt)
	return args.Error(0)
}

// Invalidate mocks the Invalidate method of SecretStore.
func (m *MockSecretStore) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Export mocks the Export method of SecretStore.
func (m *MockSecretStore) Export(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	args := m.Called(ctx, alg, mode, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*lookupDomain.Crypt), args.Error(1)
}

// Import mocks the Import method of SecretStore.
func (m *MockSecretStore) Import(ctx context.Context, crypts []*lookupDomain.Crypt) (int, error) {
	args := m.Called(ctx, crypts)
	return args.Int(0), args.Error(1)
}

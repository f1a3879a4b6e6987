// Package mocks provides mock implementations of FieldCryptor for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// MockFieldCryptor is a mock implementation of FieldCryptor for testing.
type MockFieldCryptor struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of FieldCryptor.
func (m *MockFieldCryptor) Encrypt(ctx context.Context, value string) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of FieldCryptor.
func (m *MockFieldCryptor) Decrypt(ctx context.Context, value string) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

// DecryptSecret mocks the DecryptSecret method of FieldCryptor.
func (m *MockFieldCryptor) DecryptSecret(ctx context.Context, value string) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

// GetHash mocks the GetHash method of FieldCryptor.
func (m *MockFieldCryptor) GetHash(ctx context.Context, value string) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

// GetHashWithPrefix mocks the GetHashWithPrefix method of FieldCryptor.
func (m *MockFieldCryptor) GetHashWithPrefix(ctx context.Context, value string) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

// GetPrepValue mocks the GetPrepValue method of FieldCryptor.
func (m *MockFieldCryptor) GetPrepValue(
	ctx context.Context,
	encrypted, original string,
	updateLookup bool,
) (string, error) {
	args := m.Called(ctx, encrypted, original, updateLookup)
	return args.String(0), args.Error(1)
}

// UpdateSecretInLookup mocks the UpdateSecretInLookup method of FieldCryptor.
func (m *MockFieldCryptor) UpdateSecretInLookup(ctx context.Context, hashSecret string) error {
	args := m.Called(ctx, hashSecret)
	return args.Error(0)
}

// GetSecretFromHashSecret mocks the GetSecretFromHashSecret method of FieldCryptor.
func (m *MockFieldCryptor) GetSecretFromHashSecret(ctx context.Context, value, digest string) (string, error) {
	args := m.Called(ctx, value, digest)
	return args.String(0), args.Error(1)
}

// IsEncrypted mocks the IsEncrypted method of FieldCryptor.
func (m *MockFieldCryptor) IsEncrypted(value, prefix string) bool {
	args := m.Called(value, prefix)
	return args.Bool(0)
}

// Mask mocks the Mask method of FieldCryptor.
func (m *MockFieldCryptor) Mask(value, mask string) string {
	args := m.Called(value, mask)
	return args.String(0)
}

// Options mocks the Options method of FieldCryptor.
func (m *MockFieldCryptor) Options() fieldUsecase.Options {
	args := m.Called()
	return args.Get(0).(fieldUsecase.Options)
}

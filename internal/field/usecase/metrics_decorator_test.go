package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
	fieldUsecaseMocks "github.com/allisson/cryptfields/internal/field/usecase/mocks"
	"github.com/allisson/cryptfields/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "field", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "field", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestNewFieldCryptorWithMetrics(t *testing.T) {
	decorator := fieldUsecase.NewFieldCryptorWithMetrics(&fieldUsecaseMocks.MockFieldCryptor{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*fieldUsecase.FieldCryptor)(nil), decorator)
}

func TestMetricsDecorator_RecordedOperations(t *testing.T) {
	ctx := context.Background()
	failure := errors.New("key not loaded")

	tests := []struct {
		name      string
		operation string
		setup     func(m *fieldUsecaseMocks.MockFieldCryptor, err error)
		call      func(c fieldUsecase.FieldCryptor) error
	}{
		{
			name:      "encrypt",
			operation: "encrypt",
			setup: func(m *fieldUsecaseMocks.MockFieldCryptor, err error) {
				m.On("Encrypt", ctx, "value").Return("enc1:::digest", err).Once()
			},
			call: func(c fieldUsecase.FieldCryptor) error {
				_, err := c.Encrypt(ctx, "value")
				return err
			},
		},
		{
			name:      "decrypt",
			operation: "decrypt",
			setup: func(m *fieldUsecaseMocks.MockFieldCryptor, err error) {
				m.On("Decrypt", ctx, "enc1:::digest").Return("value", err).Once()
			},
			call: func(c fieldUsecase.FieldCryptor) error {
				_, err := c.Decrypt(ctx, "enc1:::digest")
				return err
			},
		},
		{
			name:      "decrypt secret",
			operation: "decrypt_secret",
			setup: func(m *fieldUsecaseMocks.MockFieldCryptor, err error) {
				m.On("DecryptSecret", ctx, "enc2:::secret").Return("value", err).Once()
			},
			call: func(c fieldUsecase.FieldCryptor) error {
				_, err := c.DecryptSecret(ctx, "enc2:::secret")
				return err
			},
		},
		{
			name:      "prep value",
			operation: "prep_value",
			setup: func(m *fieldUsecaseMocks.MockFieldCryptor, err error) {
				m.On("GetPrepValue", ctx, "enc1:::digest", "value", true).Return("enc1:::digest", err).Once()
			},
			call: func(c fieldUsecase.FieldCryptor) error {
				_, err := c.GetPrepValue(ctx, "enc1:::digest", "value", true)
				return err
			},
		},
		{
			name:      "update lookup",
			operation: "update_lookup",
			setup: func(m *fieldUsecaseMocks.MockFieldCryptor, err error) {
				m.On("UpdateSecretInLookup", ctx, "enc1:::digest").Return(err).Once()
			},
			call: func(c fieldUsecase.FieldCryptor) error {
				return c.UpdateSecretInLookup(ctx, "enc1:::digest")
			},
		},
	}

	for _, tt := range tests {
		for _, status := range []string{"success", "error"} {
			t.Run(tt.name+" "+status, func(t *testing.T) {
				var err error
				if status == "error" {
					err = failure
				}
				mockCryptor := &fieldUsecaseMocks.MockFieldCryptor{}
				mockMetrics := &mockBusinessMetrics{}
				tt.setup(mockCryptor, err)
				expectMetrics(ctx, mockMetrics, tt.operation, status)

				got := tt.call(fieldUsecase.NewFieldCryptorWithMetrics(mockCryptor, mockMetrics))

				assert.Equal(t, err, got)
				mockCryptor.AssertExpectations(t)
				mockMetrics.AssertExpectations(t)
			})
		}
	}
}

func TestMetricsDecorator_ForwardsUninstrumented(t *testing.T) {
	ctx := context.Background()
	mockCryptor := &fieldUsecaseMocks.MockFieldCryptor{}
	mockMetrics := &mockBusinessMetrics{}
	opts := fieldUsecase.Options{Algorithm: cryptoDomain.AES, Mode: cryptoDomain.ModeLocal}

	mockCryptor.On("GetHash", ctx, "value").Return("digest", nil).Once()
	mockCryptor.On("GetHashWithPrefix", ctx, "value").Return("enc1:::digest", nil).Once()
	mockCryptor.On("GetSecretFromHashSecret", ctx, "enc1:::digest", "digest").Return("secret", nil).Once()
	mockCryptor.On("IsEncrypted", "enc1:::digest", "").Return(true).Once()
	mockCryptor.On("Mask", "enc1:::digest", "").Return("<encrypted>").Once()
	mockCryptor.On("Options").Return(opts).Once()

	decorator := fieldUsecase.NewFieldCryptorWithMetrics(mockCryptor, mockMetrics)

	digest, err := decorator.GetHash(ctx, "value")
	assert.NoError(t, err)
	assert.Equal(t, "digest", digest)
	prefixed, err := decorator.GetHashWithPrefix(ctx, "value")
	assert.NoError(t, err)
	assert.Equal(t, "enc1:::digest", prefixed)
	secret, err := decorator.GetSecretFromHashSecret(ctx, "enc1:::digest", "digest")
	assert.NoError(t, err)
	assert.Equal(t, "secret", secret)
	assert.True(t, decorator.IsEncrypted("enc1:::digest", ""))
	assert.Equal(t, "<encrypted>", decorator.Mask("enc1:::digest", ""))
	assert.Equal(t, opts, decorator.Options())

	mockCryptor.AssertExpectations(t)
	mockMetrics.AssertNotCalled(t, "RecordOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

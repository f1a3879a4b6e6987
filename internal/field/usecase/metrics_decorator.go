package usecase

import (
	"context"
	"time"

	"github.com/allisson/cryptfields/internal/metrics"
)

// fieldCryptorWithMetrics decorates FieldCryptor with metrics instrumentation.
type fieldCryptorWithMetrics struct {
	next    FieldCryptor
	metrics metrics.BusinessMetrics
}

// NewFieldCryptorWithMetrics wraps a FieldCryptor with metrics recording.
//
// Only operations that touch keys or the lookup store are recorded; GetHash and friends
// are forwarded as is.
func NewFieldCryptorWithMetrics(cryptor FieldCryptor, m metrics.BusinessMetrics) FieldCryptor {
	return &fieldCryptorWithMetrics{
		next:    cryptor,
		metrics: m,
	}
}

func (f *fieldCryptorWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "field", operation, status)
	f.metrics.RecordDuration(ctx, "field", operation, time.Since(start), status)
}

// Encrypt records metrics for field encryption.
func (f *fieldCryptorWithMetrics) Encrypt(ctx context.Context, value string) (string, error) {
	start := time.Now()
	result, err := f.next.Encrypt(ctx, value)
	f.record(ctx, "encrypt", start, err)
	return result, err
}

// Decrypt records metrics for field decryption.
func (f *fieldCryptorWithMetrics) Decrypt(ctx context.Context, value string) (string, error) {
	start := time.Now()
	result, err := f.next.Decrypt(ctx, value)
	f.record(ctx, "decrypt", start, err)
	return result, err
}

// DecryptSecret records metrics for bare secret decryption.
func (f *fieldCryptorWithMetrics) DecryptSecret(ctx context.Context, value string) (string, error) {
	start := time.Now()
	result, err := f.next.DecryptSecret(ctx, value)
	f.record(ctx, "decrypt_secret", start, err)
	return result, err
}

func (f *fieldCryptorWithMetrics) GetHash(ctx context.Context, value string) (string, error) {
	return f.next.GetHash(ctx, value)
}

func (f *fieldCryptorWithMetrics) GetHashWithPrefix(ctx context.Context, value string) (string, error) {
	return f.next.GetHashWithPrefix(ctx, value)
}

// GetPrepValue records metrics for the primary record write path.
func (f *fieldCryptorWithMetrics) GetPrepValue(
	ctx context.Context,
	encrypted, original string,
	updateLookup bool,
) (string, error) {
	start := time.Now()
	result, err := f.next.GetPrepValue(ctx, encrypted, original, updateLookup)
	f.record(ctx, "prep_value", start, err)
	return result, err
}

// UpdateSecretInLookup records metrics for secret publication.
func (f *fieldCryptorWithMetrics) UpdateSecretInLookup(ctx context.Context, hashSecret string) error {
	start := time.Now()
	err := f.next.UpdateSecretInLookup(ctx, hashSecret)
	f.record(ctx, "update_lookup", start, err)
	return err
}

func (f *fieldCryptorWithMetrics) GetSecretFromHashSecret(
	ctx context.Context,
	value, digest string,
) (string, error) {
	return f.next.GetSecretFromHashSecret(ctx, value, digest)
}

func (f *fieldCryptorWithMetrics) IsEncrypted(value, prefix string) bool {
	return f.next.IsEncrypted(value, prefix)
}

func (f *fieldCryptorWithMetrics) Mask(value, mask string) string {
	return f.next.Mask(value, mask)
}

func (f *fieldCryptorWithMetrics) Options() Options {
	return f.next.Options()
}

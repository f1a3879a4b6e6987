package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens KMS keepers using gocloud.dev/secrets.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// kmsSealer seals private key files with a KMS keeper.
type kmsSealer struct {
	keeper cryptoDomain.KMSKeeper
}

// NewKMSSealer opens the keeper at keyURI and returns a Sealer backed by it.
func NewKMSSealer(ctx context.Context, kms KMSService, keyURI string) (Sealer, error) {
	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	return &kmsSealer{keeper: keeper}, nil
}

func (s *kmsSealer) Seal(ctx context.Context, plaintext []byte) ([]byte, error) {
	sealed, err := s.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to seal key file: %w", err)
	}
	return sealed, nil
}

func (s *kmsSealer) Unseal(ctx context.Context, sealed []byte) ([]byte, error) {
	plaintext, err := s.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal key file: %w", err)
	}
	return plaintext, nil
}

func (s *kmsSealer) Close() error {
	return s.keeper.Close()
}

// noopSealer stores key files as plain PEM.
type noopSealer struct{}

// NewNoopSealer returns a Sealer that leaves data untouched.
func NewNoopSealer() Sealer {
	return noopSealer{}
}

func (noopSealer) Seal(_ context.Context, plaintext []byte) ([]byte, error) { return plaintext, nil }

func (noopSealer) Unseal(_ context.Context, sealed []byte) ([]byte, error) { return sealed, nil }

func (noopSealer) Close() error { return nil }

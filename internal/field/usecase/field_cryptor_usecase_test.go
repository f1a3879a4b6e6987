package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	cryptoService "github.com/allisson/cryptfields/internal/crypto/service"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	lookupUsecaseMocks "github.com/allisson/cryptfields/internal/lookup/usecase/mocks"
)

var (
	fullKeyPath       string
	restrictedKeyPath string
)

func TestMain(m *testing.M) {
	os.Exit(runWithKeys(m))
}

// runWithKeys generates one full key set and a copy without the restricted private key.
func runWithKeys(m *testing.M) int {
	root, err := os.MkdirTemp("", "cryptfields-field-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		_ = os.RemoveAll(root)
	}()

	fullKeyPath = filepath.Join(root, "full")
	restrictedKeyPath = filepath.Join(root, "restricted")

	ctx := context.Background()
	if _, err := cryptoService.NewFileKeyGenerator(cryptoService.NewNoopSealer()).Generate(ctx, fullKeyPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := os.MkdirAll(restrictedKeyPath, 0o700); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, f := range cryptoDomain.KeyFiles() {
		if f == cryptoDomain.RestrictedPrivateKeyFile {
			continue
		}
		data, err := os.ReadFile(f.Path(fullKeyPath))
		if err == nil {
			err = os.WriteFile(f.Path(restrictedKeyPath), data, 0o600)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	return m.Run()
}

// memoryStore is an in-memory SecretStore.
type memoryStore struct {
	mu      sync.Mutex
	secrets map[lookupDomain.Key]string
	puts    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{secrets: make(map[lookupDomain.Key]string)}
}

func (s *memoryStore) Get(_ context.Context, key lookupDomain.Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[key]
	return secret, ok, nil
}

func (s *memoryStore) Put(_ context.Context, key lookupDomain.Key, secret string, _ *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if secret != "" {
		s.secrets[key] = secret
		s.puts++
	}
	return nil
}

func (s *memoryStore) Invalidate(context.Context) error {
	return nil
}

func (s *memoryStore) Export(
	context.Context,
	cryptoDomain.Algorithm,
	cryptoDomain.Mode,
	int, int,
) ([]*lookupDomain.Crypt, error) {
	return nil, nil
}

func (s *memoryStore) Import(context.Context, []*lookupDomain.Crypt) (int, error) {
	return 0, nil
}

func newTestFieldCryptor(t *testing.T, opts Options, keyPath string, loaderRestricted bool) (FieldCryptor, *memoryStore) {
	t.Helper()
	loader := cryptoService.NewFileKeyLoader(keyPath, cryptoService.NewNoopSealer(), loaderRestricted)
	store := newMemoryStore()
	cryptor, err := NewFieldCryptor(
		opts,
		cryptoService.NewKeyRing(loader, loaderRestricted),
		cryptoService.NewBlake2bHasher(),
		store,
	)
	require.NoError(t, err)
	return cryptor, store
}

var allPairs = []Options{
	{Algorithm: cryptoDomain.AES, Mode: cryptoDomain.ModeLocal},
	{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeLocal},
	{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeRestricted},
}

func TestNewFieldCryptor(t *testing.T) {
	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		_, err := NewFieldCryptor(
			Options{Algorithm: "des", Mode: cryptoDomain.ModeLocal},
			nil,
			cryptoService.NewBlake2bHasher(),
			nil,
		)

		var algErr *cryptoDomain.UnsupportedAlgorithmError
		require.ErrorAs(t, err, &algErr)
		assert.Equal(t, `cannot determine algorithm: valid options are aes, rsa, got "des"`, err.Error())
	})

	t.Run("Error_UnsupportedMode", func(t *testing.T) {
		_, err := NewFieldCryptor(
			Options{Algorithm: cryptoDomain.AES, Mode: cryptoDomain.ModeRestricted},
			nil,
			cryptoService.NewBlake2bHasher(),
			nil,
		)

		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedMode)
	})
}

func TestFieldCryptor_RoundTrip(t *testing.T) {
	ctx := context.Background()
	values := []string{"2020-01-01", "hello world", "ünïcødé", strings.Repeat("x", 85)}

	for _, opts := range allPairs {
		t.Run(string(opts.Algorithm)+"/"+string(opts.Mode), func(t *testing.T) {
			cryptor, store := newTestFieldCryptor(t, opts, fullKeyPath, false)
			digestLength, err := cryptoDomain.DigestLength(opts.Algorithm, opts.Mode)
			require.NoError(t, err)

			for _, value := range values {
				encrypted, err := cryptor.Encrypt(ctx, value)
				require.NoError(t, err)
				require.True(t, strings.HasPrefix(encrypted, cryptoDomain.HashPrefix))

				env, err := cryptoDomain.ParseEnvelope(encrypted, digestLength)
				require.NoError(t, err)
				assert.Len(t, env.Digest, digestLength)
				assert.NotEmpty(t, env.Secret)

				// full envelope decrypts without the store
				plaintext, err := cryptor.Decrypt(ctx, encrypted)
				require.NoError(t, err)
				assert.Equal(t, value, plaintext)

				prep, err := cryptor.GetPrepValue(ctx, encrypted, value, true)
				require.NoError(t, err)
				assert.Equal(t, cryptoDomain.HashPrefix+env.Digest, prep)
				assert.NotContains(t, prep, cryptoDomain.SecretPrefix)

				plaintext, err = cryptor.Decrypt(ctx, prep)
				require.NoError(t, err)
				assert.Equal(t, value, plaintext)

				plaintext, err = cryptor.DecryptSecret(ctx, cryptoDomain.SecretPrefix+env.Secret)
				require.NoError(t, err)
				assert.Equal(t, value, plaintext)
			}
			assert.Equal(t, len(values), store.puts)
		})
	}
}

func TestFieldCryptor_Encrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Idempotent", func(t *testing.T) {
		for _, opts := range allPairs {
			cryptor, _ := newTestFieldCryptor(t, opts, fullKeyPath, false)

			encrypted, err := cryptor.Encrypt(ctx, "value")
			require.NoError(t, err)

			again, err := cryptor.Encrypt(ctx, encrypted)
			require.NoError(t, err)
			assert.Equal(t, encrypted, again)

			prep, err := cryptor.GetHashWithPrefix(ctx, encrypted)
			require.NoError(t, err)
			again, err = cryptor.Encrypt(ctx, prep)
			require.NoError(t, err)
			assert.Equal(t, prep, again)
		}
	})

	t.Run("Success_EmptyPassesThrough", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

		encrypted, err := cryptor.Encrypt(ctx, "")
		assert.NoError(t, err)
		assert.Empty(t, encrypted)
	})

	t.Run("Success_SameDigestFreshSecret", func(t *testing.T) {
		for _, opts := range allPairs {
			cryptor, _ := newTestFieldCryptor(t, opts, fullKeyPath, false)
			digestLength, _ := cryptoDomain.DigestLength(opts.Algorithm, opts.Mode)

			first, err := cryptor.Encrypt(ctx, "2020-01-01")
			require.NoError(t, err)
			second, err := cryptor.Encrypt(ctx, "2020-01-01")
			require.NoError(t, err)

			firstEnv, _ := cryptoDomain.ParseEnvelope(first, digestLength)
			secondEnv, _ := cryptoDomain.ParseEnvelope(second, digestLength)
			assert.Equal(t, firstEnv.Digest, secondEnv.Digest)
			assert.NotEqual(t, firstEnv.Secret, secondEnv.Secret)
		}
	})

	t.Run("Success_SymmetricSecretCarriesIV", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

		encrypted, err := cryptor.Encrypt(ctx, "2020-01-01")
		require.NoError(t, err)

		env, err := cryptoDomain.ParseEnvelope(encrypted, 32)
		require.NoError(t, err)
		_, _, err = cryptoDomain.SplitSymmetricSecret(env.Secret)
		assert.NoError(t, err)
	})

	t.Run("Error_RSAPlaintextTooLong", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[1], fullKeyPath, false)

		_, err := cryptor.Encrypt(ctx, strings.Repeat("x", 86))

		var tooLong *cryptoDomain.PlaintextTooLongError
		require.ErrorAs(t, err, &tooLong)
		assert.Equal(t, 85, tooLong.Limit)
		assert.Equal(t, 86, tooLong.Length)
		assert.Equal(t, "string value to encrypt may not exceed 85 bytes, got 86", err.Error())
		assert.ErrorIs(t, err, cryptoDomain.ErrPlaintextTooLong)
	})

	t.Run("Error_NoKeys", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], t.TempDir(), false)

		_, err := cryptor.Encrypt(ctx, "value")

		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotLoaded)
	})
}

func TestFieldCryptor_Decrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PlaintextPassesThrough", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

		for _, value := range []string{"", "2020-01-01", "enc2:::not-a-hash-envelope"} {
			plaintext, err := cryptor.Decrypt(ctx, value)
			assert.NoError(t, err)
			assert.Equal(t, value, plaintext)
		}
	})

	t.Run("Success_DecryptSecretIgnoresHashEnvelope", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)

		plaintext, err := cryptor.DecryptSecret(ctx, encrypted)
		assert.NoError(t, err)
		assert.Equal(t, encrypted, plaintext)
	})

	t.Run("Error_DigestNotInLookup", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
		digest := strings.Repeat("ab", 16)

		_, err := cryptor.Decrypt(ctx, cryptoDomain.HashPrefix+digest)

		var notFound *cryptoDomain.SecretNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, digest, notFound.Hash)
		assert.ErrorIs(t, err, cryptoDomain.ErrSecretNotFound)
		assert.Contains(t, err.Error(), digest)
	})

	t.Run("Error_LookupFailure", func(t *testing.T) {
		loader := cryptoService.NewFileKeyLoader(fullKeyPath, nil, false)
		store := &lookupUsecaseMocks.MockSecretStore{}
		dbErr := errors.New("connection refused")
		store.On("Get", ctx, mock.Anything).Return("", false, dbErr).Once()
		cryptor, err := NewFieldCryptor(
			allPairs[0],
			cryptoService.NewKeyRing(loader, false),
			cryptoService.NewBlake2bHasher(),
			store,
		)
		require.NoError(t, err)

		_, err = cryptor.Decrypt(ctx, cryptoDomain.HashPrefix+strings.Repeat("ab", 16))

		assert.ErrorIs(t, err, dbErr)
		store.AssertExpectations(t)
	})

	t.Run("Error_TruncatedEnvelope", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[1], fullKeyPath, false)

		_, err := cryptor.Decrypt(ctx, cryptoDomain.HashPrefix+"abc")

		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)
	})

	t.Run("Error_TamperedCiphertext", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)
		env, _ := cryptoDomain.ParseEnvelope(encrypted, 32)
		iv, _, _ := cryptoDomain.SplitSymmetricSecret(env.Secret)
		env.Secret = cryptoDomain.JoinSymmetricSecret(iv, "AAAAAAAAAAAAAAAAAAAAAAAA")

		_, err = cryptor.Decrypt(ctx, env.String())

		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestFieldCryptor_Restricted(t *testing.T) {
	ctx := context.Background()
	opts := Options{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeRestricted, Restricted: true}

	t.Run("Success_RestrictedDeploymentEncryptsButPassesThroughOnDecrypt", func(t *testing.T) {
		cryptor, store := newTestFieldCryptor(t, opts, restrictedKeyPath, true)

		encrypted, err := cryptor.Encrypt(ctx, "hiv-positive")
		require.NoError(t, err)
		prep, err := cryptor.GetPrepValue(ctx, encrypted, "hiv-positive", true)
		require.NoError(t, err)
		assert.Equal(t, 1, store.puts)

		plaintext, err := cryptor.Decrypt(ctx, prep)
		assert.NoError(t, err)
		assert.Equal(t, prep, plaintext)

		plaintext, err = cryptor.Decrypt(ctx, encrypted)
		assert.NoError(t, err)
		assert.Equal(t, encrypted, plaintext)
	})

	t.Run("Success_LocalModeStillDecryptsOnRestrictedDeployment", func(t *testing.T) {
		local := Options{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeLocal, Restricted: true}
		cryptor, _ := newTestFieldCryptor(t, local, restrictedKeyPath, true)

		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)
		plaintext, err := cryptor.Decrypt(ctx, encrypted)
		require.NoError(t, err)
		assert.Equal(t, "value", plaintext)
	})

	t.Run("Success_FullDeploymentDecryptsRestrictedValues", func(t *testing.T) {
		writer, _ := newTestFieldCryptor(t, opts, restrictedKeyPath, true)
		reader, _ := newTestFieldCryptor(
			t,
			Options{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeRestricted},
			fullKeyPath,
			false,
		)

		encrypted, err := writer.Encrypt(ctx, "value")
		require.NoError(t, err)
		plaintext, err := reader.Decrypt(ctx, encrypted)
		require.NoError(t, err)
		assert.Equal(t, "value", plaintext)
	})

	t.Run("Error_MissingKeyWithoutRestrictedFlag", func(t *testing.T) {
		unflagged := Options{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeRestricted}
		cryptor, _ := newTestFieldCryptor(t, unflagged, restrictedKeyPath, true)

		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)

		_, err = cryptor.Decrypt(ctx, encrypted)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotLoaded)
	})
}

func TestFieldCryptor_GetHash(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DeterministicAndExtractable", func(t *testing.T) {
		for _, opts := range allPairs {
			cryptor, _ := newTestFieldCryptor(t, opts, fullKeyPath, false)

			first, err := cryptor.GetHash(ctx, "2020-01-01")
			require.NoError(t, err)
			second, err := cryptor.GetHash(ctx, "2020-01-01")
			require.NoError(t, err)
			assert.Equal(t, first, second)

			encrypted, err := cryptor.Encrypt(ctx, "2020-01-01")
			require.NoError(t, err)
			extracted, err := cryptor.GetHash(ctx, encrypted)
			require.NoError(t, err)
			assert.Equal(t, first, extracted)
		}
	})

	t.Run("Success_PairsDoNotShareDigests", func(t *testing.T) {
		local, _ := newTestFieldCryptor(t, allPairs[1], fullKeyPath, false)
		restricted, _ := newTestFieldCryptor(t, allPairs[2], fullKeyPath, false)

		a, err := local.GetHash(ctx, "value")
		require.NoError(t, err)
		b, err := restricted.GetHash(ctx, "value")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Success_HashWithPrefix", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

		empty, err := cryptor.GetHashWithPrefix(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, empty)

		prefixed, err := cryptor.GetHashWithPrefix(ctx, "value")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(prefixed, cryptoDomain.HashPrefix))
		assert.Len(t, prefixed, len(cryptoDomain.HashPrefix)+32)
	})
}

func TestFieldCryptor_GetPrepValue(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_UnchangedValueSkipsLookup", func(t *testing.T) {
		cryptor, store := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)

		prep, err := cryptor.GetPrepValue(ctx, encrypted, encrypted, true)
		require.NoError(t, err)
		assert.False(t, strings.Contains(prep, cryptoDomain.SecretPrefix))
		assert.Equal(t, 0, store.puts)
	})

	t.Run("Success_SuppressedLookupUpdate", func(t *testing.T) {
		cryptor, store := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)

		_, err = cryptor.GetPrepValue(ctx, encrypted, "value", false)
		require.NoError(t, err)
		assert.Equal(t, 0, store.puts)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

		prep, err := cryptor.GetPrepValue(ctx, "", "", true)
		assert.NoError(t, err)
		assert.Empty(t, prep)
	})

	t.Run("Error_LookupWriteFailure", func(t *testing.T) {
		loader := cryptoService.NewFileKeyLoader(fullKeyPath, nil, false)
		store := &lookupUsecaseMocks.MockSecretStore{}
		putErr := errors.New("read-only transaction")
		store.On("Put", ctx, mock.Anything, mock.Anything, (*string)(nil)).Return(putErr).Once()
		cryptor, err := NewFieldCryptor(
			allPairs[0],
			cryptoService.NewKeyRing(loader, false),
			cryptoService.NewBlake2bHasher(),
			store,
		)
		require.NoError(t, err)
		encrypted, err := cryptor.Encrypt(ctx, "value")
		require.NoError(t, err)

		_, err = cryptor.GetPrepValue(ctx, encrypted, "value", true)

		assert.ErrorIs(t, err, putErr)
		store.AssertExpectations(t)
	})
}

func TestFieldCryptor_GetSecretFromHashSecret(t *testing.T) {
	ctx := context.Background()
	cryptor, store := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
	digest := strings.Repeat("cd", 16)
	store.secrets[lookupDomain.Key{Algorithm: cryptoDomain.AES, Mode: cryptoDomain.ModeLocal, Hash: digest}] = "stored"

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{name: "embedded secret", value: cryptoDomain.HashPrefix + digest + cryptoDomain.SecretPrefix + "inline", want: "inline"},
		{name: "hash only resolves from store", value: cryptoDomain.HashPrefix + digest, want: "stored"},
		{name: "empty", value: "", want: ""},
		{name: "plaintext is rejected", value: "plain", wantErr: cryptoDomain.ErrInvalidEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := cryptor.GetSecretFromHashSecret(ctx, tt.value, digest)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, secret)
		})
	}
}

func TestFieldCryptor_UpdateSecretInLookup(t *testing.T) {
	ctx := context.Background()
	cryptor, store := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)

	digest := strings.Repeat("ef", 16)
	require.NoError(t, cryptor.UpdateSecretInLookup(ctx, cryptoDomain.HashPrefix+digest+cryptoDomain.SecretPrefix+"s1"))
	require.NoError(t, cryptor.UpdateSecretInLookup(ctx, cryptoDomain.HashPrefix+digest+cryptoDomain.SecretPrefix+"s2"))
	require.NoError(t, cryptor.UpdateSecretInLookup(ctx, cryptoDomain.HashPrefix+digest))
	require.NoError(t, cryptor.UpdateSecretInLookup(ctx, ""))

	secret, found, err := store.Get(ctx, lookupDomain.Key{Algorithm: cryptoDomain.AES, Mode: cryptoDomain.ModeLocal, Hash: digest})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "s2", secret)
	assert.Equal(t, 2, store.puts)

	err = cryptor.UpdateSecretInLookup(ctx, "plain")
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)
}

func TestFieldCryptor_Mask(t *testing.T) {
	ctx := context.Background()
	cryptor, _ := newTestFieldCryptor(t, allPairs[0], fullKeyPath, false)
	encrypted, err := cryptor.Encrypt(ctx, "value")
	require.NoError(t, err)

	assert.Equal(t, DefaultMask, cryptor.Mask(encrypted, ""))
	assert.Equal(t, "<encrypted>", cryptor.Mask(cryptoDomain.HashPrefix+strings.Repeat("0", 32), ""))
	assert.Equal(t, "***", cryptor.Mask(encrypted, "***"))
	assert.Equal(t, "value", cryptor.Mask("value", ""))
	assert.Equal(t, "", cryptor.Mask("", ""))
}

func TestFieldCryptor_Options(t *testing.T) {
	opts := Options{Algorithm: cryptoDomain.RSA, Mode: cryptoDomain.ModeRestricted, Restricted: true}
	cryptor, _ := newTestFieldCryptor(t, opts, restrictedKeyPath, true)

	assert.Equal(t, opts, cryptor.Options())
	assert.True(t, cryptor.IsEncrypted(cryptoDomain.SecretPrefix+"x", cryptoDomain.SecretPrefix))
	assert.False(t, cryptor.IsEncrypted(cryptoDomain.SecretPrefix+"x", ""))
}

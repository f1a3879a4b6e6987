package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProviderWithNamespace", func(t *testing.T) {
		provider, err := NewProvider("cryptfields")

		require.NoError(t, err)
		assert.NotNil(t, provider)
		assert.NotNil(t, provider.meterProvider)
		assert.NotNil(t, provider.exporter)
		assert.NotNil(t, provider.registry)
	})

	t.Run("Success_CreateProviderWithEmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})
}

func TestProvider_MeterProvider(t *testing.T) {
	provider, err := NewProvider("cryptfields")
	require.NoError(t, err)

	assert.NotNil(t, provider.MeterProvider())
}

func TestProvider_WriteToTextfile(t *testing.T) {
	t.Run("Success_WritesFile", func(t *testing.T) {
		provider, err := NewProvider("cryptfields")
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "cryptfields.prom")

		require.NoError(t, provider.WriteToTextfile(path))

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("Error_MissingDirectory", func(t *testing.T) {
		provider, err := NewProvider("cryptfields")
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "missing", "cryptfields.prom")

		err = provider.WriteToTextfile(path)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write metrics textfile")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("cryptfields")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}

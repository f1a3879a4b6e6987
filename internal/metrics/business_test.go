package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("cryptfields")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "cryptfields")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("cryptfields")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "cryptfields")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "lookup", "get", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "lookup", "get", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "lookup", "get", "success")
		bm.RecordOperation(context.Background(), "field", "encrypt", "success")
		bm.RecordOperation(context.Background(), "lookup", "import", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("cryptfields")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "cryptfields")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "lookup", "get", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "lookup", "get", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "lookup", "get", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "field", "encrypt", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "lookup", "import", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "lookup", "get", "success")
		noOpMetrics.RecordOperation(context.Background(), "field", "encrypt", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"lookup",
			"get",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "field", "encrypt", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "lookup", "get", "success")
	bm.RecordOperation(ctx, "lookup", "get", "success")
	bm.RecordOperation(ctx, "lookup", "get", "error")
	bm.RecordOperation(ctx, "field", "encrypt", "success")
	bm.RecordOperation(ctx, "field", "decrypt", "success")
	bm.RecordOperation(ctx, "lookup", "import", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "lookup", "get", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "lookup", "get", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "lookup", "get", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "field", "encrypt", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "field", "decrypt", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "lookup", "import", 150*time.Millisecond, "success")

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, provider.WriteToTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	output := string(content)

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="lookup".*operation="get".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="lookup".*operation="get".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="field".*operation="encrypt".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="lookup".*operation="get".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="lookup".*operation="get".*status="success"`,
		``,
	)
}

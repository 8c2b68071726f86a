package commands

import (
	"context"
	"path/filepath"
	"testing"

	"unitables/internal/extract"

	"github.com/stretchr/testify/require"
)

func countShutdowns(t *testing.T) *int {
	t.Helper()
	calls := 0
	original := shutdownOtel
	shutdownOtel = func(ctx context.Context) error {
		calls++
		return original(ctx)
	}
	t.Cleanup(func() {
		shutdownOtel = original
		rootCmd.SetArgs(nil)
	})
	return &calls
}

func TestExecuteShutsDownAfterFailure(t *testing.T) {
	calls := countShutdowns(t)
	missingConfig := filepath.Join(t.TempDir(), "unitables.json5")

	rootCmd.SetArgs([]string{"costs", "--which", "invalid", "--config", missingConfig})
	err := execute(context.Background())
	require.ErrorIs(t, err, extract.ErrInvalidArgument)
	require.Equal(t, 1, *calls)
}

func TestExecuteShutsDownAfterUsageError(t *testing.T) {
	calls := countShutdowns(t)

	rootCmd.SetArgs([]string{"rankings", "--no-such-flag"})
	err := execute(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, *calls)
}

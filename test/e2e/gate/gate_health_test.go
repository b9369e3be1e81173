package gate_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	ctx := context.Background()

	t.Run("livez", func(t *testing.T) {
		health, err := client.Livez(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotEmpty(t, health.Uptime)
		require.NotEmpty(t, health.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		health, err := client.Readyz(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
		require.Equal(t, "ok", health.Checks.Signer)
	})
}

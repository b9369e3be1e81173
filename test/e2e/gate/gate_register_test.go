package gate_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestRegisterWithMasterKey(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	resp := registerUser(t, client, "Alice", "alice@example.com", "Password123!")

	require.Equal(t, "Alice", resp.Name)
	require.Equal(t, "alice@example.com", resp.Email)
}

func TestRegisterRejectsUnknownKey(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	_, err := client.Register(context.Background(),
		"Alice", "alice@example.com", "Password123!", "not-a-real-key")
	requireAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodeKeyInvalid)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	ctx := context.Background()

	tests := []struct {
		name                      string
		userName, email, password string
		key                       string
	}{
		{"no name", "", "a@x.com", "pw", masterKey},
		{"no email", "Alice", "", "pw", masterKey},
		{"no password", "Alice", "a@x.com", "", masterKey},
		{"no key", "Alice", "a@x.com", "pw", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Register(ctx, tt.userName, tt.email, tt.password, tt.key)
			requireAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodeMissingFields)
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	registerUser(t, client, "Alice", "alice@example.com", "Password123!")

	// Same email with different casing is still a duplicate
	_, err := client.Register(context.Background(),
		"Mallory", "Alice@Example.COM", "Other123!", masterKey)
	requireAPIError(t, err, http.StatusConflict, gatesdk.ErrorCodeDuplicateEmail)
}

func TestRegisterKeyIsCaseSensitive(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)

	_, err := client.Register(context.Background(),
		"Alice", "alice@example.com", "Password123!", "TEST-MASTER-KEY-12345")
	requireAPIError(t, err, http.StatusBadRequest, gatesdk.ErrorCodeKeyInvalid)
}

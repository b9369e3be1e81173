package gate_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestLoginAndFetchIdentity(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	registerUser(t, client, "Alice", "alice@example.com", "Password123!")

	session := loginUser(t, client, "alice@example.com", "Password123!")
	require.Equal(t, "Alice", session.User().Name)
	require.False(t, session.User().IsAdmin)

	me, err := session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, session.User().ID, me.ID)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	registerUser(t, client, "Alice", "alice@example.com", "Password123!")

	loginUser(t, client, "ALICE@EXAMPLE.COM", "Password123!")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	client := gatesdk.NewClient(baseURL)
	registerUser(t, client, "Alice", "alice@example.com", "Password123!")

	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.Login(ctx, "alice@example.com", "WrongPassword!")
		requireAPIError(t, err, http.StatusUnauthorized, gatesdk.ErrorCodeInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := client.Login(ctx, "nobody@example.com", "Password123!")
		requireAPIError(t, err, http.StatusUnauthorized, gatesdk.ErrorCodeInvalidCredentials)
	})

	t.Run("failures use the same error code", func(t *testing.T) {
		// Neither response may reveal whether the email exists
		_, errUnknown := client.Login(ctx, "nobody@example.com", "x")
		_, errWrong := client.Login(ctx, "alice@example.com", "x")

		unknownAPI := errUnknown.(*gatesdk.APIError)
		wrongAPI := errWrong.(*gatesdk.APIError)
		require.Equal(t, unknownAPI.Code, wrongAPI.Code)
		require.Equal(t, unknownAPI.StatusCode, wrongAPI.StatusCode)
	})
}

func TestSessionMeRequiresToken(t *testing.T) {
	baseURL, cleanup := setupGateContainer(t)
	defer cleanup()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/session/me", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

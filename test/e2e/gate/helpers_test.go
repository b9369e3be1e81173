package gate_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/pkg/gatesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for gate service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "keygate-test:latest"

	masterKey        = "test-master-key-12345"
	masterKeyMaxUses = "100"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Gate Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Gate Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/keygate/Dockerfile",
		"../../../")
	cmd.Dir = "." // Ensure we're in the test directory
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupGateContainer starts the gate service in a container and returns the base URL.
func setupGateContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"KEYGATE_DATABASE_FILE":       "/keygate.db",
			"KEYGATE_PEPPER_FILE":         "/pepper",
			"KEYGATE_ISSUER":              "keygate",
			"KEYGATE_MASTER_KEY":          masterKey,
			"KEYGATE_MASTER_KEY_MAX_USES": masterKeyMaxUses,
			"ENV":                         "test",
			"LOG_LEVEL":                   "info",
			"LOG_FORMAT":                  "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	// Get the mapped port
	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// registerUser registers an account through the master key and asserts success.
func registerUser(t *testing.T, client *gatesdk.Client, name, email, password string) *gatesdk.RegisterResponse {
	t.Helper()

	resp, err := client.Register(context.Background(), name, email, password, masterKey)
	require.NoError(t, err, "registration should succeed")
	require.NotEmpty(t, resp.UserID)
	return resp
}

// loginUser logs in and returns the authenticated session.
func loginUser(t *testing.T, client *gatesdk.Client, email, password string) *gatesdk.Session {
	t.Helper()

	session, err := client.Login(context.Background(), email, password)
	require.NoError(t, err, "login should succeed")
	require.NotEmpty(t, session.Token())
	return session
}

// requireAPIError asserts err is an APIError with the given status and code.
func requireAPIError(t *testing.T, err error, statusCode int, code string) {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*gatesdk.APIError)
	require.True(t, ok, "error should be an *gatesdk.APIError, got %T: %v", err, err)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

package referral_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/referral/pkg/jwtx"
	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for referral service end-to-end tests.
 * This includes container setup, token minting, and client construction.
 */

const (
	testImageName = "bartab-referral-test:latest"

	jwtSecret = "e2e-test-jwt-secret-0123456789abcdef"
	jwtIssuer = "bartab-auth"

	signupServiceName  = "signup"
	signupServiceToken = "test-signup-service-token-12345"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Referral Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Referral Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/referral/Dockerfile",
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

// baseEnv returns the environment common to every test container.
func baseEnv() map[string]string {
	return map[string]string{
		"REFERRAL_JWT_SECRET":     jwtSecret,
		"REFERRAL_JWT_ISSUER":     jwtIssuer,
		"REFERRAL_SERVICE_TOKENS": signupServiceName + ":" + signupServiceToken,
		"REFERRAL_DATABASE_FILE":  "/tmp/referral.db",
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",
	}
}

// setupReferralContainer starts the referral service in a container and
// returns the base URL. Rate limits are relaxed so ordinary tests don't trip
// them; use setupReferralContainerWithQuotas for rate limit testing.
func setupReferralContainer(t *testing.T) (string, func()) {
	t.Helper()

	env := baseEnv()
	// Increase rate limits for E2E tests to prevent test failures
	// Tests often make many rapid requests which would otherwise hit the strict production limits
	env["RATELIMIT_STRICT_REQUESTS"] = "1000"
	env["RATELIMIT_STRICT_BURST"] = "1000"
	env["RATELIMIT_MODERATE_REQUESTS"] = "1000"
	env["RATELIMIT_MODERATE_BURST"] = "1000"
	env["RATELIMIT_PUBLIC_REQUESTS"] = "1000"
	env["RATELIMIT_PUBLIC_BURST"] = "1000"
	env["REFERRAL_UPDATE_LIMIT"] = "1000"
	env["REFERRAL_VALIDATE_LIMIT"] = "1000"

	return startContainer(t, env)
}

// setupReferralContainerWithQuotas starts the referral service with small
// business quotas so rate limit behaviour can be observed quickly. The
// in-process limiter stays relaxed so only the store-backed quotas trip.
func setupReferralContainerWithQuotas(t *testing.T, updateLimit, validateLimit int) (string, func()) {
	t.Helper()

	env := baseEnv()
	env["RATELIMIT_STRICT_REQUESTS"] = "1000"
	env["RATELIMIT_STRICT_BURST"] = "1000"
	env["RATELIMIT_MODERATE_REQUESTS"] = "1000"
	env["RATELIMIT_MODERATE_BURST"] = "1000"
	env["RATELIMIT_PUBLIC_REQUESTS"] = "1000"
	env["RATELIMIT_PUBLIC_BURST"] = "1000"
	env["REFERRAL_UPDATE_LIMIT"] = fmt.Sprintf("%d", updateLimit)
	env["REFERRAL_VALIDATE_LIMIT"] = fmt.Sprintf("%d", validateLimit)

	return startContainer(t, env)
}

func startContainer(t *testing.T, env map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
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

// mintAccessToken signs a JWT the service will accept, the way the auth
// service would for a logged-in user.
func mintAccessToken(t *testing.T, subject, username string, scopes []string) string {
	t.Helper()

	signer := jwtx.NewHS256([]byte(jwtSecret), jwtIssuer, nil)
	claims := jwtx.NewAccessClaims(subject, scopes, time.Hour, jwtIssuer, nil, username, time.Now())

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

// userClient builds an SDK client authenticated as the given user with full
// referral scopes.
func userClient(t *testing.T, baseURL, subject, username string) *referralsdk.SDKClient {
	t.Helper()

	client := referralsdk.NewSDKClient(baseURL)
	client.AccessToken = mintAccessToken(t, subject, username, []string{"referral:read", "referral:write"})
	return client
}

// serviceClient builds an SDK client authenticated as the signup service.
func serviceClient(baseURL string) *referralsdk.SDKClient {
	client := referralsdk.NewSDKClient(baseURL)
	client.ServiceToken = signupServiceToken
	return client
}

// assertAPIError checks that err is an *referralsdk.APIError with the given
// HTTP status and error code.
func assertAPIError(t *testing.T, err error, status int, code string) *referralsdk.APIError {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*referralsdk.APIError)
	require.True(t, ok, "expected *referralsdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

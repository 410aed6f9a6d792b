package referral_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUpdateCodeQuota verifies the per-owner daily quota on code updates.
// The container runs with a quota of 2 so the third attempt trips it.
func TestUpdateCodeQuota(t *testing.T) {
	baseURL, cleanup := setupReferralContainerWithQuotas(t, 2, 1000)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	ctx := context.Background()

	_, err := alice.UpdateCode(ctx, "FIRST-CODE")
	require.NoError(t, err)

	_, err = alice.UpdateCode(ctx, "SECOND-CODE")
	require.NoError(t, err)

	_, err = alice.UpdateCode(ctx, "THIRD-CODE")
	apiErr := assertAPIError(t, err, 429, "rate_limit_exceeded")
	require.True(t, apiErr.IsRateLimited())
	require.Greater(t, apiErr.RetryAfter, 0, "Retry-After should be set")

	// The quota is per owner; another user is unaffected.
	bob := userClient(t, baseURL, "user-bob", "bob")
	_, err = bob.UpdateCode(ctx, "BOB-CODE")
	require.NoError(t, err)

	// The code kept its last accepted value.
	code, err := alice.GetCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "SECOND-CODE", code.Code)
}

// TestUpdateCodeQuotaSkipsInvalidInput verifies that requests rejected by the
// code rules don't spend the quota.
func TestUpdateCodeQuotaSkipsInvalidInput(t *testing.T) {
	baseURL, cleanup := setupReferralContainerWithQuotas(t, 2, 1000)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	ctx := context.Background()

	// Burn through more rule rejections than the whole quota.
	for i := 0; i < 5; i++ {
		_, err := alice.UpdateCode(ctx, "ADMIN")
		assertAPIError(t, err, 400, "code_reserved")
	}

	// The quota is still intact.
	_, err := alice.UpdateCode(ctx, "STILL-FINE")
	require.NoError(t, err)

	_, err = alice.UpdateCode(ctx, "STILL-FINE2")
	require.NoError(t, err)

	_, err = alice.UpdateCode(ctx, "NOW-BLOCKED")
	assertAPIError(t, err, 429, "rate_limit_exceeded")
}

// TestValidateCodeQuota verifies the per-caller quota on public validation.
// The container runs with a quota of 3 per minute.
func TestValidateCodeQuota(t *testing.T) {
	baseURL, cleanup := setupReferralContainerWithQuotas(t, 1000, 3)
	defer cleanup()

	anon := serviceClient(baseURL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := anon.ValidateCode(ctx, fmt.Sprintf("SOME-CODE-%d", i))
		require.NoError(t, err, "request %d should be within quota", i+1)
	}

	_, err := anon.ValidateCode(ctx, "ONE-TOO-MANY")
	apiErr := assertAPIError(t, err, 429, "rate_limit_exceeded")
	require.True(t, apiErr.IsRateLimited())
	require.Greater(t, apiErr.RetryAfter, 0)
	require.LessOrEqual(t, apiErr.RetryAfter, 60, "retry hint should fit the window")
}

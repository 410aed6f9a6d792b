package referral_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/referral/pkg/referralsdk"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies the liveness and readiness probes.
func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	client := serviceClient(baseURL)
	ctx := context.Background()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}

// TestGetOrCreateCode verifies first-touch code generation from the username
// and that repeated fetches return the same code.
func TestGetOrCreateCode(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	ctx := context.Background()

	code, err := alice.GetCode(ctx)
	require.NoError(t, err)
	require.Equal(t, "ALICE", code.Code, "first code should derive from the username")
	require.True(t, code.IsActive)
	require.Equal(t, int64(0), code.UseCount)

	again, err := alice.GetCode(ctx)
	require.NoError(t, err)
	require.Equal(t, code.Code, again.Code, "repeated fetches should be stable")
}

// TestUpdateCode covers custom code claims: success, immediate visibility,
// conflicts, and rule rejections.
func TestUpdateCode(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	bob := userClient(t, baseURL, "user-bob", "bob")
	ctx := context.Background()

	// Claim a custom value; lowercase input should normalize to uppercase.
	updated, err := alice.UpdateCode(ctx, "friends2026")
	require.NoError(t, err)
	require.Equal(t, "FRIENDS2026", updated.Code)

	// The new value is immediately usable publicly.
	validation, err := bob.ValidateCode(ctx, "FRIENDS2026")
	require.NoError(t, err)
	require.True(t, validation.Valid)

	// Another user cannot claim the same value, in any casing.
	_, err = bob.UpdateCode(ctx, "Friends2026")
	assertAPIError(t, err, 409, "code_taken")

	// Rule failures are rejected before anything changes.
	_, err = bob.UpdateCode(ctx, "ab")
	assertAPIError(t, err, 400, "invalid_request")

	_, err = bob.UpdateCode(ctx, "ADMIN")
	assertAPIError(t, err, 400, "code_reserved")

	_, err = bob.UpdateCode(ctx, strings.Repeat("X", 21))
	assertAPIError(t, err, 400, "invalid_request")
}

// TestCheckAvailability verifies the advisory availability endpoint.
func TestCheckAvailability(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	bob := userClient(t, baseURL, "user-bob", "bob")
	ctx := context.Background()

	_, err := alice.UpdateCode(ctx, "TAKEN123")
	require.NoError(t, err)

	// Taken by someone else.
	avail, err := bob.CheckAvailability(ctx, "TAKEN123")
	require.NoError(t, err)
	require.False(t, avail.Available)
	require.Equal(t, "taken", avail.Reason)

	// Your own current value counts as available to you.
	avail, err = alice.CheckAvailability(ctx, "taken123")
	require.NoError(t, err)
	require.True(t, avail.Available)

	// Free value.
	avail, err = bob.CheckAvailability(ctx, "FREE-VALUE")
	require.NoError(t, err)
	require.True(t, avail.Available)

	// Rule failures report the reason instead of erroring.
	avail, err = bob.CheckAvailability(ctx, "ADMIN")
	require.NoError(t, err)
	require.False(t, avail.Available)
	require.Equal(t, "reserved", avail.Reason)

	// The endpoint is public; anonymous callers get the plain answer.
	anon := referralsdk.NewSDKClient(baseURL)
	avail, err = anon.CheckAvailability(ctx, "TAKEN123")
	require.NoError(t, err)
	require.False(t, avail.Available)
}

// TestValidateCode verifies the public validation endpoint for unknown and
// malformed codes. Usable codes are covered by TestUpdateCode.
func TestValidateCode(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	client := serviceClient(baseURL)
	ctx := context.Background()

	validation, err := client.ValidateCode(ctx, "NO-SUCH-CODE")
	require.NoError(t, err)
	require.False(t, validation.Valid)
	require.Equal(t, "not_found", validation.Reason)

	validation, err = client.ValidateCode(ctx, "a!")
	require.NoError(t, err)
	require.False(t, validation.Valid)
	require.Equal(t, "invalid_format", validation.Reason)
}

// TestAttributionLifecycle walks a referral end to end: signup attribution,
// completion, reward, and the owner's view of it all.
func TestAttributionLifecycle(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	signup := serviceClient(baseURL)
	ctx := context.Background()

	code, err := alice.GetCode(ctx)
	require.NoError(t, err)

	// Bob signs up with Alice's code.
	attribution, err := signup.AttributeSignup(ctx, "user-bob", code.Code)
	require.NoError(t, err)
	require.NotEmpty(t, attribution.ID)
	require.Equal(t, "user-alice", attribution.ReferrerID)
	require.Equal(t, "user-bob", attribution.ReferredID)
	require.Equal(t, "PENDING", attribution.Status)

	// The consumption is visible on the owner's code.
	code, err = alice.GetCode(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), code.UseCount)

	// An account can only ever be referred once.
	_, err = signup.AttributeSignup(ctx, "user-bob", code.Code)
	assertAPIError(t, err, 409, "already_referred")

	// Self-referral is rejected.
	_, err = signup.AttributeSignup(ctx, "user-alice", code.Code)
	assertAPIError(t, err, 400, "self_referral")

	// Unknown codes 404.
	_, err = signup.AttributeSignup(ctx, "user-carol", "NO-SUCH-CODE")
	assertAPIError(t, err, 404, "not_found")

	// Reward before completion is an ordering error.
	_, err = signup.RewardReferral(ctx, attribution.ID)
	assertAPIError(t, err, 409, "not_yet_completed")

	// Complete, then completing again is idempotent.
	completed, err := signup.CompleteReferral(ctx, attribution.ID)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", completed.Status)
	require.NotEmpty(t, completed.CompletedAt)

	completed, err = signup.CompleteReferral(ctx, attribution.ID)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", completed.Status)

	// Reward, idempotent as well.
	rewarded, err := signup.RewardReferral(ctx, attribution.ID)
	require.NoError(t, err)
	require.Equal(t, "REWARDED", rewarded.Status)
	require.NotEmpty(t, rewarded.RewardedAt)

	rewarded, err = signup.RewardReferral(ctx, attribution.ID)
	require.NoError(t, err)
	require.Equal(t, "REWARDED", rewarded.Status)

	// Signals for unknown referrals 404.
	_, err = signup.CompleteReferral(ctx, "no-such-referral")
	assertAPIError(t, err, 404, "not_found")

	// The owner sees the referral and its counts.
	list, err := alice.ListReferrals(ctx)
	require.NoError(t, err)
	require.Len(t, list.Referrals, 1)
	require.Equal(t, attribution.ID, list.Referrals[0].ID)
	require.Equal(t, "REWARDED", list.Referrals[0].Status)

	stats, err := alice.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Total)
	require.Equal(t, int64(0), stats.Pending)
	require.Equal(t, int64(0), stats.Completed)
	require.Equal(t, int64(1), stats.Rewarded)
}

// TestDeactivateCode verifies the internal kill switch.
func TestDeactivateCode(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	alice := userClient(t, baseURL, "user-alice", "alice")
	signup := serviceClient(baseURL)
	ctx := context.Background()

	code, err := alice.GetCode(ctx)
	require.NoError(t, err)

	require.NoError(t, signup.DeactivateCode(ctx, "user-alice"))

	// The code stops validating and attributing.
	validation, err := signup.ValidateCode(ctx, code.Code)
	require.NoError(t, err)
	require.False(t, validation.Valid)
	require.Equal(t, "inactive", validation.Reason)

	_, err = signup.AttributeSignup(ctx, "user-bob", code.Code)
	assertAPIError(t, err, 409, "code_inactive")

	// Unknown owners 404.
	err = signup.DeactivateCode(ctx, "no-such-owner")
	assertAPIError(t, err, 404, "not_found")
}

// TestAuthRequired verifies that user endpoints reject missing tokens and
// internal endpoints reject unknown service tokens.
func TestAuthRequired(t *testing.T) {
	baseURL, cleanup := setupReferralContainer(t)
	defer cleanup()

	ctx := context.Background()

	// No access token.
	anon := serviceClient(baseURL)
	_, err := anon.GetCode(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")

	// Wrong service token.
	bad := serviceClient(baseURL)
	bad.ServiceToken = "not-a-registered-token"
	_, err = bad.AttributeSignup(ctx, "user-bob", "ANY")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")

	// A user token without the write scope cannot update the code.
	readOnly := referralsdk.NewSDKClient(baseURL)
	readOnly.AccessToken = mintAccessToken(t, "user-carol", "carol", []string{"referral:read"})
	_, err = readOnly.UpdateCode(ctx, "CAROLCODE")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

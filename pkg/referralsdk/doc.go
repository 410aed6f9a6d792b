/*
Package referralsdk provides a client SDK for the referral and attribution
service.

The SDK is deliberately thin: access tokens are minted by the auth service
and passed in, and internal endpoints authenticate with a static service
token. Construct a client and hand it whichever credentials the calling
context has:

	client := referralsdk.NewSDKClient("https://referral.example.com")
	client.AccessToken = userAccessToken // for /v1/referral/* endpoints
	client.ServiceToken = serviceToken   // for /v1/internal/* endpoints

	code, err := client.GetCode(ctx)
	result, err := client.ValidateCode(ctx, "ALICE123")

Errors returned by the service are surfaced as *APIError, which carries the
HTTP status plus the machine-readable error code.
*/
package referralsdk

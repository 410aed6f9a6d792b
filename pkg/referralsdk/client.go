package referralsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SDKClient is a client for the referral service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// AccessToken authenticates user-facing endpoints (/v1/referral/*).
	AccessToken string

	// ServiceToken authenticates internal endpoints (/v1/internal/*).
	ServiceToken string
}

// NewSDKClient creates a referral service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetCode fetches the caller's referral code, generating one on first touch.
func (c *SDKClient) GetCode(ctx context.Context) (*CodeResponse, error) {
	var out CodeResponse
	if err := c.do(ctx, http.MethodGet, "/v1/referral/code", nil, c.AccessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCode replaces the caller's code with a custom value.
func (c *SDKClient) UpdateCode(ctx context.Context, code string) (*CodeResponse, error) {
	var out CodeResponse
	req := UpdateCodeRequest{Code: code}
	if err := c.do(ctx, http.MethodPut, "/v1/referral/code", req, c.AccessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAvailability asks whether the caller could claim the value.
func (c *SDKClient) CheckAvailability(ctx context.Context, code string) (*AvailabilityResponse, error) {
	path := "/v1/referral/codes/availability?code=" + url.QueryEscape(code)

	var out AvailabilityResponse
	if err := c.do(ctx, http.MethodGet, path, nil, c.AccessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStats fetches the caller's referral counts by status.
func (c *SDKClient) GetStats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/referral/stats", nil, c.AccessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReferrals fetches the caller's referrals, newest first.
func (c *SDKClient) ListReferrals(ctx context.Context) (*ReferralsResponse, error) {
	var out ReferralsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/referral/referrals", nil, c.AccessToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateCode checks whether a code is currently usable. Public endpoint,
// no authentication required.
func (c *SDKClient) ValidateCode(ctx context.Context, code string) (*ValidationResponse, error) {
	path := "/v1/referral/codes/" + url.PathEscape(code) + "/validate"

	var out ValidationResponse
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttributeSignup records a referral for a newly signed-up account.
// Internal endpoint; requires ServiceToken.
func (c *SDKClient) AttributeSignup(ctx context.Context, referredID, code string) (*AttributionResponse, error) {
	req := AttributionRequest{ReferredID: referredID, Code: code}

	var out AttributionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/internal/referral/attributions", req, c.ServiceToken, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteReferral signals that a referred account has qualified.
// Internal endpoint; requires ServiceToken. Safe to repeat.
func (c *SDKClient) CompleteReferral(ctx context.Context, referralID string) (*ReferralResponse, error) {
	path := "/v1/internal/referral/referrals/" + url.PathEscape(referralID) + "/complete"

	var out ReferralResponse
	if err := c.do(ctx, http.MethodPost, path, nil, c.ServiceToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RewardReferral signals that the referral reward has been issued.
// Internal endpoint; requires ServiceToken. Safe to repeat.
func (c *SDKClient) RewardReferral(ctx context.Context, referralID string) (*ReferralResponse, error) {
	path := "/v1/internal/referral/referrals/" + url.PathEscape(referralID) + "/reward"

	var out ReferralResponse
	if err := c.do(ctx, http.MethodPost, path, nil, c.ServiceToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateCode turns an owner's code off. Internal endpoint; requires
// ServiceToken.
func (c *SDKClient) DeactivateCode(ctx context.Context, ownerID string) error {
	path := "/v1/internal/referral/codes/" + url.PathEscape(ownerID) + "/deactivate"
	return c.do(ctx, http.MethodPost, path, nil, c.ServiceToken, nil, http.StatusNoContent)
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs a request, optionally with a bearer token and JSON body, and
// decodes the response into target. Non-expected statuses decode into an
// *APIError.
func (c *SDKClient) do(
	ctx context.Context,
	method, path string,
	body any,
	token string,
	target any,
	expectedStatus int,
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return decodeAPIError(resp)
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: resp.Status,
	}

	// Best effort: keep the status-derived defaults when the body isn't the
	// standard envelope.
	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Code = envelope.Error
		apiErr.Description = envelope.ErrorDescription
	}

	if retry := resp.Header.Get("Retry-After"); retry != "" {
		if secs, err := strconv.Atoi(retry); err == nil {
			apiErr.RetryAfter = secs
		}
	}

	return apiErr
}

package petstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ============================================================================
// Grant Requests (RFC 6749 sections 4.3 and 6)
// ============================================================================

// AccessTokenRequest carries the parameters of an OAuth2 password grant.
type AccessTokenRequest struct {
	Username string
	Password string
	Scope    string
}

// Values renders the grant as form fields.
func (r AccessTokenRequest) Values() url.Values {
	data := url.Values{
		"grant_type": {"password"},
		"username":   {r.Username},
		"password":   {r.Password},
	}
	if r.Scope != "" {
		data.Set("scope", r.Scope)
	}
	return data
}

// RefreshTokenRequest carries the parameters of an OAuth2 refresh grant.
type RefreshTokenRequest struct {
	RefreshToken string
	Scope        string
}

// Values renders the grant as form fields.
func (r RefreshTokenRequest) Values() url.Values {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {r.RefreshToken},
	}
	if r.Scope != "" {
		data.Set("scope", r.Scope)
	}
	return data
}

// TokenSuccess is the token endpoint success payload per RFC 6749.
type TokenSuccess struct {
	// AccessToken is the credential to present as a bearer token
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds; zero or absent means the
	// server declared no lifetime and the token is treated as never expiring
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// RefreshToken, when present, can be exchanged for a fresh lease
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the space-delimited list of granted scopes
	Scope string `json:"scope,omitempty"`
}

// ExpiresInDuration returns ExpiresIn as a time.Duration.
func (t *TokenSuccess) ExpiresInDuration() time.Duration {
	return time.Duration(t.ExpiresIn) * time.Second
}

// ============================================================================
// Password-Flow Token Client
// ============================================================================

// PasswordFlowClient executes OAuth2 password and refresh grants against a
// token endpoint. It holds its own HTTP client, independent of the API
// transport, so token exchanges are never themselves intercepted by the
// middleware chain.
type PasswordFlowClient struct {
	// TokenURL is the endpoint receiving password grants
	TokenURL string

	// RefreshURL optionally receives refresh grants; when empty, refresh
	// grants go to TokenURL
	RefreshURL string

	// HTTPClient performs the exchanges
	HTTPClient *http.Client
}

// NewPasswordFlowClient creates a flow client for the given token endpoint.
func NewPasswordFlowClient(tokenURL string) *PasswordFlowClient {
	return &PasswordFlowClient{
		TokenURL: tokenURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RequestAccessToken executes a password grant.
//
// A 200 response parses into a TokenSuccess. A 400 or 401 response parses
// into a *TokenError returned as the error. Any other status, or a body that
// parses as neither shape, yields an *UnexpectedResponseError carrying the
// raw response. Network-level failures are returned wrapped but untyped, so
// they remain distinguishable from protocol-shaped failures.
func (c *PasswordFlowClient) RequestAccessToken(
	ctx context.Context,
	req AccessTokenRequest,
) (*TokenSuccess, error) {
	return c.exchange(ctx, c.TokenURL, req.Values())
}

// RequestRefreshToken executes a refresh grant against RefreshURL, falling
// back to TokenURL when no separate refresh endpoint is configured.
func (c *PasswordFlowClient) RequestRefreshToken(
	ctx context.Context,
	req RefreshTokenRequest,
) (*TokenSuccess, error) {
	target := c.RefreshURL
	if target == "" {
		target = c.TokenURL
	}
	return c.exchange(ctx, target, req.Values())
}

func (c *PasswordFlowClient) exchange(
	ctx context.Context,
	target string,
	data url.Values,
) (*TokenSuccess, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		target,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	return parseTokenResponse(resp)
}

// parseTokenResponse interprets a token endpoint response: 200 as a success
// payload, 400/401 as an RFC 6749 error payload, everything else (including
// unparseable bodies) as an unexpected response.
func parseTokenResponse(resp *http.Response) (*TokenSuccess, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, &UnexpectedResponseError{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Reason:     "unreadable token response body",
			}
		}
		var success TokenSuccess
		if json.Unmarshal(body, &success) != nil || success.AccessToken == "" {
			return nil, &UnexpectedResponseError{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Body:       body,
				Reason:     "body is not a token success payload",
			}
		}
		return &success, nil

	case http.StatusBadRequest, http.StatusUnauthorized:
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, &UnexpectedResponseError{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Reason:     "unreadable token response body",
			}
		}
		var tokenErr TokenError
		if json.Unmarshal(body, &tokenErr) != nil || tokenErr.Code == "" {
			return nil, &UnexpectedResponseError{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Body:       body,
				Reason:     "body is not a token error payload",
			}
		}
		return nil, &tokenErr

	default:
		return nil, newUnexpectedResponse(resp, "status outside the token exchange set")
	}
}

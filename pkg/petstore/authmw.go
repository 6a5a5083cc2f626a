package petstore

import (
	"context"
	"io"
	"net/http"
)

// authorizationHeader is attached with a lowercase scheme token, preserved
// exactly for wire compatibility with servers that match on it.
const authorizationHeader = "Authorization"

// AuthMiddleware drives the OAuth2 password-flow lifecycle for each request:
// it attaches the current bearer token, and on a 401 tries a refresh grant,
// then a login grant, before retrying the request at most once with the
// fresh token.
//
// Refresh and login failures shaped like auth-protocol errors (a rejected
// grant, an unexpected token endpoint response) degrade to "no token
// available" and let the original 401 surface. Transport-level failures
// during refresh/login are deliberately NOT swallowed: a dead network aborts
// the whole request rather than masquerading as an auth failure.
type AuthMiddleware struct {
	// State is the shared credential/lease record; typically also held by
	// the code that constructed the middleware
	State *AuthState

	// Flow executes the grants against the token endpoint
	Flow *PasswordFlowClient

	// OnUpdate, when set, observes every successful token exchange after
	// the state has been updated. Hook point for persisting tokens.
	OnUpdate func(*TokenSuccess)
}

// NewAuthMiddleware wires an auth state to a password-flow client.
func NewAuthMiddleware(state *AuthState, flow *PasswordFlowClient) *AuthMiddleware {
	return &AuthMiddleware{State: state, Flow: flow}
}

// Handle is the Middleware entrypoint; register it with Client.AddMiddleware.
func (m *AuthMiddleware) Handle(ctx context.Context, req *http.Request, next Send) (*http.Response, error) {
	// A lease about to expire is renewed up front so the request does not
	// waste a round trip on a predictable 401.
	if m.State.IsExpired() {
		if _, err := m.refresh(ctx); err != nil {
			return nil, err
		}
	}

	if token := m.State.AccessToken(); token != "" {
		setAccessHeader(req, token, false)
	}

	resp, err := next(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	tokens, err := m.refresh(ctx)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens, err = m.login(ctx)
		if err != nil {
			return nil, err
		}
	}
	if tokens == nil {
		// Neither grant produced a token; the original 401 stands.
		return resp, nil
	}

	drainBody(resp)
	setAccessHeader(req, tokens.AccessToken, true)
	rewindBody(req)
	return next(ctx, req)
}

// login executes the password grant built from the held credentials.
// Returns (nil, nil) when no credentials are held or the server rejected the
// grant; the state is untouched in either case.
func (m *AuthMiddleware) login(ctx context.Context) (*TokenSuccess, error) {
	grant := m.State.LoginRequest()
	if grant == nil {
		return nil, nil
	}
	tok, err := m.Flow.RequestAccessToken(ctx, *grant)
	return m.settle(tok, err)
}

// refresh executes the refresh grant built from the held refresh token.
// Returns (nil, nil) when no refresh token is held or the server rejected
// the grant; the state is untouched in either case.
func (m *AuthMiddleware) refresh(ctx context.Context) (*TokenSuccess, error) {
	grant := m.State.RefreshRequest()
	if grant == nil {
		return nil, nil
	}
	tok, err := m.Flow.RequestRefreshToken(ctx, *grant)
	return m.settle(tok, err)
}

// settle folds a grant outcome into the auth state: protocol-shaped
// failures become "no token", transport failures propagate, and a usable
// payload atomically replaces the lease.
func (m *AuthMiddleware) settle(tok *TokenSuccess, err error) (*TokenSuccess, error) {
	if err != nil {
		if isAuthProtocolError(err) {
			return nil, nil
		}
		return nil, err
	}
	if updateErr := m.State.Update(tok); updateErr != nil {
		return nil, nil
	}
	if m.OnUpdate != nil {
		m.OnUpdate(tok)
	}
	return tok, nil
}

// setAccessHeader attaches the bearer token. With replace false it uses
// setdefault semantics, so a caller-supplied Authorization header wins; the
// post-401 retry passes replace true to force the fresh token in.
func setAccessHeader(req *http.Request, token string, replace bool) {
	if !replace && req.Header.Get(authorizationHeader) != "" {
		return
	}
	req.Header.Set(authorizationHeader, "bearer "+token)
}

// rewindBody restores a replayable request body before the retry. Requests
// built by this package carry GetBody; one-shot streaming bodies cannot be
// restored and will be resent empty.
func rewindBody(req *http.Request) {
	if req.GetBody == nil {
		return
	}
	if body, err := req.GetBody(); err == nil {
		req.Body = body
	}
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

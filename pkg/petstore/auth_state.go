package petstore

import (
	"errors"
	"sync"
	"time"
)

// expiryMargin is the safety window before the recorded expiry at which a
// token is already treated as expired, so a request does not start with a
// token that dies mid-flight.
const expiryMargin = 30 * time.Second

// AuthState holds the credentials and the current token lease for one
// client. It is shared by reference between the auth middleware and whoever
// constructed it, so credentials can be set or read from outside.
//
// All access is mutex-guarded and therefore safe for concurrent requests.
// Refresh attempts are not single-flighted: concurrent requests racing
// through the auth middleware may each trigger a token exchange, which is
// harmless duplication against the token endpoint.
type AuthState struct {
	mu sync.Mutex

	username string
	password string

	accessToken  string
	refreshToken string
	scope        string
	expiresAt    time.Time // zero value means no expiry recorded
}

// NewAuthState creates an empty auth state; set credentials before expecting
// logins to succeed.
func NewAuthState() *AuthState {
	return &AuthState{}
}

// NewAuthStateWithCredentials creates an auth state primed with a
// username/password pair for the password grant.
func NewAuthStateWithCredentials(username, password string) *AuthState {
	return &AuthState{username: username, password: password}
}

// SetCredentials installs or replaces the password-grant credentials.
func (s *AuthState) SetCredentials(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.password = password
}

// SetScope requests a specific scope on future grants.
func (s *AuthState) SetScope(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = scope
}

// AccessToken returns the current access token, empty when none is held.
func (s *AuthState) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, empty when none is held.
func (s *AuthState) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Scope returns the currently recorded scope.
func (s *AuthState) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// ExpiresAt returns the recorded expiry instant; the zero time means the
// lease never expires (or no lease is held).
func (s *AuthState) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the current token must be treated as unusable:
// false when no expiry is recorded, true when the expiry falls before now
// plus the 30-second safety margin.
func (s *AuthState) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expiresAt.IsZero() {
		return false
	}
	return s.expiresAt.Before(time.Now().UTC().Add(expiryMargin))
}

// LoginRequest builds a password grant from the held credentials, or nil
// when username or password is absent.
func (s *AuthState) LoginRequest() *AccessTokenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.username == "" || s.password == "" {
		return nil
	}
	return &AccessTokenRequest{
		Username: s.username,
		Password: s.password,
		Scope:    s.scope,
	}
}

// RefreshRequest builds a refresh grant from the held refresh token, or nil
// when no refresh token is held.
func (s *AuthState) RefreshRequest() *RefreshTokenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshToken == "" {
		return nil
	}
	return &RefreshTokenRequest{
		RefreshToken: s.refreshToken,
		Scope:        s.scope,
	}
}

// ErrMalformedTokenResponse reports a token payload that cannot replace the
// current lease.
var ErrMalformedTokenResponse = errors.New("petstore: malformed token response")

// Update replaces the current lease from a successful token exchange. The
// replacement is all-or-nothing: a malformed payload (missing access token)
// leaves every field untouched. On success the access token, refresh token
// and scope are overwritten unconditionally; the expiry becomes now plus the
// declared lifetime, or is cleared (never-expiring) when the server declared
// none.
func (s *AuthState) Update(tok *TokenSuccess) error {
	if tok == nil || tok.AccessToken == "" {
		return ErrMalformedTokenResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = tok.AccessToken
	s.refreshToken = tok.RefreshToken
	s.scope = tok.Scope
	if tok.ExpiresIn > 0 {
		s.expiresAt = time.Now().UTC().Add(tok.ExpiresInDuration())
	} else {
		s.expiresAt = time.Time{}
	}
	return nil
}

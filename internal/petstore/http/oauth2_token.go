package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/pkg/httpx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// tokenResponse is the RFC 6749 success payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// TokenHandler serves POST /oauth/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		errInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	// 3. Handle the grant type
	switch r.Form.Get("grant_type") {
	case "password":
		h.handlePasswordGrant(w, r, r.Form)
	case "refresh_token":
		h.handleRefreshGrant(w, r, r.Form)
	default:
		errUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handlePasswordGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")
	requested := splitScopes(form.Get("scope"))

	if username == "" || password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	ctx := slogx.With(r.Context(), slogx.Username(username))
	log := slogx.FromContext(ctx)

	pair, err := h.TokenService.ExchangePassword(ctx, username, password, requested)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			errInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrInvalidScope):
			errInvalidScope.WriteError(w)
		default:
			log.Error("password grant failed", slogx.Err(err))
			errServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn.Seconds()), pair.Scope)
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := form.Get("refresh_token")
	requested := splitScopes(form.Get("scope"))

	if refresh == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangeRefreshToken(ctx, refresh, requested)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			errInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrInvalidScope):
			errInvalidScope.WriteError(w)
		default:
			log.Error("refresh grant failed", slogx.Err(err))
			errServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn.Seconds()), pair.Scope)
}

// splitScopes parses the space-delimited RFC 6749 scope parameter. Empty or
// all-whitespace input means no scopes were requested.
func splitScopes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func writeTokenResponse(w http.ResponseWriter, access, refresh string, expiresIn int, scope string) {
	// token_type is informational. Clients attach the lowercase "bearer"
	// scheme on the wire and the authn side parses either casing, so changing
	// this value must not change request signing.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
		RefreshToken: refresh,
		Scope:        strings.TrimSpace(scope),
	})
}

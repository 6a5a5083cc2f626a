package petstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("success payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "password", r.PostForm.Get("grant_type"))
			require.Equal(t, "alice", r.PostForm.Get("username"))
			require.Equal(t, "s3cret", r.PostForm.Get("password"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"access_token": "tok-1",
				"token_type": "bearer",
				"expires_in": 3600,
				"refresh_token": "refresh-1",
				"scope": "read"
			}`))
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		tok, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{
			Username: "alice",
			Password: "s3cret",
		})
		require.NoError(t, err)
		require.Equal(t, "tok-1", tok.AccessToken)
		require.Equal(t, "bearer", tok.TokenType)
		require.EqualValues(t, 3600, tok.ExpiresIn)
		require.Equal(t, "refresh-1", tok.RefreshToken)
		require.Equal(t, "read", tok.Scope)
	})

	t.Run("rejected grant yields a TokenError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"bad credentials"}`))
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		_, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{
			Username: "alice",
			Password: "wrong",
		})

		var tokenErr *TokenError
		require.ErrorAs(t, err, &tokenErr)
		require.Equal(t, ErrorCodeInvalidGrant, tokenErr.Code)
		require.Equal(t, "bad credentials", tokenErr.Description)
	})

	t.Run("success status without a token is unexpected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		_, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{Username: "a", Password: "b"})

		var unexpected *UnexpectedResponseError
		require.ErrorAs(t, err, &unexpected)
		require.Equal(t, http.StatusOK, unexpected.StatusCode)
	})

	t.Run("error status without an error code is unexpected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`gateway noise`))
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		_, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{Username: "a", Password: "b"})

		var unexpected *UnexpectedResponseError
		require.ErrorAs(t, err, &unexpected)
		require.Equal(t, http.StatusBadRequest, unexpected.StatusCode)
		require.Equal(t, []byte("gateway noise"), unexpected.Body)
	})

	t.Run("status outside the exchange set is unexpected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		_, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{Username: "a", Password: "b"})

		var unexpected *UnexpectedResponseError
		require.ErrorAs(t, err, &unexpected)
		require.Equal(t, http.StatusBadGateway, unexpected.StatusCode)
	})

	t.Run("transport failure stays untyped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		flow := NewPasswordFlowClient(srv.URL)
		_, err := flow.RequestAccessToken(context.Background(), AccessTokenRequest{Username: "a", Password: "b"})
		require.Error(t, err)

		var tokenErr *TokenError
		var unexpected *UnexpectedResponseError
		require.False(t, errors.As(err, &tokenErr))
		require.False(t, errors.As(err, &unexpected))
	})
}

func TestRequestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("posts a refresh grant", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			require.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
			_, _ = w.Write([]byte(`{"access_token":"tok-2","token_type":"bearer","refresh_token":"refresh-2"}`))
		}))
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL)
		tok, err := flow.RequestRefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "refresh-1"})
		require.NoError(t, err)
		require.Equal(t, "tok-2", tok.AccessToken)
		require.Equal(t, "refresh-2", tok.RefreshToken)
	})

	t.Run("uses the dedicated refresh endpoint when set", func(t *testing.T) {
		var tokenHits, refreshHits int
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			tokenHits++
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
		})
		mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshHits++
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		flow := NewPasswordFlowClient(srv.URL + "/token")
		flow.RefreshURL = srv.URL + "/refresh"

		_, err := flow.RequestRefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: "r"})
		require.NoError(t, err)
		require.Equal(t, 0, tokenHits)
		require.Equal(t, 1, refreshHits)
	})
}

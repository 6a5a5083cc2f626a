package http

import (
	"encoding/json"
	"net/http"

	"github.com/fourpaws/petstore/pkg/httpx"
)

// oauth2Error is an RFC 6749 error response.
type oauth2Error struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *oauth2Error) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	errInvalidRequest = &oauth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "the request is malformed or missing required parameters",
	}

	errInvalidGrant = &oauth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_grant",
		Description: "the provided grant is invalid, expired, or revoked",
	}

	errInvalidScope = &oauth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_scope",
		Description: "the requested scope is invalid or exceeds what the account allows",
	}

	errUnsupportedGrantType = &oauth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        "unsupported_grant_type",
		Description: "only password and refresh_token grants are supported",
	}

	errInvalidContentType = &oauth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "content type must be application/x-www-form-urlencoded",
	}

	errServerError = &oauth2Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        "server_error",
		Description: "an unexpected condition prevented the request from succeeding",
	}
)

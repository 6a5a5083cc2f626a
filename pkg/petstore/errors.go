package petstore

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ============================================================================
// OAuth2 Error Codes (RFC 6749)
// ============================================================================

const (
	// OAuth2 token endpoint error codes per RFC 6749 section 5.2
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnauthorizedClient   = "unauthorized_client"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeInvalidScope         = "invalid_scope"
)

// ============================================================================
// Error Kinds
// ============================================================================

// ResponseHandlingError reports that a response (or the attempt to obtain one)
// could not be turned into the expected result. It wraps either a
// transport-level failure raised at the innermost chain link, or a decode
// failure when a 2xx body does not match the expected type.
type ResponseHandlingError struct {
	Cause error
}

// Error implements the error interface.
func (e *ResponseHandlingError) Error() string {
	return fmt.Sprintf("petstore: response handling failed: %v", e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *ResponseHandlingError) Unwrap() error { return e.Cause }

// UnexpectedResponseError reports an HTTP status outside the accepted set:
// anything but 200/201 for an API call, or anything but {200, 400, 401} for a
// token exchange. It carries the raw response for caller inspection.
type UnexpectedResponseError struct {
	// StatusCode is the HTTP status code of the offending response
	StatusCode int

	// Header holds the response headers as received
	Header http.Header

	// Body is the raw response body (already drained and closed)
	Body []byte

	// Reason optionally notes why the response was rejected beyond its
	// status code (e.g. an unparseable token payload)
	Reason string
}

// Error implements the error interface.
func (e *UnexpectedResponseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("petstore: unexpected response (status %d): %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("petstore: unexpected response (status %d): %s", e.StatusCode, string(e.Body))
}

// newUnexpectedResponse drains the response body and builds an
// UnexpectedResponseError from it. The body is closed.
func newUnexpectedResponse(resp *http.Response, reason string) *UnexpectedResponseError {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return &UnexpectedResponseError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Reason:     reason,
	}
}

// TokenError is a parsed RFC 6749 token endpoint error payload (HTTP 400 or
// 401). It represents "the server rejected the grant" and is treated by the
// auth middleware as "no token available" rather than a fatal failure.
type TokenError struct {
	// Code is one of the six enumerated OAuth2 error codes, or an arbitrary
	// string when the server deviates from the RFC
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description,omitempty"`

	// URI optionally points at documentation for the error
	URI string `json:"error_uri,omitempty"`
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("petstore: token endpoint error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("petstore: token endpoint error %s", e.Code)
}

// isAuthProtocolError reports whether err is an auth-protocol-shaped failure
// (a parsed grant rejection or an unexpected token endpoint response). The
// auth middleware degrades these to "could not get a token"; transport-level
// failures are deliberately excluded so connectivity problems fail fast.
func isAuthProtocolError(err error) bool {
	var te *TokenError
	var ure *UnexpectedResponseError
	return errors.As(err, &te) || errors.As(err, &ure)
}

package petstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Client is the petstore API client: it builds requests from typed inputs,
// runs them through the middleware chain and the injected transport, and
// decodes the terminal response into typed results.
//
// Construct one explicitly and pass it where needed; there is no implicit
// process-wide instance.
type Client struct {
	// Host is prefixed to every request URL, e.g. "https://petstore.example.com/v2"
	Host string

	// Transport performs the actual sends; defaults to an *http.Client wrapper
	Transport Transport

	middleware []Middleware
}

// NewClient creates a client for the given host using the default HTTP
// transport.
func NewClient(host string) *Client {
	return &Client{
		Host:      strings.TrimSuffix(host, "/"),
		Transport: NewHTTPTransport(nil),
	}
}

// sendInner is the innermost chain link: it forwards into the transport and
// wraps transport-level failures (connection refused, timeouts, DNS) into a
// ResponseHandlingError, keeping transport-originated faults on one uniform
// channel distinct from HTTP-status faults.
func (c *Client) sendInner(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.Transport.Send(ctx, req)
	if err != nil {
		return nil, &ResponseHandlingError{Cause: err}
	}
	return resp, nil
}

// ============================================================================
// Request Building
// ============================================================================

type requestSpec struct {
	pathParams map[string]string
	query      url.Values
	header     http.Header
	jsonBody   any
	hasJSON    bool
	formBody   url.Values
	rawBody    []byte
	rawType    string
	buildErr   error
}

// RequestOption customizes a single API request.
type RequestOption func(*requestSpec)

// WithPathParam substitutes a {name} placeholder in the URL template.
func WithPathParam(name, value string) RequestOption {
	return func(s *requestSpec) {
		if s.pathParams == nil {
			s.pathParams = make(map[string]string)
		}
		s.pathParams[name] = value
	}
}

// WithQuery appends query string values. Repeating a name sends the
// parameter multiple times (?tags=a&tags=b).
func WithQuery(name string, values ...string) RequestOption {
	return func(s *requestSpec) {
		if s.query == nil {
			s.query = url.Values{}
		}
		for _, v := range values {
			s.query.Add(name, v)
		}
	}
}

// WithJSON marshals body as the JSON request payload.
func WithJSON(body any) RequestOption {
	return func(s *requestSpec) {
		s.jsonBody = body
		s.hasJSON = true
	}
}

// WithForm sends values as an application/x-www-form-urlencoded payload.
func WithForm(values url.Values) RequestOption {
	return func(s *requestSpec) {
		s.formBody = values
	}
}

// WithMultipartFile buffers a multipart/form-data payload with a single file
// part named fieldName plus any extra plain form fields. Buffering the whole
// payload keeps http.Request.GetBody populated so the request stays
// replayable through the middleware chain.
func WithMultipartFile(fieldName, filename string, file io.Reader, fields map[string]string) RequestOption {
	return func(s *requestSpec) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for name, value := range fields {
			if err := mw.WriteField(name, value); err != nil {
				s.buildErr = fmt.Errorf("failed to write form field %q: %w", name, err)
				return
			}
		}
		part, err := mw.CreateFormFile(fieldName, filename)
		if err != nil {
			s.buildErr = fmt.Errorf("failed to create file part: %w", err)
			return
		}
		if file != nil {
			if _, err := io.Copy(part, file); err != nil {
				s.buildErr = fmt.Errorf("failed to read upload: %w", err)
				return
			}
		}
		if err := mw.Close(); err != nil {
			s.buildErr = fmt.Errorf("failed to finish multipart body: %w", err)
			return
		}
		s.rawBody = buf.Bytes()
		s.rawType = mw.FormDataContentType()
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(s *requestSpec) {
		if s.header == nil {
			s.header = http.Header{}
		}
		s.header.Set(key, value)
	}
}

// buildRequest resolves the URL template against the host and path params and
// assembles an *http.Request. Bodies are built from in-memory buffers so
// http.Request.GetBody is populated and the auth middleware can safely retry.
func (c *Client) buildRequest(
	ctx context.Context,
	method, urlTemplate string,
	spec *requestSpec,
) (*http.Request, error) {
	target := urlTemplate
	for name, value := range spec.pathParams {
		target = strings.ReplaceAll(target, "{"+name+"}", url.PathEscape(value))
	}
	target = c.Host + target
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case spec.hasJSON:
		data, err := json.Marshal(spec.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	case spec.formBody != nil:
		body = strings.NewReader(spec.formBody.Encode())
		contentType = "application/x-www-form-urlencoded"
	case spec.rawBody != nil:
		body = bytes.NewReader(spec.rawBody)
		contentType = spec.rawType
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range spec.header {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	return req, nil
}

// ============================================================================
// Typed Dispatch
// ============================================================================

// request performs an API call and decodes a 200/201 JSON body into T.
// Any other status yields an UnexpectedResponseError carrying the raw
// response; a body that does not decode as T yields a ResponseHandlingError
// wrapping the decode failure.
func request[T any](
	ctx context.Context,
	c *Client,
	method, urlTemplate string,
	opts ...RequestOption,
) (T, error) {
	var zero T

	resp, err := do(ctx, c, method, urlTemplate, opts...)
	if err != nil {
		return zero, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return zero, &ResponseHandlingError{Cause: err}
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return zero, &ResponseHandlingError{Cause: err}
	}
	return result, nil
}

// requestNoContent performs an API call whose success carries no value; the
// response body (petstore replies with an ApiResponse blob on some deletes)
// is drained and discarded.
func requestNoContent(
	ctx context.Context,
	c *Client,
	method, urlTemplate string,
	opts ...RequestOption,
) error {
	resp, err := do(ctx, c, method, urlTemplate, opts...)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// do builds the request, runs the middleware chain and enforces the success
// status set. Callers own the returned body.
func do(
	ctx context.Context,
	c *Client,
	method, urlTemplate string,
	opts ...RequestOption,
) (*http.Response, error) {
	var spec requestSpec
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.buildErr != nil {
		return nil, spec.buildErr
	}

	req, err := c.buildRequest(ctx, method, urlTemplate, &spec)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, newUnexpectedResponse(resp, "")
	}
	return resp, nil
}

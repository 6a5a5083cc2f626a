package petstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func stubTransport(status int, body string) Transport {
	return TransportFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Request:    req,
		}, nil
	})
}

func TestMiddlewareOrdering(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com")
	c.Transport = stubTransport(http.StatusOK, `{}`)

	var trace []string
	tap := func(name string) Middleware {
		return func(ctx context.Context, req *http.Request, next Send) (*http.Response, error) {
			trace = append(trace, name+":before")
			resp, err := next(ctx, req)
			trace = append(trace, name+":after")
			return resp, err
		}
	}

	c.AddMiddleware(tap("inner"))
	c.AddMiddleware(tap("outer"))

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	// Last added runs first, so it sees the request earliest and the
	// response last.
	require.Equal(t, []string{
		"outer:before",
		"inner:before",
		"inner:after",
		"outer:after",
	}, trace)
}

func TestMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	transportCalled := false
	c := NewClient("http://example.com")
	c.Transport = TransportFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		transportCalled = true
		return stubTransport(http.StatusOK, `{}`).Send(ctx, req)
	})

	c.AddMiddleware(func(ctx context.Context, req *http.Request, next Send) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewReader(nil)),
		}, nil
	})

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusTeapot, resp.StatusCode)
	require.False(t, transportCalled)
}

func TestMiddlewareRequestMutation(t *testing.T) {
	t.Parallel()

	var seen string
	c := NewClient("http://example.com")
	c.Transport = TransportFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("X-Trace-Id")
		return stubTransport(http.StatusOK, `{}`).Send(ctx, req)
	})
	c.AddMiddleware(func(ctx context.Context, req *http.Request, next Send) (*http.Response, error) {
		req.Header.Set("X-Trace-Id", "trace-123")
		return next(ctx, req)
	})

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "trace-123", seen)
}

func TestTransportErrorWrapped(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com")
	c.Transport = TransportFunc(func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), req)
	var handling *ResponseHandlingError
	require.ErrorAs(t, err, &handling)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

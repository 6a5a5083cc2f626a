package petstore

import (
	"context"
	"net/http"
	"time"
)

// Transport sends a fully-formed request and returns the raw response. The
// default implementation wraps *http.Client; anything that can satisfy this
// (recorded fixtures, in-memory servers, instrumented clients) can be
// injected instead. Connection pooling, TLS, timeouts and cancellation are
// the transport's business, not the middleware chain's.
type Transport interface {
	Send(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return f(ctx, req)
}

type httpTransport struct {
	client *http.Client
}

func (t *httpTransport) Send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return t.client.Do(req.WithContext(ctx))
}

// NewHTTPTransport wraps an *http.Client as a Transport. A nil client gets a
// sensible default timeout.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpTransport{client: client}
}

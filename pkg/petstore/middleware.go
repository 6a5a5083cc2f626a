package petstore

import (
	"context"
	"net/http"
)

// Send is the continuation handed to a middleware: it represents the rest of
// the chain plus the transport.
type Send func(ctx context.Context, req *http.Request) (*http.Response, error)

// Middleware is one link of the request/response interceptor chain. It may
// inspect or mutate the outgoing request in place, call next at most once to
// perform the call (or not at all to short-circuit), inspect the response on
// the way back, and call next a second time to retry.
//
// Retrying resends the same request object. Bodies built from in-memory data
// are rewound via http.Request.GetBody; a one-shot streaming body cannot be
// replayed and will be resent empty, so streaming requests are not safely
// retryable.
type Middleware func(ctx context.Context, req *http.Request, next Send) (*http.Response, error)

// AddMiddleware registers mw as the new outermost link: it runs before every
// previously registered middleware, which collectively become its next.
//
// The chain is kept as an explicit ordered slice so execution order is easy
// to reason about: middlewares run in reverse registration order, with the
// transport pass-through as the innermost link. AddMiddleware is not safe to
// call concurrently with in-flight requests.
func (c *Client) AddMiddleware(mw Middleware) {
	c.middleware = append(c.middleware, mw)
}

// Do runs a request through the middleware chain down to the transport and
// returns the raw response. Most callers want the typed helpers instead; Do
// is the seam for wire-level interception and tests.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.dispatch(ctx, req, len(c.middleware)-1)
}

// dispatch invokes c.middleware[i] with the remainder of the chain as its
// continuation. Index -1 is the innermost pass-through into the transport.
func (c *Client) dispatch(ctx context.Context, req *http.Request, i int) (*http.Response, error) {
	if i < 0 {
		return c.sendInner(ctx, req)
	}
	next := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return c.dispatch(ctx, req, i-1)
	}
	return c.middleware[i](ctx, req, next)
}

/*
Package petstore provides a client SDK for the petstore API with OAuth2
password-flow authentication.

# Overview

The package is organized around three main types:

  - Client: builds and dispatches typed API requests through a composable
    middleware chain
  - PasswordFlowClient: exchanges credentials and refresh tokens at the
    OAuth2 token endpoint
  - AuthMiddleware: attaches bearer tokens to outgoing requests and
    transparently recovers from 401 responses

Create a Client for the API host, then attach authentication:

	client := petstore.NewClient("https://petstore.example.com/v2")

	flow := petstore.NewPasswordFlowClient("https://petstore.example.com/oauth/token")
	state := petstore.NewAuthStateWithCredentials("alice", "s3cret")
	client.AddMiddleware(petstore.NewAuthMiddleware(state, flow).Handle)

	pet, err := client.GetPetByID(ctx, 42)

# Token Lifecycle

AuthState holds the credentials and the current token pair under a mutex, so
one state may back clients shared across goroutines. Tokens are considered
expired 30 seconds before their reported lifetime elapses, which keeps a
request from departing with a token that dies in flight.

AuthMiddleware refreshes proactively when the held token is expired, and
reactively when the server answers 401: it attempts a refresh grant, falls
back to a password grant, and retries the request exactly once with the new
token. Token-endpoint responses that are malformed or carry an OAuth2 error
body are swallowed during recovery (the original 401 is returned instead);
transport failures propagate.

# Middleware

Middleware wraps request dispatch the way http.Handler wrappers do on the
server side. Middlewares are run in reverse registration order, so the last
one added observes the request first and the response last:

	client.AddMiddleware(loggingMiddleware) // innermost
	client.AddMiddleware(authMiddleware)    // outermost

# Errors

API failures surface as one of three types:

  - ResponseHandlingError: the transport failed or the response body could
    not be read or decoded
  - UnexpectedResponseError: the server answered with a status outside the
    operation's contract; carries the raw status, headers, and body
  - TokenError: the token endpoint returned a structured OAuth2 error
    (invalid_grant, invalid_client, ...)
*/
package petstore

package petstore

import (
	"context"
	"net/http"
)

// ============================================================================
// User Operations
// ============================================================================

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, user User) error {
	return requestNoContent(ctx, c, http.MethodPost, "/user", WithJSON(user))
}

// CreateUsersWithArray registers a batch of accounts via /user/createWithArray.
func (c *Client) CreateUsersWithArray(ctx context.Context, users []User) error {
	return requestNoContent(ctx, c, http.MethodPost, "/user/createWithArray", WithJSON(users))
}

// CreateUsersWithList registers a batch of accounts via /user/createWithList.
func (c *Client) CreateUsersWithList(ctx context.Context, users []User) error {
	return requestNoContent(ctx, c, http.MethodPost, "/user/createWithList", WithJSON(users))
}

// GetUserByName fetches an account by username.
func (c *Client) GetUserByName(ctx context.Context, username string) (User, error) {
	return request[User](ctx, c, http.MethodGet, "/user/{username}",
		WithPathParam("username", username),
	)
}

// UpdateUser replaces an account's profile.
func (c *Client) UpdateUser(ctx context.Context, username string, user User) error {
	return requestNoContent(ctx, c, http.MethodPut, "/user/{username}",
		WithPathParam("username", username),
		WithJSON(user),
	)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return requestNoContent(ctx, c, http.MethodDelete, "/user/{username}",
		WithPathParam("username", username),
	)
}

// LoginUser performs the legacy query-parameter login and returns the
// server's status message.
func (c *Client) LoginUser(ctx context.Context, username, password string) (string, error) {
	resp, err := request[APIResponse](ctx, c, http.MethodGet, "/user/login",
		WithQuery("username", username),
		WithQuery("password", password),
	)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// LogoutUser ends the current session.
func (c *Client) LogoutUser(ctx context.Context) error {
	return requestNoContent(ctx, c, http.MethodGet, "/user/logout")
}

package petstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fourpaws/petstore/pkg/petstore"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	// Registration is public, so a bare client can create the account.
	public := petstore.NewClient(env.Server.URL)
	require.NoError(t, public.CreateUser(ctx, petstore.User{
		Username:  "alice",
		FirstName: "Alice",
		Email:     "alice@example.com",
		Password:  "Wonderland1!",
	}))

	// The new account authenticates with its own credentials.
	c, _ := newAuthedClient(env, "alice", "Wonderland1!")

	got, err := c.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.FirstName)
	require.Empty(t, got.Password)

	got.FirstName = "Alicia"
	require.NoError(t, c.UpdateUser(ctx, "alice", got))

	updated, err := c.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Alicia", updated.FirstName)

	require.NoError(t, c.DeleteUser(ctx, "alice"))
}

func TestCreateUsersWithList(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	public := petstore.NewClient(env.Server.URL)
	require.NoError(t, public.CreateUsersWithList(ctx, []petstore.User{
		{Username: "bonnie", Password: "Bank$1942", Email: "bonnie@example.com"},
		{Username: "clyde", Password: "Bank$1942", Email: "clyde@example.com"},
	}))

	// Each batched account can authenticate on its own.
	c, _ := newAuthedClient(env, "clyde", "Bank$1942")
	got, err := c.GetUserByName(ctx, "clyde")
	require.NoError(t, err)
	require.Equal(t, "clyde@example.com", got.Email)

	// A clashing username rejects the batch.
	err = public.CreateUsersWithList(ctx, []petstore.User{
		{Username: "bonnie", Password: "Bank$1942"},
	})
	var unexpected *petstore.UnexpectedResponseError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, http.StatusConflict, unexpected.StatusCode)
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	c := petstore.NewClient(env.Server.URL)

	msg, err := c.LoginUser(ctx, seedUsername, seedPassword)
	require.NoError(t, err)
	require.Contains(t, msg, "logged in user session:")

	_, err = c.LoginUser(ctx, seedUsername, "wrong")
	var unexpected *petstore.UnexpectedResponseError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, 400, unexpected.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	env := setupServer(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(env.Server.URL + path)
		require.NoError(t, err)

		var body struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NoError(t, resp.Body.Close())

		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, "ok", body.Status, path)
	}
}

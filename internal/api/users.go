package api

import (
	"context"
	"net/http"
)

// ListUsers lists client accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.do(ctx, http.MethodGet, "/api/users/", nil, nil, &users)
	return users, err
}

// GetUser returns one client account.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/users/"+escape(id), nil, nil, &user)
	return user, err
}

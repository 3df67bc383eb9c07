package api

import (
	"context"
	"net/http"

	"github.com/vedran77/ripple/internal/domain"
)

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type ProfileUpdate struct {
	Username       string `json:"username,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Me verifies the current bearer token and returns the identity behind it.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	in := map[string]string{"username": username, "email": email, "password": password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	var resp struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

package backend

import (
	"context"
	"net/http"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (string, domain.User, error) {
	var out authResponse
	err := c.do(ctx, "", http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &out)
	if err != nil {
		return "", domain.User{}, err
	}
	return out.Token, out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	var out authResponse
	err := c.do(ctx, "", http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", domain.User{}, err
	}
	return out.Token, out.User, nil
}

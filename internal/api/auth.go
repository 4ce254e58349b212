package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"optical-console/internal/schema"
)

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login 换取 access token；401 转成 CredentialsError，内容取后端原文
func (c *Client) Login(ctx context.Context, in schema.LoginForm) (string, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", in, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			msg := se.Body
			if msg == "" {
				msg = DefaultCredentialsMessage
			}
			return "", &CredentialsError{Message: msg}
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("api login: empty access token")
	}
	return out.AccessToken, nil
}

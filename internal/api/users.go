package api

import (
	"context"
	"net/http"
	"net/url"

	"optical-console/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, "list_users", http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, "get_user", http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, u domain.UserPayload) (*domain.User, error) {
	var out *domain.User
	if err := c.do(ctx, "create_user", http.MethodPost, "/api/users", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUser 部分更新，payload 中省略的字段不变
func (c *Client) UpdateUser(ctx context.Context, id string, u domain.UserPayload) (*domain.User, error) {
	var out *domain.User
	if err := c.do(ctx, "update_user", http.MethodPut, "/api/users/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ArchiveUser(ctx context.Context, id string) error {
	return c.do(ctx, "archive_user", http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

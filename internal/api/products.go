package api

import (
	"context"
	"net/http"
	"net/url"

	"optical-console/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, "get_product", http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateProduct 后端可能只回状态码，此时返回 nil
func (c *Client) CreateProduct(ctx context.Context, p domain.ProductPayload) (*domain.Product, error) {
	return c.writeProduct(ctx, "create_product", http.MethodPost, "/api/products", p)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.ProductPayload) (*domain.Product, error) {
	return c.writeProduct(ctx, "update_product", http.MethodPut, "/api/products/"+url.PathEscape(id), p)
}

func (c *Client) ArchiveProduct(ctx context.Context, id string) error {
	return c.do(ctx, "archive_product", http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) writeProduct(ctx context.Context, op, method, path string, p domain.ProductPayload) (*domain.Product, error) {
	var out *domain.Product
	if err := c.do(ctx, op, method, path, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

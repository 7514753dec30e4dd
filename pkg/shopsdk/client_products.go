package shopsdk

import (
	"context"
	"net/http"
)

// ListProducts returns the public catalog.
func (c *SDKClient) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/product/list", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Success  bool      `json:"success"`
		Products []Product `json:"products"`
	}
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetProduct returns a single catalog entry by ID.
func (c *SDKClient) GetProduct(ctx context.Context, id string) (*Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/product/"+id, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Success bool    `json:"success"`
		Product Product `json:"product"`
	}
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// GetLiveness checks that the service process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// GetReadiness checks that the service can reach its dependencies.
func (c *SDKClient) GetReadiness(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

package shopsdk

import (
	"context"
	"net/http"
)

// AddProductRequest describes a new catalog entry. Price is in cents.
type AddProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock"`
}

// AddProduct creates a catalog entry. Requires an admin session.
func (s *Session) AddProduct(ctx context.Context, req AddProductRequest) (*Product, error) {
	var out struct {
		Success bool    `json:"success"`
		Product Product `json:"product"`
	}
	if err := s.doAuthRequest(ctx, http.MethodPost, "/api/product/add", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// DeleteProduct removes a catalog entry. Requires an admin session.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	return s.doAuthRequest(ctx, http.MethodDelete, "/api/product/"+id, nil, nil, http.StatusOK)
}

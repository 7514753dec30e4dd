package shopsdk

import (
	"context"
	"net/http"
)

// GetCart returns the caller's current cart.
func (s *Session) GetCart(ctx context.Context) (*Cart, error) {
	var out struct {
		Success bool `json:"success"`
		Cart    Cart `json:"cart"`
	}
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/cart", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

// AddToCart adds one unit of a product to the cart.
func (s *Session) AddToCart(ctx context.Context, productID string) error {
	body := map[string]string{"productId": productID}
	return s.doAuthRequest(ctx, http.MethodPost, "/api/cart/add", body, nil, http.StatusOK)
}

// UpdateCartItem sets the quantity for a product already in the cart.
// A quantity of zero removes the line.
func (s *Session) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return s.doAuthRequest(ctx, http.MethodPost, "/api/cart/update", body, nil, http.StatusOK)
}

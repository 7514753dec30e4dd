package shopsdk

import (
	"context"
	"net/http"
)

// PlaceOrder converts the current cart into a cash-on-delivery order.
func (s *Session) PlaceOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out struct {
		Success bool  `json:"success"`
		Order   Order `json:"order"`
	}
	if err := s.doAuthRequest(ctx, http.MethodPost, "/api/order/place", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// ListOrders returns the caller's own orders, newest first.
func (s *Session) ListOrders(ctx context.Context) ([]Order, error) {
	var out struct {
		Success bool    `json:"success"`
		Orders  []Order `json:"orders"`
	}
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/order/user", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// ListAllOrders returns every order in the system. Requires an admin
// session; non-admin callers get a 403 APIError.
func (s *Session) ListAllOrders(ctx context.Context) ([]Order, error) {
	var out struct {
		Success bool    `json:"success"`
		Orders  []Order `json:"orders"`
	}
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/order/list", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// SetOrderStatus updates an order's fulfilment status. Admin only.
func (s *Session) SetOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"orderId": orderID, "status": status}
	return s.doAuthRequest(ctx, http.MethodPost, "/api/order/status", body, nil, http.StatusOK)
}

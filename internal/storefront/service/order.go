package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/idx"
	"github.com/marketloft/storefront/pkg/slogx"
)

var (
	ErrEmptyCart          = errors.New("empty_cart")
	ErrMissingAddress     = errors.New("missing_address")
	ErrInvalidOrderStatus = errors.New("invalid_order_status")
)

// OrderService turns carts into cash-on-delivery orders and exposes
// the fulfilment views.
type OrderService struct {
	Store    store.Store
	Products store.Products
}

// Place freezes the user's cart into an order at current catalog
// prices and clears the cart. Lines whose product vanished from the
// catalog since they were added are dropped.
func (s *OrderService) Place(ctx context.Context, userID, address string) (*domain.Order, error) {
	l := slogx.FromContext(ctx)

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrMissingAddress
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	var items []domain.OrderItem
	var total int64
	for productID, qty := range user.Cart {
		if qty <= 0 {
			continue
		}
		product, err := s.Products.GetProductByID(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("dropping vanished product from order", slog.String("product_id", productID))
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  qty,
		})
		total += product.Price * int64(qty)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:        idx.New().String(),
		UserID:    userID,
		Items:     items,
		Total:     total,
		Status:    domain.OrderStatusPlaced,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Orders().CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Clearing the cart after the order exists; a failure here leaves a
	// stale cart, not a lost order.
	if err := s.Store.Users().UpdateCart(ctx, userID, map[string]int{}); err != nil {
		l.Warn("failed to clear cart after order", slog.String("order_id", order.ID), "err", err)
	}

	l.Info("order placed", slog.String("order_id", order.ID), slog.Int64("total", total))
	return &order, nil
}

// ListByUser returns the user's own orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.Store.Orders().ListOrdersByUser(ctx, userID)
}

// ListAll returns every order for the fulfilment dashboard.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.Store.Orders().ListOrders(ctx)
}

// SetStatus moves an order to a new fulfilment status.
func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	return s.Store.Orders().UpdateStatus(ctx, orderID, status)
}

package service

import (
	"context"
	"errors"

	"github.com/marketloft/storefront/internal/storefront/store"
)

var ErrInvalidQuantity = errors.New("invalid_quantity")

// CartService mutates the cart embedded in the user document. The
// read-modify-write is not transactional; carts belong to a single
// shopper and last-write-wins is acceptable there.
type CartService struct {
	Store    store.Store
	Products store.Products
}

// Get returns the user's cart as productID -> quantity.
func (s *CartService) Get(ctx context.Context, userID string) (map[string]int, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Add puts one more unit of a product into the cart. The product must
// exist in the catalog.
func (s *CartService) Add(ctx context.Context, userID, productID string) (map[string]int, error) {
	if _, err := s.Products.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart
	if cart == nil {
		cart = map[string]int{}
	}
	cart[productID]++

	if err := s.Store.Users().UpdateCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Update sets the quantity of a cart line. Zero removes the line.
func (s *CartService) Update(ctx context.Context, userID, productID string, quantity int) (map[string]int, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := user.Cart
	if cart == nil {
		cart = map[string]int{}
	}
	if quantity == 0 {
		delete(cart, productID)
	} else {
		cart[productID] = quantity
	}

	if err := s.Store.Users().UpdateCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

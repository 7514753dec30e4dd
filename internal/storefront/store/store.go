package store

import (
	"context"
	"errors"

	"github.com/marketloft/storefront/internal/storefront/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo)
// implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	Products() Products
	Orders() Orders

	// EnsureIndexes creates the indexes the repos rely on (unique
	// email and friends). Called once at startup.
	EnsureIndexes(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login; email is matched lowercased.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateCart replaces the user's cart contents and bumps updated_at.
	UpdateCart(ctx context.Context, userID string, cart map[string]int) error
}

type Products interface {
	GetProductByID(ctx context.Context, id string) (domain.Product, error)

	// ListProducts returns the full catalog, newest first.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	CreateProduct(ctx context.Context, p domain.Product) error

	DeleteProduct(ctx context.Context, id string) error
}

type Orders interface {
	GetOrderByID(ctx context.Context, id string) (domain.Order, error)

	// ListOrdersByUser returns a user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	CreateOrder(ctx context.Context, o domain.Order) error

	// UpdateStatus moves an order to a new fulfilment status.
	UpdateStatus(ctx context.Context, orderID, status string) error
}

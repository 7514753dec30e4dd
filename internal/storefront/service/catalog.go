package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/idx"
)

var ErrInvalidProduct = errors.New("invalid_product")

// CatalogService exposes the product catalog. Reads go through
// whatever store.Products it is given, which in production is the
// Redis-cached decorator.
type CatalogService struct {
	Products store.Products
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.ListProducts(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Products.GetProductByID(ctx, id)
}

// Add validates and creates a catalog entry.
func (s *CatalogService) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Price <= 0 || p.Stock < 0 {
		return domain.Product{}, ErrInvalidProduct
	}

	now := time.Now().UTC()
	p.ID = idx.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.Products.DeleteProduct(ctx, id)
}

// Package cache wraps the products repository with a Redis read
// cache. The catalog is read-heavy and changes only on admin writes,
// so cached reads with write-through invalidation keep it cheap.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/slogx"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness if an invalidation is ever lost.
const DefaultTTL = 5 * time.Minute

const (
	listKey   = "products:list"
	idKeyBase = "products:id:"
)

// Products decorates a store.Products with Redis caching. Cache
// failures degrade to the underlying repository, never to the caller.
type Products struct {
	inner store.Products
	rdb   *redis.Client
	ttl   time.Duration
}

var _ store.Products = (*Products)(nil)

func NewProducts(inner store.Products, rdb *redis.Client, ttl time.Duration) *Products {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Products{inner: inner, rdb: rdb, ttl: ttl}
}

func (p *Products) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	key := idKeyBase + id

	if raw, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached domain.Product
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slogx.FromContext(ctx).Warn("product cache read failed", "err", err)
	}

	product, err := p.inner.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if raw, err := json.Marshal(product); err == nil {
		_ = p.rdb.Set(ctx, key, raw, p.ttl).Err()
	}
	return product, nil
}

func (p *Products) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if raw, err := p.rdb.Get(ctx, listKey).Bytes(); err == nil {
		var cached []domain.Product
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		slogx.FromContext(ctx).Warn("catalog cache read failed", "err", err)
	}

	products, err := p.inner.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		_ = p.rdb.Set(ctx, listKey, raw, p.ttl).Err()
	}
	return products, nil
}

func (p *Products) CreateProduct(ctx context.Context, product domain.Product) error {
	if err := p.inner.CreateProduct(ctx, product); err != nil {
		return err
	}
	p.invalidate(ctx, product.ID)
	return nil
}

func (p *Products) DeleteProduct(ctx context.Context, id string) error {
	if err := p.inner.DeleteProduct(ctx, id); err != nil {
		return err
	}
	p.invalidate(ctx, id)
	return nil
}

func (p *Products) invalidate(ctx context.Context, id string) {
	if err := p.rdb.Del(ctx, listKey, idKeyBase+id).Err(); err != nil {
		slogx.FromContext(ctx).Warn("catalog cache invalidation failed", "err", err)
	}
}

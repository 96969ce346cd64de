// Package shops exposes the shop directory the order core consumes: shop
// lookup and atomic stock mutation.
package shops

import (
	"context"

	"github.com/example/localmart/pkg/models"
	"go.uber.org/zap"
)

type Store interface {
	FindByID(ctx context.Context, id string) (*models.Shop, error)
	DecrementStock(ctx context.Context, shopID, productID string, quantity int) error
}

type Cache interface {
	GetShopCache(ctx context.Context, shopID string) (*models.Shop, error)
	CacheShop(ctx context.Context, shop *models.Shop) error
	InvalidateShop(ctx context.Context, shopID string) error
}

type Directory struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

func NewDirectory(store Store, cache Cache, logger *zap.Logger) *Directory {
	return &Directory{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (d *Directory) FindShopByID(ctx context.Context, id string) (*models.Shop, error) {
	if d.cache != nil {
		if shop, err := d.cache.GetShopCache(ctx, id); err == nil {
			return shop, nil
		}
	}

	shop, err := d.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.CacheShop(ctx, shop); err != nil {
			d.logger.Warn("failed to cache shop", zap.String("shop_id", id), zap.Error(err))
		}
	}
	return shop, nil
}

// DecrementStock subtracts quantity from the product's stock, floored at
// zero, and drops the cached shop so the next lookup sees fresh quantities.
func (d *Directory) DecrementStock(ctx context.Context, shopID, productID string, quantity int) error {
	if err := d.store.DecrementStock(ctx, shopID, productID, quantity); err != nil {
		return err
	}
	if d.cache != nil {
		if err := d.cache.InvalidateShop(ctx, shopID); err != nil {
			d.logger.Warn("failed to invalidate shop cache", zap.String("shop_id", shopID), zap.Error(err))
		}
	}
	return nil
}

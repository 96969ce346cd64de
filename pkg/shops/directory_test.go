package shops

import (
	"context"
	"errors"
	"testing"

	"github.com/example/localmart/pkg/models"
	"go.uber.org/zap"
)

type fakeShopStore struct {
	shops map[string]*models.Shop
	reads int
}

func (f *fakeShopStore) FindByID(_ context.Context, id string) (*models.Shop, error) {
	f.reads++
	shop, ok := f.shops[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *shop
	return &copied, nil
}

func (f *fakeShopStore) DecrementStock(_ context.Context, shopID, productID string, quantity int) error {
	shop, ok := f.shops[shopID]
	if !ok {
		return models.ErrNotFound
	}
	entry := shop.FindProduct(productID)
	if entry == nil {
		return models.ErrNotFound
	}
	entry.Quantity -= quantity
	if entry.Quantity < 0 {
		entry.Quantity = 0
	}
	entry.InStock = entry.Quantity > 0
	return nil
}

type fakeShopCache struct {
	shops map[string]*models.Shop
}

func newFakeShopCache() *fakeShopCache {
	return &fakeShopCache{shops: make(map[string]*models.Shop)}
}

func (f *fakeShopCache) GetShopCache(_ context.Context, shopID string) (*models.Shop, error) {
	shop, ok := f.shops[shopID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return shop, nil
}

func (f *fakeShopCache) CacheShop(_ context.Context, shop *models.Shop) error {
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeShopCache) InvalidateShop(_ context.Context, shopID string) error {
	delete(f.shops, shopID)
	return nil
}

func testStore() *fakeShopStore {
	return &fakeShopStore{shops: map[string]*models.Shop{
		"shop-1": {
			ID: "shop-1",
			Products: []models.ProductStock{
				{ProductID: "p1", Price: 100, Quantity: 4, InStock: true},
			},
		},
	}}
}

func TestFindShopByIDFillsCache(t *testing.T) {
	store := testStore()
	cache := newFakeShopCache()
	dir := NewDirectory(store, cache, zap.NewNop())
	ctx := context.Background()

	if _, err := dir.FindShopByID(ctx, "shop-1"); err != nil {
		t.Fatalf("FindShopByID: %v", err)
	}
	if _, err := dir.FindShopByID(ctx, "shop-1"); err != nil {
		t.Fatalf("FindShopByID: %v", err)
	}

	if store.reads != 1 {
		t.Errorf("store reads = %d, want 1 (second lookup served from cache)", store.reads)
	}
}

func TestFindShopByIDNotFound(t *testing.T) {
	dir := NewDirectory(testStore(), nil, zap.NewNop())
	if _, err := dir.FindShopByID(context.Background(), "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDecrementStockInvalidatesCache(t *testing.T) {
	store := testStore()
	cache := newFakeShopCache()
	dir := NewDirectory(store, cache, zap.NewNop())
	ctx := context.Background()

	if _, err := dir.FindShopByID(ctx, "shop-1"); err != nil {
		t.Fatalf("FindShopByID: %v", err)
	}
	if err := dir.DecrementStock(ctx, "shop-1", "p1", 3); err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}

	shop, err := dir.FindShopByID(ctx, "shop-1")
	if err != nil {
		t.Fatalf("FindShopByID: %v", err)
	}
	if q := shop.FindProduct("p1").Quantity; q != 1 {
		t.Errorf("quantity after decrement = %d, want 1 (stale cache served)", q)
	}
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	dir := NewDirectory(testStore(), nil, zap.NewNop())
	if err := dir.DecrementStock(context.Background(), "shop-1", "p9", 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/models"
	"github.com/go-redis/redis/v8"
)

const (
	activeBandsKey = "delivery_charges:active"
	shopKeyPrefix  = "shop:"

	shopCacheTTL = 5 * time.Minute
	bandCacheTTL = 30 * time.Minute
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// Shop lookups back every order creation, so shops are cached by id for a
// short window.
func (r *RedisRepository) CacheShop(ctx context.Context, shop *models.Shop) error {
	key := fmt.Sprintf("%s%s", shopKeyPrefix, shop.ID)
	return r.SetJSON(ctx, key, shop, shopCacheTTL)
}

func (r *RedisRepository) GetShopCache(ctx context.Context, shopID string) (*models.Shop, error) {
	key := fmt.Sprintf("%s%s", shopKeyPrefix, shopID)
	var shop models.Shop
	if err := r.GetJSON(ctx, key, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *RedisRepository) InvalidateShop(ctx context.Context, shopID string) error {
	return r.Del(ctx, fmt.Sprintf("%s%s", shopKeyPrefix, shopID))
}

// The active band set changes only on admin writes; pricing lookups read it
// from this cache and every band write drops it.
func (r *RedisRepository) CacheActiveBands(ctx context.Context, bands []models.DeliveryCharge) error {
	return r.SetJSON(ctx, activeBandsKey, bands, bandCacheTTL)
}

func (r *RedisRepository) GetActiveBandsCache(ctx context.Context) ([]models.DeliveryCharge, error) {
	var bands []models.DeliveryCharge
	if err := r.GetJSON(ctx, activeBandsKey, &bands); err != nil {
		return nil, err
	}
	return bands, nil
}

func (r *RedisRepository) InvalidateActiveBands(ctx context.Context) error {
	return r.Del(ctx, activeBandsKey)
}

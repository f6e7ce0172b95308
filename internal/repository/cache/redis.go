package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invtrack/inventory/internal/domain"
)

// RedisCache implements caching for products and per-user product listings
type RedisCache struct {
	client         *redis.Client
	productTTL     time.Duration
	productListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, productTTL, productListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		productTTL:     productTTL,
		productListTTL: productListTTL,
	}
}

// Product-by-id cache keys and methods

func (c *RedisCache) productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct retrieves a cached product by ID
func (c *RedisCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	val, err := c.client.Get(ctx, c.productKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// SetProduct stores a product in cache
func (c *RedisCache) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.productKey(product.ID), data, c.productTTL).Err()
}

// InvalidateProduct removes a product from cache
func (c *RedisCache) InvalidateProduct(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.productKey(id)).Err()
}

// Per-user listing cache keys and methods

func (c *RedisCache) userListKey(userID int64) string {
	return fmt.Sprintf("user:%d:products", userID)
}

func (c *RedisCache) userCacheKeysSet(userID int64) string {
	return fmt.Sprintf("user:%d:cache_keys", userID)
}

// GetUserProducts retrieves the cached product list for a user
func (c *RedisCache) GetUserProducts(ctx context.Context, userID int64) ([]*domain.Product, error) {
	val, err := c.client.Get(ctx, c.userListKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var products []*domain.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, err
	}

	return products, nil
}

// SetUserProducts stores a user's product list in cache and tracks the key in a SET
func (c *RedisCache) SetUserProducts(ctx context.Context, userID int64, products []*domain.Product) error {
	key := c.userListKey(userID)
	trackingKey := c.userCacheKeysSet(userID)

	data, err := json.Marshal(products)
	if err != nil {
		return err
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.productListTTL)
	pipe.SAdd(ctx, trackingKey, key)
	pipe.Expire(ctx, trackingKey, c.productListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateUserProducts removes all cached listings for a user using SET-based tracking
func (c *RedisCache) InvalidateUserProducts(ctx context.Context, userID int64) error {
	trackingKey := c.userCacheKeysSet(userID)

	keys, err := c.client.SMembers(ctx, trackingKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, trackingKey)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// InvalidateAll invalidates every cache entry touching a product
func (c *RedisCache) InvalidateAll(ctx context.Context, product *domain.Product) error {
	if err := c.InvalidateProduct(ctx, product.ID); err != nil && err != redis.Nil {
		return err
	}

	if err := c.InvalidateUserProducts(ctx, product.UserID); err != nil && err != redis.Nil {
		return err
	}

	return nil
}

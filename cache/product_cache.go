package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop-backend/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productKeyPrefix = "product:detail:"
	productListKey   = "products:all"

	DefaultTTL = 5 * time.Minute
)

// RedisProductCache caches product responses in Redis with a TTL.
// All failures degrade to cache misses.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisProductCache) GetProduct(ctx context.Context, id uint) (*services.ProductResponse, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var resp services.ProductResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("Failed to unmarshal cached product", zap.Uint("product_id", id), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (c *RedisProductCache) SetProduct(ctx context.Context, product *services.ProductResponse) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product", zap.Uint("product_id", product.ID), zap.Error(err))
	}
}

func (c *RedisProductCache) GetProductList(ctx context.Context) ([]services.ProductResponse, bool) {
	data, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var list []services.ProductResponse
	if err := json.Unmarshal(data, &list); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return list, true
}

func (c *RedisProductCache) SetProductList(ctx context.Context, products []services.ProductResponse) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productListKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product list", zap.Error(err))
	}
}

func (c *RedisProductCache) InvalidateProduct(ctx context.Context, id uint) {
	if err := c.client.Del(ctx, productKey(id), productListKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate product cache", zap.Uint("product_id", id), zap.Error(err))
	}
}

func (c *RedisProductCache) InvalidateList(ctx context.Context) {
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate product list cache", zap.Error(err))
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("%s%d", productKeyPrefix, id)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notFoundMarker = "notfound"

// ProductRepository is a read-through redis cache in front of the product
// table. Redis failures are logged and the store answers instead.
type ProductRepository struct {
	realRepo    repository.Repository[models.Product]
	redis       *redis.Client
	logger      *zap.Logger
	ttl         time.Duration
	notFoundTTL time.Duration
}

var _ repository.Repository[models.Product] = (*ProductRepository)(nil)

func NewProductRepository(realRepo repository.Repository[models.Product], rdb *redis.Client, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		realRepo:    realRepo,
		redis:       rdb,
		logger:      logger,
		ttl:         5 * time.Minute,
		notFoundTTL: time.Minute,
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, fmt.Errorf("%w: product %d (cached)", repository.ErrNotFound, id)
		}
		var product models.Product
		decodeErr := json.Unmarshal(data, &product)
		if decodeErr == nil {
			return &product, nil
		}
		c.logger.Warn("cached product unreadable, using store", zap.String("key", key), zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("redis get failed, using store", zap.String("key", key), zap.Error(err))
	}

	product, err := c.realRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, c.notFoundTTL).Err(); setErr != nil {
				c.logger.Warn("failed to cache missing product", zap.String("key", key), zap.Error(setErr))
			}
		}
		return nil, err
	}

	if payload, err := json.Marshal(product); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache product", zap.String("key", key), zap.Error(err))
		}
	}
	return product, nil
}

func (c *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return c.realRepo.List(ctx)
}

func (c *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	// clears a notfound marker left for this id
	c.invalidate(ctx, product.ID)
	return nil
}

func (c *ProductRepository) Update(ctx context.Context, id uint, product *models.Product) error {
	defer c.invalidate(ctx, id)
	return c.realRepo.Update(ctx, id, product)
}

func (c *ProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	defer c.invalidate(ctx, id)
	return c.realRepo.Delete(ctx, id)
}

func (c *ProductRepository) invalidate(ctx context.Context, id uint) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("failed to invalidate product cache", zap.Uint("product_id", id), zap.Error(err))
	}
}

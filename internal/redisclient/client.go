package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches product reads so the product-image and category-browse
// endpoints stay off the database during busy hours. Stock correctness
// never depends on this cache; the row-locked transaction is the source
// of truth, and mutating paths invalidate the affected keys.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new redis client and verifies connectivity
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetClient returns the underlying redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func productKey(barcodeID string) string {
	return fmt.Sprintf("product:%s", barcodeID)
}

func categoryKey(category string) string {
	return fmt.Sprintf("category:%s", category)
}

// GetProduct returns the cached product for a barcode, nil on miss
func (c *Client) GetProduct(ctx context.Context, barcodeID string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(barcodeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("corrupt product cache entry: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product under its barcode
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(product.BarcodeID), data, c.ttl).Err()
}

// GetCategoryProducts returns the cached product list for a category;
// the bool reports a cache hit
func (c *Client) GetCategoryProducts(ctx context.Context, category string) ([]models.Product, bool, error) {
	data, err := c.rdb.Get(ctx, categoryKey(category)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("corrupt category cache entry: %w", err)
	}
	return products, true, nil
}

// SetCategoryProducts caches a category's product list
func (c *Client) SetCategoryProducts(ctx context.Context, category string, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, categoryKey(category), data, c.ttl).Err()
}

// InvalidateProduct drops the cached product and its category listing
func (c *Client) InvalidateProduct(ctx context.Context, barcodeID, category string) error {
	return c.rdb.Del(ctx, productKey(barcodeID), categoryKey(category)).Err()
}

// InvalidateCategory drops a category's cached product list
func (c *Client) InvalidateCategory(ctx context.Context, category string) error {
	return c.rdb.Del(ctx, categoryKey(category)).Err()
}

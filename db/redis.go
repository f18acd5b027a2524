package db

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"quizbank/models"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "quizbank:categories"

func InitRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
}

// RedisCategoryCache keeps the category list in Redis. Cache failures are logged
// and treated as misses so the database stays the source of truth.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]models.Category, bool) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Error reading category cache: %v", err)
		}
		return nil, false
	}

	var categories []models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		log.Printf("Error decoding category cache: %v", err)
		return nil, false
	}
	return categories, true
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []models.Category) {
	data, err := json.Marshal(categories)
	if err != nil {
		log.Printf("Error encoding category cache: %v", err)
		return
	}
	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		log.Printf("Error writing category cache: %v", err)
	}
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, categoriesKey).Err(); err != nil {
		log.Printf("Error clearing category cache: %v", err)
	}
}

func (c *RedisCategoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

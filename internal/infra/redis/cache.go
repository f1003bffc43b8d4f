// Package redis provides an optional short-TTL cache for catalog
// queries. Moderation invalidates the search keys so a freshly
// approved or rejected event is never served from a stale entry; the
// admin review queue is never cached at all.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// Client wraps Redis operations for the catalog cache.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health checks the connection.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

const (
	categoriesKey = "catalog:categories"
	searchKeySet  = "catalog:search:keys"
)

// SearchKey builds the cache key for a filter combination.
func SearchKey(f domain.Filter) string {
	return fmt.Sprintf("catalog:search:%s|%s|%s",
		strings.ToLower(f.City), f.Date, strings.ToLower(f.Category))
}

// GetEvents returns cached search results for the filter, if present.
func (c *Client) GetEvents(ctx context.Context, f domain.Filter) ([]domain.Event, bool) {
	val, err := c.rdb.Get(ctx, SearchKey(f)).Result()
	if err != nil {
		return nil, false
	}
	var events []domain.Event
	if err := json.Unmarshal([]byte(val), &events); err != nil {
		return nil, false
	}
	return events, true
}

// SetEvents caches search results for the filter and tracks the key so
// Invalidate can drop it later.
func (c *Client) SetEvents(ctx context.Context, f domain.Filter, events []domain.Event) {
	data, err := json.Marshal(events)
	if err != nil {
		return
	}
	key := SearchKey(f)
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, searchKeySet, key)
	pipe.Expire(ctx, searchKeySet, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// GetCategories returns the cached category list, if present.
func (c *Client) GetCategories(ctx context.Context) ([]string, bool) {
	val, err := c.rdb.Get(ctx, categoriesKey).Result()
	if err != nil {
		return nil, false
	}
	var cats []string
	if err := json.Unmarshal([]byte(val), &cats); err != nil {
		return nil, false
	}
	return cats, true
}

// SetCategories caches the category list. Categories change only with
// ledger upgrades, so a longer TTL is fine.
func (c *Client) SetCategories(ctx context.Context, cats []string) {
	data, err := json.Marshal(cats)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, categoriesKey, data, 10*c.ttl).Err()
}

// Invalidate drops all cached search results. Called after every
// moderation decision so approvals become visible immediately.
func (c *Client) Invalidate(ctx context.Context) error {
	keys, err := c.rdb.SMembers(ctx, searchKeySet).Result()
	if err != nil {
		return fmt.Errorf("smembers failed: %w", err)
	}
	keys = append(keys, searchKeySet)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}

package sharedcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scmtools/cachedelta/tiered"
)

// DefaultMaxValueSize is the value-size ceiling applied when a Client is
// constructed without an explicit override. It mirrors the traditional
// memcache 1 MiB item-size limit the original coordinator this module is
// modeled on was built against.
const DefaultMaxValueSize = 1 << 20

// Client implements tiered.SharedCache over an already-connected
// redis.Cmdable. It never dials, authenticates, or manages connection
// pooling itself — the caller constructs and owns the underlying
// *redis.Client (or *redis.ClusterClient, *redis.Ring, ...).
type Client struct {
	rdb          redis.Cmdable
	maxValueSize int
}

// NewClient wraps rdb as a tiered.SharedCache. maxValueSize <= 0 selects
// DefaultMaxValueSize.
func NewClient(rdb redis.Cmdable, maxValueSize int) *Client {
	if maxValueSize <= 0 {
		maxValueSize = DefaultMaxValueSize
	}
	return &Client{rdb: rdb, maxValueSize: maxValueSize}
}

// Get implements tiered.SharedCache. A missing key is reported as
// tiered.ErrNotFound, matching redis.Nil.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, tiered.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Set implements tiered.SharedCache with no expiration.
func (c *Client) Set(ctx context.Context, key string, val []byte) error {
	return c.rdb.Set(ctx, key, val, 0).Err()
}

// SetWithTTL implements tiered.SharedCache with a relative expiration.
func (c *Client) SetWithTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

// MaxValueSize implements tiered.SharedCache.
func (c *Client) MaxValueSize() int { return c.maxValueSize }

var _ tiered.SharedCache = (*Client)(nil)

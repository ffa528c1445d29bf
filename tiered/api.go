package tiered

import (
	"context"
	"time"
)

// FastCache is the in-process tier (C1) a Store exposes to the coordinator.
// It is keyed by the string cache key produced by Store.GetCacheKey, not by
// the logical key K — fastcache.Cache[string,V] satisfies this directly.
type FastCache[V any] interface {
	// GetMany looks up cache keys in one batched call, returning hits and
	// the cache keys that missed, in no particular order.
	GetMany(keys []string) (hits map[string]V, misses []string)
	// Set inserts or updates cacheKey→v. Best-effort: failures, if any, are
	// never reported to the caller.
	Set(cacheKey string, v V)
}

// SharedCache is the networked tier (C2) a Store exposes to the coordinator.
// Implementations are expected to be lossy and bounded; a missing key is
// reported via ErrNotFound, not a generic error.
type SharedCache interface {
	// Get fetches the raw bytes stored at key, or ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores val at key with no expiration.
	Set(ctx context.Context, key string, val []byte) error
	// SetWithTTL stores val at key with a relative expiration.
	SetWithTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// MaxValueSize is the ceiling at or above which values must not be submitted.
	MaxValueSize() int
}

// KeyGenerator maps a fast-tier cache key to a namespaced shared-tier key.
type KeyGenerator interface {
	NamespacedKey(cacheKey string) string
}

// CacheTTL is the TTL component of a CacheDisposition.
type CacheTTL struct {
	hasTTL bool
	d      time.Duration
}

// NoTTL is the zero-value CacheTTL: cache the value with no expiration.
var NoTTL = CacheTTL{}

// TTL returns a CacheTTL with a relative expiration of d. d must be > 0.
func TTL(d time.Duration) CacheTTL {
	if d <= 0 {
		return NoTTL
	}
	return CacheTTL{hasTTL: true, d: d}
}

// HasTTL reports whether this CacheTTL carries a positive duration.
func (t CacheTTL) HasTTL() bool { return t.hasTTL }

// Duration returns the relative TTL, or 0 if HasTTL is false.
func (t CacheTTL) Duration() time.Duration { return t.d }

// CacheDisposition is the per-value cacheability verdict a Store returns
// from CacheDeterminator.
type CacheDisposition struct {
	cache bool
	ttl   CacheTTL
}

// Cache returns a disposition that permits caching the value with ttl.
func Cache(ttl CacheTTL) CacheDisposition { return CacheDisposition{cache: true, ttl: ttl} }

// Ignore is the disposition that forbids caching a value in either tier.
var Ignore = CacheDisposition{}

// ShouldCache reports whether this disposition permits caching.
func (d CacheDisposition) ShouldCache() bool { return d.cache }

// TTL returns the disposition's TTL. Meaningless if ShouldCache is false.
func (d CacheDisposition) TTL() CacheTTL { return d.ttl }

// Store is the capability bag GetOrFill and FillCache operate against.
// K must be comparable so it can key a set/map; V is the entity type.
type Store[K comparable, V any] interface {
	// Fast returns the in-process tier.
	Fast() FastCache[V]
	// Shared returns the networked tier.
	Shared() SharedCache
	// KeyGen returns the namespacing key generator for the shared tier.
	KeyGen() KeyGenerator

	// GetCacheKey derives the fast-tier key for a logical key. Pure.
	GetCacheKey(k K) string
	// CacheDeterminator classifies a value's cacheability. Pure.
	CacheDeterminator(v V) CacheDisposition

	// Serialize converts a value to bytes for the shared tier.
	Serialize(v V) ([]byte, error)
	// Deserialize converts shared-tier bytes back to a value.
	Deserialize(b []byte) (V, error)

	// SpawnSharedWrites reports whether shared-tier writes during this
	// call should be fire-and-forget (true, production default) or
	// awaited before returning (false, used by tests for determinism).
	SpawnSharedWrites() bool

	// GetFromDB is the batched, authoritative backing-store lookup. It
	// may return a subset of keys; absence is not an error.
	GetFromDB(ctx context.Context, keys map[K]struct{}) (map[K]V, error)
}

// KeySet builds a set (map[K]struct{}) from a variadic key list, the
// shape GetOrFill and FillCache expect as their key argument.
func KeySet[K comparable](keys ...K) map[K]struct{} {
	s := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

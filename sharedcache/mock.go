package sharedcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scmtools/cachedelta/tiered"
)

// entry is a mock-stored value plus its optional absolute deadline.
type entry struct {
	val []byte
	exp time.Time // zero means no expiration
}

// Mock is an in-memory tiered.SharedCache with call counters, grounded on
// the Rust original's CachelibHandler/MemcacheHandler mock stores: tests
// assert against GetsCount/SetsCount the same way the original asserted
// against `gets_count()`.
type Mock struct {
	mu           sync.Mutex
	data         map[string]entry
	gets, sets   atomic.Int64
	maxValueSize int
	failErr      error
}

// NewMock constructs an empty Mock. maxValueSize <= 0 selects
// DefaultMaxValueSize.
func NewMock(maxValueSize int) *Mock {
	if maxValueSize <= 0 {
		maxValueSize = DefaultMaxValueSize
	}
	return &Mock{data: make(map[string]entry), maxValueSize: maxValueSize}
}

// FailGets makes every subsequent Get call return err instead of
// consulting the stored entries, simulating a shared-tier transport
// failure (as opposed to a plain miss, which is reported via
// tiered.ErrNotFound regardless of this setting). Passing nil clears
// the injected failure.
func (m *Mock) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Get implements tiered.SharedCache.
func (m *Mock) Get(_ context.Context, key string) ([]byte, error) {
	m.gets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	e, ok := m.data[key]
	if !ok {
		return nil, tiered.ErrNotFound
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(m.data, key)
		return nil, tiered.ErrNotFound
	}
	return e.val, nil
}

// Set implements tiered.SharedCache with no expiration.
func (m *Mock) Set(_ context.Context, key string, val []byte) error {
	m.sets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{val: val}
	return nil
}

// SetWithTTL implements tiered.SharedCache with a relative expiration.
func (m *Mock) SetWithTTL(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.sets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{val: val, exp: time.Now().Add(ttl)}
	return nil
}

// MaxValueSize implements tiered.SharedCache.
func (m *Mock) MaxValueSize() int { return m.maxValueSize }

// GetsCount returns the number of Get calls observed so far.
func (m *Mock) GetsCount() int64 { return m.gets.Load() }

// SetsCount returns the number of Set/SetWithTTL calls observed so far.
func (m *Mock) SetsCount() int64 { return m.sets.Load() }

// Len returns the number of resident (not necessarily unexpired) entries.
func (m *Mock) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

var _ tiered.SharedCache = (*Mock)(nil)

package tiered

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// keyInfo pairs a logical key with its derived fast-tier cache key.
type keyInfo[K comparable] struct {
	key      K
	cacheKey string
}

// GetOrFill returns the subset of keys present anywhere across the fast
// tier, the shared tier, or the backing store, opportunistically filling
// higher tiers from lower ones. Keys absent everywhere are simply missing
// from the result; absence is not an error. An empty keys set returns an
// empty map and touches no tier, including the backing store.
func GetOrFill[K comparable, V any](ctx context.Context, store Store[K, V], keys map[K]struct{}) (map[K]V, error) {
	result := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	telemetry := telemetryOf(store)

	infos := make([]keyInfo[K], 0, len(keys))
	for k := range keys {
		infos = append(infos, keyInfo[K]{key: k, cacheKey: store.GetCacheKey(k)})
	}

	// Step 3: batched fast-tier probe.
	fastKeys := make([]string, len(infos))
	for i, info := range infos {
		fastKeys[i] = info.cacheKey
	}
	fastHits, _ := store.Fast().GetMany(fastKeys)

	remaining := make([]keyInfo[K], 0, len(infos))
	for _, info := range infos {
		if v, ok := fastHits[info.cacheKey]; ok {
			result[info.key] = v
			continue
		}
		remaining = append(remaining, info)
	}

	// Step 4/5: compute shared-tier keys and probe concurrently.
	sharedHits := make(map[K]V, len(remaining))
	storeMisses := make(map[K]struct{}, len(remaining))
	if len(remaining) > 0 {
		kg := store.KeyGen()
		type probeResult struct {
			key      K
			cacheKey string
			v        V
			outcome  Outcome
		}
		results := make([]probeResult, len(remaining))

		g, gctx := errgroup.WithContext(ctx)
		for i, info := range remaining {
			i, info := i, info
			sk := kg.NamespacedKey(info.cacheKey)
			g.Go(func() error {
				v, outcome := probeShared(gctx, store, sk)
				results[i] = probeResult{key: info.key, cacheKey: info.cacheKey, v: v, outcome: outcome}
				return nil
			})
		}
		_ = g.Wait() // probeShared never returns an error; shared-tier failures are outcomes, not errors

		backfill := make([]struct {
			cacheKey string
			v        V
		}, 0, len(results))
		for _, r := range results {
			telemetry.Observe(r.outcome)
			switch r.outcome {
			case Hit:
				sharedHits[r.key] = r.v
				result[r.key] = r.v
				if d := store.CacheDeterminator(r.v); d.ShouldCache() {
					backfill = append(backfill, struct {
						cacheKey string
						v        V
					}{r.cacheKey, r.v})
				}
			default:
				storeMisses[r.key] = struct{}{}
			}
		}
		// Step 6: back-fill the fast tier from shared-tier hits. Fast-tier
		// write failures, if any, are never observable here.
		for _, b := range backfill {
			store.Fast().Set(b.cacheKey, b.v)
		}
	}

	// Step 7/8: whatever is left goes to the backing store.
	if len(storeMisses) == 0 {
		return result, nil
	}
	data, err := store.GetFromDB(ctx, storeMisses)
	if err != nil {
		return nil, errStoreRead(err)
	}

	// Step 9/10: fill both tiers from the store results.
	fillCachesByKey(ctx, store, data)

	for k, v := range data {
		result[k] = v
	}
	return result, nil
}

// FillCache writes the supplied pairs into both tiers subject to
// CacheDeterminator, without reading anything. Used to pre-populate caches
// after a commit-like write path. Like GetOrFill's tier writes, cache
// errors here are advisory and never escalate to the caller.
func FillCache[K comparable, V any](ctx context.Context, store Store[K, V], data map[K]V) {
	fillCachesByKey(ctx, store, data)
}

// fillCachesByKey implements the shared store-fill step (§4.1 step 9 and
// the FillCache operation): evaluate the disposition for each value, write
// cacheable ones to the fast tier synchronously, and to the shared tier
// subject to the value-size ceiling and the spawn flag.
func fillCachesByKey[K comparable, V any](ctx context.Context, store Store[K, V], data map[K]V) {
	if len(data) == 0 {
		return
	}

	type sharedWrite struct {
		key string
		val []byte
		ttl CacheTTL
	}
	writes := make([]sharedWrite, 0, len(data))

	for k, v := range data {
		d := store.CacheDeterminator(v)
		if !d.ShouldCache() {
			continue
		}
		cacheKey := store.GetCacheKey(k)
		store.Fast().Set(cacheKey, v)

		bytes, err := store.Serialize(v)
		if err != nil {
			continue // advisory tier: a value that can't serialize is just skipped
		}
		if len(bytes) >= store.Shared().MaxValueSize() {
			continue
		}
		sk := store.KeyGen().NamespacedKey(cacheKey)
		writes = append(writes, sharedWrite{key: sk, val: bytes, ttl: d.TTL()})
	}

	if len(writes) == 0 {
		return
	}

	do := func(ctx context.Context) {
		var g errgroup.Group
		for _, w := range writes {
			w := w
			g.Go(func() error {
				shared := store.Shared()
				if w.ttl.HasTTL() {
					_ = shared.SetWithTTL(ctx, w.key, w.val, w.ttl.Duration())
				} else {
					_ = shared.Set(ctx, w.key, w.val)
				}
				return nil // shared-tier write errors are swallowed, never escalate
			})
		}
		_ = g.Wait()
	}

	if store.SpawnSharedWrites() {
		// Spawned writes must outlive the caller's context: a cancellation
		// that unblocks GetOrFill must not also cancel the background writes.
		go do(context.Background())
		return
	}
	do(ctx)
}

// probeShared fetches and deserializes a single shared-tier key, classifying
// the outcome into the four-way taxonomy. It never returns a Go error: every
// failure mode is represented as an Outcome instead, so a failing probe can
// never fail the errgroup the caller joins it with.
func probeShared[K comparable, V any](ctx context.Context, store Store[K, V], sharedKey string) (V, Outcome) {
	var zero V
	raw, err := store.Shared().Get(ctx, sharedKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, Missing
		}
		return zero, MemcacheInternal
	}
	v, err := store.Deserialize(raw)
	if err != nil {
		return zero, Deserialization
	}
	return v, Hit
}

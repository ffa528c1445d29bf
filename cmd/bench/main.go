// Command bench runs a synthetic workload against the tiered cache
// coordinator and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scmtools/cachedelta/fastcache"
	pmet "github.com/scmtools/cachedelta/metrics/prom"
	"github.com/scmtools/cachedelta/policy/twoq"
	"github.com/scmtools/cachedelta/sharedcache"
	"github.com/scmtools/cachedelta/tiered"
)

// benchStore wires a real fastcache tier, a sharedcache.Mock standing in
// for the networked tier, and an artificial backing store into a
// tiered.Store, so the load generator below exercises GetOrFill the same
// way a production caller would.
type benchStore struct {
	fast      fastcache.Cache[string, string]
	shared    *sharedcache.Mock
	kg        tiered.KeyGen
	telemetry *pmet.TieredAdapter

	dbLatency time.Duration
	dbReads   atomic.Uint64
}

func (s *benchStore) Fast() tiered.FastCache[string] { return s.fast }
func (s *benchStore) Shared() tiered.SharedCache     { return s.shared }
func (s *benchStore) KeyGen() tiered.KeyGenerator    { return s.kg }

func (s *benchStore) GetCacheKey(k int) string { return "k:" + strconv.Itoa(k) }

func (s *benchStore) CacheDeterminator(string) tiered.CacheDisposition {
	return tiered.Cache(tiered.TTL(time.Minute))
}

func (s *benchStore) Serialize(v string) ([]byte, error)   { return []byte(v), nil }
func (s *benchStore) Deserialize(b []byte) (string, error) { return string(b), nil }

func (s *benchStore) SpawnSharedWrites() bool { return true }

func (s *benchStore) Telemetry() tiered.Telemetry { return s.telemetry }

// GetFromDB simulates a backing store lookup: every requested key "exists"
// with a deterministic value, after paying dbLatency once for the batch.
func (s *benchStore) GetFromDB(ctx context.Context, keys map[int]struct{}) (map[int]string, error) {
	s.dbReads.Add(1)
	select {
	case <-time.After(s.dbLatency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	out := make(map[int]string, len(keys))
	for k := range keys {
		out[k] = "v" + strconv.Itoa(k)
	}
	return out, nil
}

var _ tiered.Store[int, string] = (*benchStore)(nil)
var _ tiered.TelemetryProvider = (*benchStore)(nil)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "fast-tier capacity (entries)")
		shards   = flag.Int("shards", 0, "number of shards (0=auto)")
		policyFl = flag.String("policy", "lru", "eviction policy: lru | 2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		dbLatency = flag.Duration("db_latency", time.Millisecond, "simulated backing-store latency per batch")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// Each run gets its own namespace prefix so concurrent bench processes
	// sharing one shared-tier backend never collide on the same keys.
	runID := uuid.New().String()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	fastMetrics := pmet.New(nil, "cachedelta", "bench", nil)
	tieredMetrics := pmet.NewTiered(nil, "cachedelta", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build the tiered store ----
	opt := fastcache.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Metrics:  fastMetrics,
	}
	switch *policyFl {
	case "lru":
		// nil => LRU by default
	case "2q":
		opt.Policy = twoq.New[string, string](*capacity/4, *capacity/2)
	default:
		log.Fatalf("unknown policy: %q (use lru or 2q)", *policyFl)
	}
	store := &benchStore{
		fast:      fastcache.New[string, string](opt),
		shared:    sharedcache.NewMock(0),
		kg:        tiered.NewKeyGen("bench-"+runID, 1),
		telemetry: tieredMetrics,
		dbLatency: *dbLatency,
	}
	defer func() { _ = store.fast.Close() }()

	// ---- Preload half capacity through FillCache, exercising both tiers ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	preloadData := make(map[int]string, pl)
	for i := 0; i < pl; i++ {
		preloadData[i] = "v" + strconv.Itoa(i)
	}
	tiered.FillCache(context.Background(), store, preloadData)

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				k := int(localZipf.Uint64())
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					got, err := tiered.GetOrFill(ctx, store, tiered.KeySet(k))
					if err != nil {
						continue
					}
					if _, ok := got[k]; ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					tiered.FillCache(ctx, store, map[int]string{k: "v" + strconv.Itoa(localR.Int())})
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("run=%s policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		runID, *policyFl, *capacity, *shards, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("fast.Len()=%d  shared.Len()=%d  db.reads=%d\n", store.fast.Len(), store.shared.Len(), store.dbReads.Load())
}

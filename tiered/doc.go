// Package tiered implements a read-through cache coordinator that composes
// a fast in-process tier and a shared network tier in front of an
// authoritative backing store.
//
// Design
//
//   - GetOrFill probes the fast tier (batched), then the shared tier
//     (concurrent per-key), then falls back to a caller-supplied batched
//     backing-store lookup for whatever remains missing. Every tier that
//     produces a hit back-fills the tiers above it.
//
//   - Store[K,V] is the capability bag a caller implements: fast tier,
//     shared tier, key generator, disposition function, serializer, and
//     the batched backing lookup. It plays the same role here that
//     Options[K,V] plays in fastcache: push every external dependency
//     through one struct-shaped seam instead of requiring V itself to
//     implement interfaces.
//
//   - Only backing-store errors escalate to the caller. The fast tier
//     reports no errors at all (FastCache has no error return), and
//     shared-tier errors are always swallowed and reported through
//     Telemetry instead — caches are advisory, only the store of record
//     can fail a request.
//
// Basic usage
//
//	res, err := tiered.GetOrFill(ctx, store, tiered.KeySet("a", "b"))
package tiered

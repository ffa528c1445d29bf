// Package sharedcache provides the networked shared-tier cache (C2) that
// tiered.GetOrFill composes behind the fast in-process tier.
//
// Client wraps a go-redis command interface; Mock is an in-memory,
// call-counted stand-in used by tests and by cmd/bench. Both implement
// tiered.SharedCache.
package sharedcache

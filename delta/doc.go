// Package delta produces and serializes Git pack-format delta programs: a
// stream of Data (literal bytes) and Copy (base-object byte range)
// instructions that, applied in order to a base object, reconstruct a new
// object exactly.
//
// Generate diffs two byte sequences at byte granularity using
// github.com/sergi/go-diff's Myers implementation and converts the
// resulting edit script into a valid Program via the same three-phase
// algorithm (ordering check, gap fill, change emission) the Rust original
// this package is modeled on used against gix-diff's Sink trait.
//
// Program.WriteTo is bit-for-bit compatible with the format documented at
// https://git-scm.com/docs/pack-format#_deltified_representation.
package delta

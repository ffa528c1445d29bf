package tiered

import "strconv"

// KeyGen deterministically maps a fast-tier cache key to a namespaced
// shared-tier key: "<prefix>.ver<version>:<cacheKey>". The version suffix
// lets a schema or site-config change invalidate every outstanding
// shared-tier entry just by bumping one integer, without touching the
// fast tier (which is process-local and empties on restart anyway).
type KeyGen struct {
	prefix  string
	version int
}

// NewKeyGen constructs a KeyGen. prefix identifies the entity kind and
// repository scope; version identifies the schema/site-config generation.
func NewKeyGen(prefix string, version int) KeyGen {
	return KeyGen{prefix: prefix, version: version}
}

// NamespacedKey implements KeyGenerator.
func (g KeyGen) NamespacedKey(cacheKey string) string {
	return g.prefix + ".ver" + strconv.Itoa(g.version) + ":" + cacheKey
}

var _ KeyGenerator = KeyGen{}

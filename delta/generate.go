package delta

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Algorithm selects the diff engine Generate uses to find the common
// subsequence between base and new. Myers is currently the only one
// available; the type exists so a future engine swap doesn't change
// Generate's signature.
type Algorithm int

const (
	// Myers is the classic O(ND) shortest-edit-script algorithm, as
	// implemented by github.com/sergi/go-diff.
	Myers Algorithm = iota
)

// Generate builds a Program that reconstructs new from base. It diffs the
// two byte sequences at byte granularity by mapping each byte to a rune and
// running a standard text diff over the resulting strings, then replays the
// edit script through a sink that emits Copy instructions for matched runs
// and Data instructions for the rest.
func Generate(base, new []byte, algo ...Algorithm) (*Program, error) {
	// algo is accepted for forward compatibility; Myers is the only value
	// currently defined and diffmatchpatch only implements Myers.
	_ = algo

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(bytesToRuneString(base), bytesToRuneString(new), false)

	sk := newSink(base, new)
	var posBase, posNew uint32
	i := 0
	for i < len(diffs) {
		d := diffs[i]
		if d.Type == diffmatchpatch.DiffEqual {
			n := uint32(utf8.RuneCountInString(d.Text))
			posBase += n
			posNew += n
			i++
			continue
		}

		beforeStart, afterStart := posBase, posNew
		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			n := uint32(utf8.RuneCountInString(diffs[i].Text))
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				posBase += n
			case diffmatchpatch.DiffInsert:
				posNew += n
			}
			i++
		}
		sk.processChange(beforeStart, posBase, afterStart, posNew)
	}
	return sk.finish()
}

// bytesToRuneString maps each byte of b to the rune of the same numeric
// value, so a rune-oriented diff algorithm operates at byte granularity
// instead of decoding b as UTF-8 text.
func bytesToRuneString(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

package delta

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTrip(t *testing.T, base, new []byte) *Program {
	t.Helper()
	p, err := Generate(base, new)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if p.BaseLen() != len(base) {
		t.Fatalf("BaseLen() = %d, want %d", p.BaseLen(), len(base))
	}
	if p.NewLen() != len(new) {
		t.Fatalf("NewLen() = %d, want %d", p.NewLen(), len(new))
	}
	got, err := apply(p, base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !bytes.Equal(got, new) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(new))
	}
	return p
}

func TestGenerateBasicStrings(t *testing.T) {
	t.Parallel()
	roundTrip(t, []byte("the quick brown fox jumps over the lazy dog"), []byte("the quick brown cat jumps over the lazy dog"))
}

func TestGenerateIdentical(t *testing.T) {
	t.Parallel()
	data := []byte("no change at all, just a plain copy of everything")
	p := roundTrip(t, data, data)
	stats := p.Stats()
	if stats.DataInstructions != 0 {
		t.Fatalf("identical input produced %d data instructions, want 0", stats.DataInstructions)
	}
}

func TestGenerateEmptyBase(t *testing.T) {
	t.Parallel()
	p := roundTrip(t, nil, []byte("brand new content"))
	stats := p.Stats()
	if stats.CopyInstructions != 0 {
		t.Fatalf("empty base produced %d copy instructions, want 0", stats.CopyInstructions)
	}
}

func TestGenerateEmptyNew(t *testing.T) {
	t.Parallel()
	p := roundTrip(t, []byte("everything is deleted"), nil)
	stats := p.Stats()
	if stats.DataInstructions != 0 {
		t.Fatalf("empty new produced %d data instructions, want 0", stats.DataInstructions)
	}
}

func TestGenerateBothEmpty(t *testing.T) {
	t.Parallel()
	p := roundTrip(t, nil, nil)
	if len(p.Instructions()) != 0 {
		t.Fatalf("empty/empty produced %d instructions, want 0", len(p.Instructions()))
	}
}

func TestGenerateRandomSymmetric(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	base := randomBytes(rng, 10000)
	new := mutate(rng, base, 10000)
	roundTrip(t, base, new)
}

func TestGenerateRandomAsymmetricLargerNew(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(2))
	base := randomBytes(rng, 4000)
	new := mutate(rng, base, 16000)
	roundTrip(t, base, new)
}

func TestGenerateRandomAsymmetricSmallerNew(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	base := randomBytes(rng, 16000)
	new := mutate(rng, base, 4000)
	roundTrip(t, base, new)
}

func TestGenerateProducesValidProgram(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(4))
	base := randomBytes(rng, 5000)
	new := mutate(rng, base, 5000)
	p, err := Generate(base, new)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, instr := range p.Instructions() {
		switch v := instr.(type) {
		case DataInstruction:
			if len(v.Bytes) == 0 || len(v.Bytes) > maxDataBytes {
				t.Fatalf("data instruction with invalid length %d", len(v.Bytes))
			}
		case CopyInstruction:
			if v.Size == 0 || v.Size > maxCopyBytes {
				t.Fatalf("copy instruction with invalid size %d", v.Size)
			}
		}
	}
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// mutate returns an n-byte slice sharing long runs with base but with
// scattered edits, so Generate has real structure to discover instead of
// diffing two unrelated blobs.
func mutate(rng *rand.Rand, base []byte, n int) []byte {
	out := make([]byte, 0, n)
	i := 0
	for len(out) < n {
		if i >= len(base) {
			i = 0
		}
		switch rng.Intn(4) {
		case 0: // insertion
			out = append(out, byte(rng.Intn(256)))
		case 1: // deletion
			i++
		default: // copy a run from base
			run := 1 + rng.Intn(64)
			end := i + run
			if end > len(base) {
				end = len(base)
			}
			out = append(out, base[i:end]...)
			i = end
		}
	}
	return out[:n]
}

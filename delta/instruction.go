package delta

import "fmt"

const (
	// maxDataBytes is the largest literal run a single Data instruction can
	// carry: the low 7 bits of its command byte encode the length directly.
	maxDataBytes = 1<<7 - 1 // 127

	// maxCopyBytes is the largest byte range a single Copy instruction can
	// address: the size field is at most three bytes wide, so 1<<24 and
	// above cannot be expressed.
	maxCopyBytes = 1<<24 - 1

	// copySpecialSize is the size a reader assumes when a Copy carries no
	// size bytes at all: a Copy whose size is exactly 65536 is serialized
	// with a size field of zero, which a reader expands back to 65536.
	copySpecialSize = 1 << 16
)

// Instruction is one step of a delta Program: either a literal run of bytes
// (DataInstruction) or a reference to a byte range of the base object
// (CopyInstruction).
type Instruction interface {
	instruction()
}

// DataInstruction emits Bytes verbatim into the reconstructed object.
type DataInstruction struct {
	Bytes []byte
}

func (DataInstruction) instruction() {}

// NewDataInstruction validates b and wraps it as a DataInstruction. b must
// be non-empty and no longer than 127 bytes.
func NewDataInstruction(b []byte) (DataInstruction, error) {
	if len(b) == 0 {
		return DataInstruction{}, fmt.Errorf("delta: data instruction must not be empty")
	}
	if len(b) > maxDataBytes {
		return DataInstruction{}, fmt.Errorf("delta: data instruction of %d bytes exceeds max %d", len(b), maxDataBytes)
	}
	return DataInstruction{Bytes: b}, nil
}

// CopyInstruction copies Size bytes from the base object starting at
// Offset into the reconstructed object.
type CopyInstruction struct {
	Offset uint32
	Size   uint32
}

func (CopyInstruction) instruction() {}

// NewCopyInstruction validates the half-open base range [start, end) and
// wraps it as a CopyInstruction. The range must be non-empty and no longer
// than maxCopyBytes.
func NewCopyInstruction(start, end uint32) (CopyInstruction, error) {
	if end <= start {
		return CopyInstruction{}, fmt.Errorf("delta: copy range [%d, %d) is empty", start, end)
	}
	size := uint64(end) - uint64(start)
	if size > maxCopyBytes {
		return CopyInstruction{}, fmt.Errorf("delta: copy range of %d bytes exceeds max %d", size, maxCopyBytes)
	}
	return CopyInstruction{Offset: start, Size: uint32(size)}, nil
}

// End returns the exclusive end of the base range this instruction copies.
func (c CopyInstruction) End() uint32 { return c.Offset + c.Size }

package delta

import (
	"fmt"
	"io"

	"github.com/scmtools/cachedelta/varint"
)

// Program is a complete, ordered delta: applying its Instructions to a base
// object of BaseLen bytes reconstructs a new object of NewLen bytes.
type Program struct {
	baseLen      int
	newLen       int
	instructions []Instruction
}

// BaseLen returns the length in bytes of the object this program was
// generated against.
func (p *Program) BaseLen() int { return p.baseLen }

// NewLen returns the length in bytes of the object this program
// reconstructs.
func (p *Program) NewLen() int { return p.newLen }

// Instructions returns the program's steps in application order.
func (p *Program) Instructions() []Instruction { return p.instructions }

// Stats summarizes a Program's instruction mix.
type Stats struct {
	DataInstructions int
	CopyInstructions int
	LiteralBytes     int
	CopiedBytes      int
}

// Stats tallies the program's instructions.
func (p *Program) Stats() Stats {
	var s Stats
	for _, instr := range p.instructions {
		switch v := instr.(type) {
		case DataInstruction:
			s.DataInstructions++
			s.LiteralBytes += len(v.Bytes)
		case CopyInstruction:
			s.CopyInstructions++
			s.CopiedBytes += int(v.Size)
		}
	}
	return s
}

// WriteTo serializes the program as a Git pack delta: the base size and new
// size, each as a varint, followed by each instruction in order. It returns
// the number of bytes written.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if err := varint.WriteSize(cw, uint64(p.baseLen)); err != nil {
		return cw.n, err
	}
	if err := varint.WriteSize(cw, uint64(p.newLen)); err != nil {
		return cw.n, err
	}
	for _, instr := range p.instructions {
		if err := writeInstruction(cw, instr); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeInstruction buffers a single instruction's wire bytes and issues
// exactly one Write call, so a caller writing to a framed or buffered
// stream sees one instruction per write.
func writeInstruction(w io.Writer, instr Instruction) error {
	switch v := instr.(type) {
	case DataInstruction:
		buf := make([]byte, 0, 1+len(v.Bytes))
		buf = append(buf, byte(len(v.Bytes)))
		buf = append(buf, v.Bytes...)
		_, err := w.Write(buf)
		return err
	case CopyInstruction:
		return writeCopyInstruction(w, v)
	default:
		return fmt.Errorf("delta: unknown instruction type %T", instr)
	}
}

// writeCopyInstruction implements the Git pack copy-command encoding: a
// leading command byte with its high bit set, followed by only the offset
// and size bytes that are non-zero, each flagged by a bit in the command
// byte. A size of exactly copySpecialSize is written as zero, which a
// reader must expand back to copySpecialSize.
func writeCopyInstruction(w io.Writer, c CopyInstruction) error {
	offset := [4]byte{
		byte(c.Offset),
		byte(c.Offset >> 8),
		byte(c.Offset >> 16),
		byte(c.Offset >> 24),
	}
	size := c.Size
	if size == copySpecialSize {
		size = 0
	}
	sizeBytes := [3]byte{byte(size), byte(size >> 8), byte(size >> 16)}

	cmd := byte(0x80)
	buf := make([]byte, 1, 8)
	for i, b := range offset {
		if b != 0 {
			cmd |= 1 << uint(i)
			buf = append(buf, b)
		}
	}
	for i, b := range sizeBytes {
		if b != 0 {
			cmd |= 1 << uint(4+i)
			buf = append(buf, b)
		}
	}
	buf[0] = cmd
	_, err := w.Write(buf)
	return err
}

package delta

import "fmt"

// apply is a test-only decoder: it replays p's instructions against base
// and returns the reconstructed object. It exists purely to assert
// round-trip properties in tests; production code never needs to apply a
// program, only generate and serialize one.
func apply(p *Program, base []byte) ([]byte, error) {
	if len(base) != p.BaseLen() {
		return nil, fmt.Errorf("apply: base length %d does not match program's %d", len(base), p.BaseLen())
	}
	out := make([]byte, 0, p.NewLen())
	for _, instr := range p.Instructions() {
		switch v := instr.(type) {
		case DataInstruction:
			out = append(out, v.Bytes...)
		case CopyInstruction:
			end := v.End()
			if end > uint32(len(base)) {
				return nil, fmt.Errorf("apply: copy range [%d, %d) exceeds base length %d", v.Offset, end, len(base))
			}
			out = append(out, base[v.Offset:end]...)
		default:
			return nil, fmt.Errorf("apply: unknown instruction type %T", instr)
		}
	}
	if len(out) != p.NewLen() {
		return nil, fmt.Errorf("apply: reconstructed %d bytes, program declares new length %d", len(out), p.NewLen())
	}
	return out, nil
}

package delta

// sink drives Program construction from a stream of change events, each
// describing a [before.start, before.end) run of base bytes that was
// replaced by a [after.start, after.end) run of new bytes. Events must
// arrive in non-decreasing order of before.start; the gap between the end
// of one event's before range (or the start of the object) and the start
// of the next is filled with Copy instructions, and each event's after
// range is emitted as Data instructions. finish fills the trailing gap up
// to the end of the base object and yields the completed Program, or the
// first construction error encountered.
type sink struct {
	base, new []byte
	processed uint32
	instrs    []Instruction
	err       error
}

func newSink(base, new []byte) *sink {
	return &sink{base: base, new: new}
}

// processChange records one replaced run. beforeStart/beforeEnd index into
// base, afterStart/afterEnd index into new.
func (s *sink) processChange(beforeStart, beforeEnd, afterStart, afterEnd uint32) {
	if s.err != nil {
		return
	}
	if beforeStart < s.processed {
		s.err = outOfOrderError(beforeStart, s.processed)
		return
	}
	if beforeStart > s.processed {
		s.emitCopyRange(s.processed, beforeStart)
		if s.err != nil {
			return
		}
	}
	s.emitDataRange(afterStart, afterEnd)
	if s.err != nil {
		return
	}
	s.processed = beforeEnd
}

// finish fills any trailing unprocessed suffix of base with Copy
// instructions and returns the completed Program.
func (s *sink) finish() (*Program, error) {
	if s.err != nil {
		return nil, s.err
	}
	baseLen := uint32(len(s.base))
	if s.processed > baseLen {
		return nil, truncatedBaseError(s.processed, baseLen)
	}
	if s.processed < baseLen {
		s.emitCopyRange(s.processed, baseLen)
		if s.err != nil {
			return nil, s.err
		}
		s.processed = baseLen
	}
	return &Program{baseLen: len(s.base), newLen: len(s.new), instructions: s.instrs}, nil
}

// emitCopyRange splits [start, end) of base into as many Copy instructions
// as maxCopyBytes requires.
func (s *sink) emitCopyRange(start, end uint32) {
	for start < end {
		chunk := end - start
		if chunk > maxCopyBytes {
			chunk = maxCopyBytes
		}
		ci, err := NewCopyInstruction(start, start+chunk)
		if err != nil {
			s.err = err
			return
		}
		s.instrs = append(s.instrs, ci)
		start += chunk
	}
}

// emitDataRange splits [start, end) of new into as many Data instructions
// as maxDataBytes requires.
func (s *sink) emitDataRange(start, end uint32) {
	for start < end {
		chunk := end - start
		if chunk > maxDataBytes {
			chunk = maxDataBytes
		}
		di, err := NewDataInstruction(s.new[start : start+chunk])
		if err != nil {
			s.err = err
			return
		}
		s.instrs = append(s.instrs, di)
		start += chunk
	}
}

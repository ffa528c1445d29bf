package delta

import "fmt"

func outOfOrderError(beforeStart, processed uint32) error {
	return fmt.Errorf("delta: change event starts at %d, before already-processed offset %d", beforeStart, processed)
}

func truncatedBaseError(processed, baseLen uint32) error {
	return fmt.Errorf("delta: processed %d bytes, exceeding base length %d", processed, baseLen)
}

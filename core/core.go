package core

import (
	"errors"
	"fmt"
)

// Field numbers one binary field of a packet, counted from zero.
type Field uint32

// DefaultNumFields is the packet width used when a caller does not pick
// one explicitly (the CLI default).
const DefaultNumFields = 4

// Sentinel errors for packet-domain configuration.
var (
	// ErrFieldRange indicates a field index outside 0..k-1.
	ErrFieldRange = errors.New("core: field index out of range")

	// ErrBadNumFields indicates a negative packet width.
	ErrBadNumFields = errors.New("core: number of fields must be non-negative")
)

// CheckField validates that f addresses one of k fields.
// Returns nil on success, a wrapped ErrBadNumFields when k is negative,
// and a wrapped ErrFieldRange when f is not below k.
// Complexity: O(1).
func CheckField(f Field, k int) error {
	if k < 0 {
		return fmt.Errorf("%w: k=%d", ErrBadNumFields, k)
	}
	if int(f) >= k {
		return fmt.Errorf("%w: x%d with k=%d", ErrFieldRange, f, k)
	}
	return nil
}

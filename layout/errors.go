// Package layout models the struct and union records reported by pahole.
package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrOffsetMismatch indicates a field does not start where the previous one ended.
	ErrOffsetMismatch = errors.New("layout: offset mismatch")

	// ErrEmptyUnion indicates a union without members, which has no size.
	ErrEmptyUnion = errors.New("layout: empty union")

	// ErrBlocksFailed indicates one or more blocks could not be rendered.
	ErrBlocksFailed = errors.New("layout: blocks failed")

	// ErrTooLarge indicates a field larger than MaxBytes.
	ErrTooLarge = errors.New("layout: field too large")

	// ErrInvalidConfig indicates an unusable rendering configuration.
	ErrInvalidConfig = errors.New("layout: invalid configuration")
)

// OffsetError provides detailed information about a non-contiguous field.
type OffsetError struct {
	Aggregate string // Name of the enclosing struct
	Field     string // Offending field, empty for a hole
	Offset    int    // Offset declared by the input
	Expected  int    // Running offset at that point
}

func (e *OffsetError) Error() string {
	field := e.Field
	if field == "" {
		field = "<hole>"
	}
	return fmt.Sprintf("layout: offset mismatch at field %s of %s: declared %d, expected %d",
		field, e.Aggregate, e.Offset, e.Expected)
}

func (e *OffsetError) Unwrap() error { return ErrOffsetMismatch }

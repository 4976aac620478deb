// Package render draws struct and union records as ASCII memory layout
// diagrams.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skdltmxn/paholefmt/layout"
)

const maxCharsPerByte = 64

// Options controls the scale of a diagram.
type Options struct {
	CharsPerByte int // Horizontal characters per byte
	BytesPerMark int // Ruler tick spacing in bytes
	BytesPerLine int // Row width in bytes
}

// DefaultOptions returns the standard 4/4/16 scale.
func DefaultOptions() Options {
	return Options{
		CharsPerByte: 4,
		BytesPerMark: 4,
		BytesPerLine: 16,
	}
}

// Validate reports an ErrInvalidConfig error for values that are not
// positive or are out of range.
func (o Options) Validate() error {
	switch {
	case o.CharsPerByte < 1:
		return fmt.Errorf("%w: chars per byte must be positive, got %d", layout.ErrInvalidConfig, o.CharsPerByte)
	case o.BytesPerMark < 1:
		return fmt.Errorf("%w: bytes per mark must be positive, got %d", layout.ErrInvalidConfig, o.BytesPerMark)
	case o.BytesPerLine < 1:
		return fmt.Errorf("%w: bytes per line must be positive, got %d", layout.ErrInvalidConfig, o.BytesPerLine)
	case o.CharsPerByte > maxCharsPerByte:
		return fmt.Errorf("%w: chars per byte must be at most %d, got %d", layout.ErrInvalidConfig, maxCharsPerByte, o.CharsPerByte)
	case o.BytesPerMark > layout.MaxBytes:
		return fmt.Errorf("%w: bytes per mark must be at most %d, got %d", layout.ErrInvalidConfig, layout.MaxBytes, o.BytesPerMark)
	case o.BytesPerLine > layout.MaxBytes:
		return fmt.Errorf("%w: bytes per line must be at most %d, got %d", layout.ErrInvalidConfig, layout.MaxBytes, o.BytesPerLine)
	}
	return nil
}

// Ruler returns the two-line byte axis covering offsets 0 through span.
func Ruler(span int, o Options) string {
	width := o.CharsPerByte * o.BytesPerMark
	var labels, marks strings.Builder
	for off := 0; off <= span; off += o.BytesPerMark {
		labels.WriteString(PadRight(strconv.Itoa(off), width))
		marks.WriteString(PadRight("|", width))
	}
	return strings.TrimRight(labels.String(), " ") + "\n" + strings.TrimRight(marks.String(), " ")
}

// checkSize rejects aggregates too large to draw.
func checkSize(a layout.Aggregate) error {
	if a.Size() > layout.MaxBytes {
		return fmt.Errorf("%w: %s %s is %d bytes, limit is %d", layout.ErrTooLarge, a.Kind(), a.Name(), a.Size(), layout.MaxBytes)
	}
	for _, f := range a.Fields() {
		if f.Size < 0 || f.Size > layout.MaxBytes {
			return fmt.Errorf("%w: field %s of %s is %d bytes", layout.ErrTooLarge, f.Name, a.Name(), f.Size)
		}
	}
	return nil
}

func border(bytes int, o Options) string {
	return strings.Repeat("-", bytes*o.CharsPerByte) + "-\n"
}

// Aggregate renders a, dispatching on its concrete type.
func Aggregate(a layout.Aggregate, o Options) (string, error) {
	switch a := a.(type) {
	case *layout.Struct:
		return Struct(a, o)
	case *layout.Union:
		return Union(a, o)
	default:
		return "", fmt.Errorf("render: unsupported aggregate %T", a)
	}
}

// Struct renders s as rows of o.BytesPerLine bytes. Fields wider than the
// space left in a row continue on the following rows as blank cells.
// A field that does not start at the running offset yields an
// *layout.OffsetError.
func Struct(s *layout.Struct, o Options) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	if err := checkSize(s); err != nil {
		return "", err
	}

	size := s.Size()
	fields := s.Fields()
	perLine := o.BytesPerLine

	var b strings.Builder
	fmt.Fprintf(&b, "struct %s:\n\n", s.Name())

	span := min(size, perLine)
	b.WriteString(Ruler(span, o))
	b.WriteByte('\n')
	b.WriteString(border(span, o))

	fidx := 0
	leftover := 0
	consumed := 0
	for (fidx < len(fields) || leftover > 0) && consumed < size {
		lineOffset := 0

		// Whole rows still owed to the previous field.
		for leftover >= perLine {
			b.WriteString("|" + blank(perLine*o.CharsPerByte-1) + "|\n")
			b.WriteString(border(perLine, o))
			leftover -= perLine
			consumed += perLine
		}
		if leftover == 0 && fidx == len(fields) {
			break
		}
		if leftover > 0 {
			b.WriteString("|" + blank(leftover*o.CharsPerByte-1))
			lineOffset += leftover
			consumed += leftover
			leftover = 0
		}

		for fidx < len(fields) && lineOffset < perLine {
			f := fields[fidx]
			if f.Offset != consumed {
				return "", &layout.OffsetError{Aggregate: s.Name(), Field: f.Name, Offset: f.Offset, Expected: consumed}
			}
			n := min(f.Size, perLine-lineOffset)
			b.WriteString("|" + Label(f, n*o.CharsPerByte-1))

			lineOffset += n
			consumed += n
			leftover = f.Size - n
			fidx++
		}
		b.WriteString("|\n")
		b.WriteString(border(lineOffset, o))
	}
	return b.String(), nil
}

// Union renders u as one row per member, stacked and aligned at
// offset 0. A union without members yields ErrEmptyUnion.
func Union(u *layout.Union, o Options) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	fields := u.Fields()
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %s", layout.ErrEmptyUnion, u.Name())
	}
	if err := checkSize(u); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "union %s:\n\n", u.Name())
	b.WriteString(Ruler(u.Size(), o))
	b.WriteByte('\n')

	prev := 0
	for _, f := range fields {
		b.WriteString(border(max(f.Size, prev), o))
		b.WriteString("|" + Label(f, f.Size*o.CharsPerByte-1) + "|\n")
		prev = f.Size
	}
	b.WriteString(border(prev, o))
	return b.String(), nil
}

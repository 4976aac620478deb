// Package classify maps lines of pahole output to layout events.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skdltmxn/paholefmt/layout"
)

// EventKind identifies what a line contributes to the current block.
type EventKind uint8

const (
	Unmatched EventKind = iota
	StructStart
	UnionStart
	BlockEnd
	FieldDecl
	HoleDecl
)

func (k EventKind) String() string {
	switch k {
	case StructStart:
		return "struct_start"
	case UnionStart:
		return "union_start"
	case BlockEnd:
		return "block_end"
	case FieldDecl:
		return "field_decl"
	case HoleDecl:
		return "hole_decl"
	default:
		return "unmatched"
	}
}

// Event is the result of classifying one line.
type Event struct {
	Kind EventKind

	// Keyword is "struct", "class" or "union" for block starts.
	Keyword string

	// Name is the aggregate name for block starts.
	Name string

	// Field is set for FieldDecl. For HoleDecl only Field.Size is
	// meaningful; the offset depends on what has been collected so far.
	Field layout.Field
}

var (
	structStart = regexp.MustCompile(`^(struct|class) (\w+) \{`)
	unionStart  = regexp.MustCompile(`^union (\w+) \{`)
	blockEnd    = regexp.MustCompile(`^\};`)
	fieldDecl   = regexp.MustCompile(`^(.*) ([\w\[\]]+); *\/\* *(\d+) *(\d+)`)
	holeDecl    = regexp.MustCompile(`XXX (\d+) bytes hole`)
)

// Classify returns the event for line. Patterns are tried in a fixed
// order and the first match wins; anything else is Unmatched. Offsets
// and sizes above layout.MaxBytes make the line Unmatched.
func Classify(line string) Event {
	if m := structStart.FindStringSubmatch(line); m != nil {
		return Event{Kind: StructStart, Keyword: m[1], Name: m[2]}
	}
	if m := unionStart.FindStringSubmatch(line); m != nil {
		return Event{Kind: UnionStart, Keyword: "union", Name: m[1]}
	}
	if blockEnd.MatchString(line) {
		return Event{Kind: BlockEnd}
	}
	if m := fieldDecl.FindStringSubmatch(line); m != nil {
		offset, err1 := strconv.Atoi(m[3])
		size, err2 := strconv.Atoi(m[4])
		if err1 != nil || err2 != nil || offset > layout.MaxBytes || size > layout.MaxBytes {
			return Event{Kind: Unmatched}
		}
		return Event{Kind: FieldDecl, Field: layout.Field{
			Type:   strings.TrimSpace(m[1]),
			Name:   m[2],
			Offset: offset,
			Size:   size,
		}}
	}
	if m := holeDecl.FindStringSubmatch(line); m != nil {
		size, err := strconv.Atoi(m[1])
		if err != nil || size > layout.MaxBytes {
			return Event{Kind: Unmatched}
		}
		return Event{Kind: HoleDecl, Field: layout.Field{Size: size}}
	}
	return Event{Kind: Unmatched}
}

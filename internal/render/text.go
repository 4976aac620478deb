package render

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/skdltmxn/paholefmt/layout"
)

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate returns the longest prefix of s, cut at grapheme cluster
// boundaries, that fits in width cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n, used := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		used += w
		n += len(cluster)
	}
	return s[:n]
}

// Center pads s with spaces to width cells. When the padding is odd the
// extra space goes to the right. Strings already wider than width are
// returned unchanged.
func Center(s string, width int) string {
	w := Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// PadRight left-justifies s in a field of width cells.
func PadRight(s string, width int) string {
	w := Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Label returns the cell text for f in a cell width characters wide.
// Holes fill the cell with '#'. Members show "name : type" centered,
// or just the centered name cut to width when the full label is too
// long.
func Label(f layout.Field, width int) string {
	if width <= 0 {
		return ""
	}
	if f.IsHole() {
		return strings.Repeat("#", width)
	}
	full := f.Name + " : " + f.Type
	if Width(full) <= width {
		return Center(full, width)
	}
	return Center(Truncate(f.Name, width), width)
}

func blank(width int) string {
	return strings.Repeat(" ", max(width, 0))
}

package bytecode

import (
	"fmt"
	"sort"
)

// SourceLocation represents a position in source code.
// The filename is stored once on the CodeBlock.
type SourceLocation struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// LocationEntry maps the instruction starting at PC, and every following
// instruction up to the next entry, to a source location.
type LocationEntry struct {
	PC       uint32
	Location SourceLocation
}

// LocationCount returns the number of source map entries.
func (c *CodeBlock) LocationCount() int {
	return len(c.locations)
}

// LocationEntryAt returns the source map entry at the given index.
func (c *CodeBlock) LocationEntryAt(index int) LocationEntry {
	return c.locations[index]
}

// LocationAt returns the source location of the instruction at pc, or the
// zero location when none was recorded.
func (c *CodeBlock) LocationAt(pc int) SourceLocation {
	i := sort.Search(len(c.locations), func(i int) bool {
		return int(c.locations[i].PC) > pc
	})
	if i == 0 {
		return SourceLocation{}
	}
	return c.locations[i-1].Location
}

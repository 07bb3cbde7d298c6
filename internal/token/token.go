// Package token describes source positions and maps byte offsets in a
// source file to lines and columns.
package token

import "sort"

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// The advance must not cross a line boundary.
func (p Position) Advance(n int) Position {
	p.Char += n
	p.Column += n
	return p
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// File is a line table for one source file.
type File struct {
	name  string
	size  int
	lines []int // byte offset of the first character of each line
}

// NewFile builds the line table for src.
func NewFile(name, src string) *File {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &File{name: name, size: len(src), lines: lines}
}

// Name returns the filename.
func (f *File) Name() string {
	return f.name
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lines)
}

// Position converts a 0-based byte offset into a Position. Offsets outside
// the file are clamped.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > f.size {
		offset = f.size
	}
	line := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i] > offset
	}) - 1
	start := f.lines[line]
	return Position{
		Char:      offset,
		LineStart: start,
		Line:      line,
		Column:    offset - start,
		File:      f.name,
	}
}

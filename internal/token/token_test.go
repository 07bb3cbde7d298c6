package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	pos := Position{Line: 2, Column: 0}
	// Switches to 1-indexed
	require.Equal(t, 3, pos.LineNumber())
	require.Equal(t, 1, pos.ColumnNumber())
	require.False(t, NoPos.IsValid())
	require.True(t, pos.IsValid())

	next := pos.Advance(4)
	require.Equal(t, 4, next.Column)
	require.Equal(t, 4, next.Char)
	require.Equal(t, 2, next.Line)
}

func TestFilePosition(t *testing.T) {
	f := NewFile("test.js", "let a;\nlet b;\n\nx")
	require.Equal(t, "test.js", f.Name())
	require.Equal(t, 4, f.LineCount())

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 0, 0},
		{4, 0, 4},
		{7, 1, 0},
		{11, 1, 4},
		{14, 2, 0},
		{15, 3, 0},
		{100, 3, 1},
		{-5, 0, 0},
	}
	for _, tt := range tests {
		pos := f.Position(tt.offset)
		require.Equal(t, tt.line, pos.Line, "offset %d", tt.offset)
		require.Equal(t, tt.column, pos.Column, "offset %d", tt.offset)
		require.Equal(t, "test.js", pos.File)
	}
}

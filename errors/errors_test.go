package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		desc     string
		category string
	}{
		{E1003, "invalid syntax", "parse"},
		{E2003, "invalid break statement", "compile"},
		{E2012, "undeclared label", "compile"},
		{E2013, "unsupported syntax", "compile"},
		{ErrorCode("E9999"), "unknown error", "unknown"},
		{ErrorCode("E"), "unknown error", "unknown"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			require.Equal(t, tt.desc, tt.code.Description())
			require.Equal(t, tt.category, tt.code.Category())
			require.Equal(t, string(tt.code), tt.code.String())
		})
	}
}

func TestCompileErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *CompileError
		expected string
	}{
		{
			"compile with location",
			&CompileError{Code: E2003, Message: "illegal break statement", Filename: "a.js", Line: 3, Column: 5},
			"compile error: illegal break statement (a.js:3:5)",
		},
		{
			"parse without filename",
			&CompileError{Code: E1003, Message: "Unexpected token", Line: 1, Column: 2},
			"syntax error: Unexpected token (1:2)",
		},
		{
			"no location",
			&CompileError{Code: E2013, Message: "with statements are not supported"},
			"compile error: with statements are not supported",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := &CompileError{
		Code:        E2012,
		Message:     "undefined label 'outr'",
		Filename:    "loop.js",
		Line:        2,
		Column:      9,
		EndColumn:   12,
		SourceLine:  "  break outr;",
		Suggestions: []Suggestion{{Value: "outer", Distance: 1}},
	}
	msg := err.FriendlyErrorMessage()
	lines := strings.Split(msg, "\n")
	require.Equal(t, "error[E2012]: undefined label 'outr'", lines[0])
	require.Equal(t, "  --> loop.js:2:9", lines[1])
	require.Equal(t, "   |", lines[2])
	require.Equal(t, " 2 |   break outr;", lines[3])
	require.Equal(t, "   |         ^^^^", lines[4])
	require.Contains(t, msg, "hint: did you mean 'outer'?")
}

func TestFormatterKinds(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{Kind: "syntax error", Message: "bad", Note: "see docs"})
	require.Equal(t, "syntax error: bad\n   = note: see docs\n", out)

	out = f.Format(&FormattedError{Message: "no location", Filename: "x.js"})
	require.Contains(t, out, "--> x.js\n")
}

func TestFormatterLargeLineNumber(t *testing.T) {
	out := NewFormatter(false).Format(&FormattedError{
		Message:     "oops",
		Line:        1234,
		Column:      1,
		SourceLines: []SourceLineEntry{{Number: 1234, Text: "x", IsMain: true}},
	})
	require.Contains(t, out, "1234 | x")
	require.Contains(t, out, "     | ^")
}

func TestFormatterColor(t *testing.T) {
	plain := NewFormatter(false).Format(&FormattedError{Code: E1003, Message: "m"})
	colored := NewFormatter(true).Format(&FormattedError{Code: E1003, Message: "m"})
	require.NotContains(t, plain, "\x1b[")
	require.Contains(t, colored, "\x1b[")
}

func TestFormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatMultiple(nil))
	out := f.FormatMultiple([]*FormattedError{{Message: "one"}, {Message: "two"}})
	require.Contains(t, out, "error[1/2]: one")
	require.Contains(t, out, "error[2/2]: two")
	require.True(t, strings.HasSuffix(out, "found 2 errors\n"))
}

func TestJoin(t *testing.T) {
	require.NoError(t, Join(nil))

	one := &CompileError{Code: E1003, Message: "a"}
	require.Same(t, one, Join([]*CompileError{one}))

	two := &CompileError{Code: E1001, Message: "b"}
	err := Join([]*CompileError{one, two})
	require.Error(t, err)
	require.Equal(t, "syntax error: a (and 1 more errors)", err.Error())
	require.Equal(t, []*CompileError{one, two}, All(err))

	wrapped := fmt.Errorf("other")
	require.Nil(t, All(wrapped))
	require.Equal(t, "other", Friendly(wrapped, false))
	require.Contains(t, Friendly(err, false), "found 2 errors")
	require.Equal(t, "", Friendly(nil, false))
}

func TestSuggestSimilar(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		candidates []string
		expected   []string
	}{
		{"one edit", "outr", []string{"outer", "inner", "loop"}, []string{"outer"}},
		{"case insensitive", "Loop", []string{"loop", "loops"}, []string{"loops"}},
		{"short target", "ab", []string{"abc", "xyz", "abcd"}, []string{"abc"}},
		{"none", "foo", []string{"completely"}, nil},
		{"empty target", "", []string{"a"}, nil},
		{"duplicates", "lable", []string{"label", "label"}, []string{"label"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range SuggestSimilar(tt.target, tt.candidates) {
				got = append(got, s.Value)
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestSuggestSimilarLimit(t *testing.T) {
	got := SuggestSimilar("label", []string{"labels", "labela", "labelb", "labelc", "lab"})
	require.Len(t, got, MaxSuggestions)
	require.Equal(t, "labela", got[0].Value)
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "did you mean 'x'?", FormatSuggestions([]Suggestion{{Value: "x"}}))
	require.Equal(t, "did you mean one of: 'x', 'y'?",
		FormatSuggestions([]Suggestion{{Value: "x"}, {Value: "y"}}))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			require.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b))
			require.Equal(t, tt.want, levenshteinDistance(tt.b, tt.a))
		})
	}
}

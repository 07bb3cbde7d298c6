package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyntaxValidator(t *testing.T) {
	tests := []struct {
		name    string
		config  SyntaxConfig
		src     string
		message string
	}{
		{"var", SyntaxConfig{DisallowVar: true}, "var x = 1", "var declarations are not allowed"},
		{"class", SyntaxConfig{DisallowClasses: true}, "class A {}", "classes are not allowed"},
		{"generator", SyntaxConfig{DisallowGenerators: true}, "function* g() {}", "generators are not allowed"},
		{"async", SyntaxConfig{DisallowAsync: true}, "async function f() {}", "async functions are not allowed"},
		{"destructuring", SyntaxConfig{DisallowDestructuring: true}, "let [a] = b", "destructuring is not allowed"},
		{"labels", SyntaxConfig{DisallowLabels: true}, "l: for (;;) break l", "labelled statements are not allowed"},
		{"throw", SyntaxConfig{DisallowTryCatch: true}, "throw 1", "try/catch/throw is not allowed"},
		{"template", SyntaxConfig{DisallowTemplates: true}, "`a${b}`", "template literals are not allowed"},
		{"spread", SyntaxConfig{DisallowSpread: true}, "f(...a)", "spread syntax is not allowed"},
		{"debugger", SyntaxConfig{DisallowDebugger: true}, "debugger", "debugger statements are not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewSyntaxValidator(tt.config).Validate(parse(t, tt.src))
			require.Len(t, errs, 1)
			require.Equal(t, tt.message, errs[0].Message)
			require.Equal(t, 1, errs[0].Position.LineNumber())

			require.Empty(t, NewSyntaxValidator(SyntaxConfig{}).Validate(parse(t, tt.src)))
		})
	}
}

func TestSyntaxValidatorAllowsLetAndConst(t *testing.T) {
	v := NewSyntaxValidator(SyntaxConfig{DisallowVar: true})
	require.Empty(t, v.Validate(parse(t, "let a = 1; const b = 2")))
}

func TestSyntaxValidatorReportsEveryViolation(t *testing.T) {
	v := NewSyntaxValidator(SyntaxConfig{DisallowVar: true, DisallowClasses: true})
	errs := v.Validate(parse(t, "var a\nclass B {}\nvar c"))
	require.Len(t, errs, 3)
	require.Equal(t, 2, errs[1].Position.LineNumber())
	require.Equal(t, 3, errs[2].Position.LineNumber())
}

func TestParseFeatures(t *testing.T) {
	config, err := ParseFeatures([]string{"classes", " Var "})
	require.NoError(t, err)
	require.Equal(t, SyntaxConfig{DisallowClasses: true, DisallowVar: true}, config)
	require.False(t, config.IsZero())

	config, err = ParseFeatures(nil)
	require.NoError(t, err)
	require.True(t, config.IsZero())

	_, err = ParseFeatures([]string{"goto"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown syntax feature "goto"`)
	require.Contains(t, err.Error(), "async, classes, debugger")
}

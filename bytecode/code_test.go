package bytecode

import (
	"testing"

	"github.com/risor-io/escompile/op"
	"github.com/stretchr/testify/require"
)

func assemble(parts ...[]uint64) []byte {
	var buf []byte
	for _, p := range parts {
		buf = op.Append(buf, op.Code(p[0]), p[1:]...)
	}
	return buf
}

func ins(code op.Code, operands ...uint64) []uint64 {
	return append([]uint64{uint64(code)}, operands...)
}

func TestNewCodeBlockImmutability(t *testing.T) {
	code := assemble(ins(op.PushLiteral, 0), ins(op.Return))
	literals := []Literal{StringLiteral("hello")}
	names := []string{"foo"}
	bindings := []BindingLocator{GlobalBinding("x")}
	envs := []Environment{{Index: 1, Slots: 1, Names: []string{"a"}}}
	locations := []LocationEntry{{PC: 0, Location: SourceLocation{Line: 1, Column: 1}}}
	args := BindingLocator{Name: "arguments", Index: 0}

	cb := NewCodeBlock(CodeParams{
		ID:               "main",
		Name:             "main",
		Code:             code,
		Literals:         literals,
		Names:            names,
		Bindings:         bindings,
		Environments:     envs,
		Locations:        locations,
		ArgumentsBinding: &args,
	})

	code[0] = byte(op.Nop)
	literals[0] = StringLiteral("modified")
	names[0] = "modified"
	bindings[0] = GlobalBinding("y")
	envs[0].Names[0] = "b"
	locations[0].Location.Line = 99
	args.Name = "other"

	require.Equal(t, byte(op.PushLiteral), cb.ByteAt(0))
	require.Equal(t, "hello", cb.LiteralAt(0).Value)
	require.Equal(t, "foo", cb.NameAt(0))
	require.Equal(t, "x", cb.BindingAt(0).Name)
	require.Equal(t, []string{"a"}, cb.EnvironmentAt(0).Names)
	require.Equal(t, 1, cb.LocationAt(0).Line)
	loc, ok := cb.ArgumentsBinding()
	require.True(t, ok)
	require.Equal(t, "arguments", loc.Name)

	out := cb.Code()
	out[0] = byte(op.Nop)
	require.Equal(t, byte(op.PushLiteral), cb.ByteAt(0))
}

func TestCodeBlockAccessors(t *testing.T) {
	cb := NewCodeBlock(CodeParams{
		ID:        "main.0",
		Name:      "f",
		Filename:  "test.js",
		Kind:      KindFunction,
		Strict:    true,
		Generator: true,
		ThisMode:  ThisModeStrict,
		Length:    2,
		Params: []Parameter{
			{Name: "a"},
			{Name: "b", HasDefault: true},
			{Name: "rest", Rest: true},
		},
		NumBindings: 3,
	})
	require.Equal(t, "main.0", cb.ID())
	require.Equal(t, "f", cb.Name())
	require.Equal(t, "test.js", cb.Filename())
	require.Equal(t, KindFunction, cb.Kind())
	require.True(t, cb.Strict())
	require.True(t, cb.IsGenerator())
	require.False(t, cb.IsAsync())
	require.False(t, cb.IsClassConstructor())
	require.Equal(t, ThisModeStrict, cb.ThisMode())
	require.Equal(t, uint32(2), cb.Length())
	require.Equal(t, uint32(3), cb.NumBindings())
	require.Equal(t, 3, cb.ParameterCount())
	require.Equal(t, "f(a, b = <default>, ...rest)", cb.Signature())
	_, ok := cb.ArgumentsBinding()
	require.False(t, ok)
}

func TestCodeBlockFunctions(t *testing.T) {
	inner := NewCodeBlock(CodeParams{ID: "main.0.0", Name: "inner"})
	child := NewCodeBlock(CodeParams{ID: "main.0", Name: "child", Functions: []*CodeBlock{inner}})
	root := NewCodeBlock(CodeParams{
		ID:        "main",
		Name:      "main",
		Source:    "line one\nline two",
		Functions: []*CodeBlock{child},
	})

	require.Equal(t, 1, root.FunctionCount())
	require.Equal(t, child, root.FunctionAt(0))
	require.Equal(t, root, child.Parent())
	require.Equal(t, child, inner.Parent())

	flat := root.Flatten()
	require.Len(t, flat, 3)
	require.Equal(t, "inner", flat[2].Name())

	require.Equal(t, "line two", inner.GetSourceLine(2))
	require.Equal(t, "", inner.GetSourceLine(3))
	require.Equal(t, "", inner.GetSourceLine(0))
}

func TestLocationAt(t *testing.T) {
	cb := NewCodeBlock(CodeParams{
		Locations: []LocationEntry{
			{PC: 0, Location: SourceLocation{Line: 1, Column: 1}},
			{PC: 5, Location: SourceLocation{Line: 2, Column: 3}},
		},
	})
	require.Equal(t, SourceLocation{Line: 1, Column: 1}, cb.LocationAt(0))
	require.Equal(t, SourceLocation{Line: 1, Column: 1}, cb.LocationAt(4))
	require.Equal(t, SourceLocation{Line: 2, Column: 3}, cb.LocationAt(5))
	require.Equal(t, SourceLocation{Line: 2, Column: 3}, cb.LocationAt(100))
	require.True(t, cb.LocationAt(-1).IsZero())
	require.Equal(t, "2:3", cb.LocationAt(5).String())
}

func TestStats(t *testing.T) {
	inner := NewCodeBlock(CodeParams{
		Code: assemble(ins(op.PushUndefined), ins(op.Return)),
	})
	root := NewCodeBlock(CodeParams{
		Code:      assemble(ins(op.GetFunction, 0), ins(op.Return)),
		Literals:  []Literal{StringLiteral("a"), BigIntLiteral("10")},
		Functions: []*CodeBlock{inner},
	})
	stats := root.Stats()
	require.Equal(t, 4, stats.InstructionCount)
	require.Equal(t, 8, stats.CodeBytes)
	require.Equal(t, 2, stats.LiteralCount)
	require.Equal(t, 1, stats.FunctionCount)
}

func TestExceptionHandlers(t *testing.T) {
	code := assemble(
		ins(op.TryStart, 10, 0), // 0
		ins(op.TryEnd),          // 9
		ins(op.PushUndefined),   // 10
		ins(op.Return),          // 11
	)
	cb := NewCodeBlock(CodeParams{Code: code})
	handlers, err := cb.ExceptionHandlers()
	require.NoError(t, err)
	require.Equal(t, []ExceptionHandler{{TryStart: 0, Handler: 10, FinallyStart: 0}}, handlers)
	require.True(t, handlers[0].HasCatch())
}

func TestLiteralString(t *testing.T) {
	require.Equal(t, `"a\n"`, StringLiteral("a\n").String())
	require.Equal(t, "10n", BigIntLiteral("10").String())
	require.Equal(t, "x (global)", GlobalBinding("x").String())
	require.Equal(t, "y (depth 1, slot 2)", BindingLocator{Name: "y", Depth: 1, Index: 2}.String())
}

func TestInstructionIterError(t *testing.T) {
	cb := NewCodeBlock(CodeParams{Code: []byte{byte(op.Pop), byte(op.PushLiteral), 0}})
	it := NewInstructionIter(cb)
	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, op.Pop, first.Code)
	_, ok = it.Next()
	require.False(t, ok)
	require.ErrorIs(t, it.Err(), op.ErrTruncated)
}

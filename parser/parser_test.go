package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), src, WithFilename("test.js"))
	require.NoError(t, err)
	return program
}

func TestPositions(t *testing.T) {
	program := parse(t, "let x = 5;\n  let y = 10;")
	require.Len(t, program.Body, 2)

	first := program.Body[0].(*ast.VarDecl)
	second := program.Body[1].(*ast.VarDecl)
	require.Equal(t, ast.Let, first.Kind)

	require.Equal(t, 1, first.Pos().LineNumber())
	require.Equal(t, 1, first.Pos().ColumnNumber())
	require.Equal(t, 2, second.Pos().LineNumber())
	require.Equal(t, 3, second.Pos().ColumnNumber())
	require.Equal(t, "test.js", second.Pos().File)
}

func TestStrictDirective(t *testing.T) {
	tests := []struct {
		src    string
		strict bool
	}{
		{`"use strict"; x = 1`, true},
		{`'use strict'; x = 1`, true},
		{`"other"; "use strict"; x = 1`, true},
		{`x = 1; "use strict"`, false},
		{`x = 1`, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			require.Equal(t, tt.strict, parse(t, tt.src).Strict)
		})
	}

	program := parse(t, `function f() { "use strict"; return 1 }`)
	fn := program.Body[0].(*ast.FuncDecl).Func
	require.True(t, fn.Strict)
	require.Equal(t, "f", fn.Name.Name)
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), "let x = ;", WithFilename("bad.js"))
	require.Error(t, err)

	errs := errors.All(err)
	require.NotEmpty(t, errs)
	require.Equal(t, "parse", errs[0].Code.Category())
	require.Equal(t, "bad.js", errs[0].Filename)
	require.Equal(t, 1, errs[0].Line)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "1 + 2")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMaxDepth(t *testing.T) {
	_, err := Parse(context.Background(), "[[[[[[1]]]]]]", WithMaxDepth(3))
	require.Error(t, err)
	errs := errors.All(err)
	require.Len(t, errs, 1)
	require.Equal(t, errors.E1003, errs[0].Code)
	require.Contains(t, errs[0].Message, "nesting depth")
}

func TestOperators(t *testing.T) {
	program := parse(t, "a += b; c >>>= d; x++; --y; typeof z; !w; e ** f")
	exprs := make([]ast.Expr, 0, len(program.Body))
	for _, s := range program.Body {
		exprs = append(exprs, s.(*ast.ExprStmt).X)
	}
	require.Equal(t, "+=", exprs[0].(*ast.Assign).Op)
	require.Equal(t, ">>>=", exprs[1].(*ast.Assign).Op)

	inc := exprs[2].(*ast.Update)
	require.Equal(t, "++", inc.Op)
	require.False(t, inc.Prefix)
	dec := exprs[3].(*ast.Update)
	require.Equal(t, "--", dec.Op)
	require.True(t, dec.Prefix)

	require.Equal(t, "typeof", exprs[4].(*ast.Unary).Op)
	require.Equal(t, "!", exprs[5].(*ast.Unary).Op)
	require.Equal(t, "**", exprs[6].(*ast.Binary).Op)
}

func TestOptionalChain(t *testing.T) {
	program := parse(t, "a?.b.c")
	chain, ok := program.Body[0].(*ast.ExprStmt).X.(*ast.OptionalChain)
	require.True(t, ok)

	var optional []string
	ast.Inspect(chain, func(n ast.Node) bool {
		if m, ok := n.(*ast.Member); ok && m.Optional {
			optional = append(optional, m.Name)
		}
		return true
	})
	require.Equal(t, []string{"b"}, optional)
}

func TestPatterns(t *testing.T) {
	program := parse(t, "let {a = 1, b: [c, , ...d], ...e} = o;")
	decl := program.Body[0].(*ast.VarDecl)
	pattern := decl.List[0].Target.(*ast.ObjectPattern)
	require.Len(t, pattern.Props, 2)

	first := pattern.Props[0]
	require.Equal(t, "a", first.Key.(*ast.String).Value)
	def, ok := first.Value.(*ast.AssignPattern)
	require.True(t, ok)
	require.Equal(t, "a", def.Target.(*ast.Ident).Name)

	inner := pattern.Props[1].Value.(*ast.ArrayPattern)
	require.Len(t, inner.Elements, 2)
	require.Nil(t, inner.Elements[1])
	require.Equal(t, "d", inner.Rest.(*ast.Ident).Name)
	require.Equal(t, "e", pattern.Rest.(*ast.Ident).Name)

	require.Equal(t, []string{"a", "c", "d", "e"}, ast.BoundNames(pattern))
}

func TestClass(t *testing.T) {
	program := parse(t, `
class A extends B {
  constructor() { super() }
  m() {}
  get g() { return 1 }
  static #p = 1;
  [k] = 2;
  static { }
}`)
	class := program.Body[0].(*ast.ClassDecl).Class
	require.Equal(t, "A", class.Name.Name)
	require.NotNil(t, class.Heritage)
	require.NotNil(t, class.Ctor)
	require.Len(t, class.Elements, 5)

	kinds := []ast.ClassElementKind{}
	for _, el := range class.Elements {
		kinds = append(kinds, el.Kind)
	}
	require.Equal(t, []ast.ClassElementKind{
		ast.ClassMethod,
		ast.ClassGetter,
		ast.ClassField,
		ast.ClassField,
		ast.ClassStaticBlock,
	}, kinds)

	private := class.Elements[2]
	require.True(t, private.Private())
	require.True(t, private.Static)
	require.True(t, class.Elements[3].Computed)
}

func TestArrowFunctions(t *testing.T) {
	program := parse(t, "const f = async (a, b = 1, ...c) => a + b;")
	fn := program.Body[0].(*ast.VarDecl).List[0].Init.(*ast.Func)
	require.True(t, fn.Arrow)
	require.True(t, fn.Async)
	require.NotNil(t, fn.Expr)
	require.Nil(t, fn.Body)
	require.Len(t, fn.Params.List, 2)
	require.NotNil(t, fn.Params.Rest)
	require.False(t, fn.Params.Simple())
}

func TestTemplate(t *testing.T) {
	program := parse(t, "tag`a${x}b\\n`")
	tmpl := program.Body[0].(*ast.ExprStmt).X.(*ast.Template)
	require.NotNil(t, tmpl.Tag)
	require.Len(t, tmpl.Quasis, 2)
	require.Len(t, tmpl.Exprs, 1)
	require.Equal(t, "a", tmpl.Quasis[0].Cooked)
	require.Equal(t, "b\n", tmpl.Quasis[1].Cooked)
	require.Equal(t, `b\n`, tmpl.Quasis[1].Raw)
}

func TestNumericKeys(t *testing.T) {
	program := parse(t, "({0x10: 1, 1.50: 2})")
	obj := program.Body[0].(*ast.ExprStmt).X.(*ast.Object)
	require.Equal(t, "16", obj.Props[0].Key.(*ast.Number).Literal)
	require.Equal(t, "1.5", obj.Props[1].Key.(*ast.Number).Literal)
}

func TestLoops(t *testing.T) {
	program := parse(t, `
for (let i = 0; i < 3; i++) {}
for (const k in o) {}
for (x of xs) {}
outer: while (true) { break outer }`)
	require.Len(t, program.Body, 4)

	loop := program.Body[0].(*ast.For)
	require.Equal(t, ast.Let, loop.Init.(*ast.VarDecl).Kind)

	forIn := program.Body[1].(*ast.ForIn)
	require.Equal(t, ast.Const, forIn.Left.(*ast.VarDecl).Kind)

	forOf := program.Body[2].(*ast.ForOf)
	_, ok := forOf.Left.(*ast.ExprStmt)
	require.True(t, ok)

	labelled := program.Body[3].(*ast.Labelled)
	require.Equal(t, "outer", labelled.Label.Name)
	brk := labelled.Body.(*ast.While).Body.(*ast.Block).Body[0].(*ast.Break)
	require.Equal(t, "outer", brk.Label.Name)
}

func TestTry(t *testing.T) {
	program := parse(t, "try { f() } catch ({message}) { g() } finally { h() }")
	try := program.Body[0].(*ast.Try)
	require.NotNil(t, try.Catch)
	require.NotNil(t, try.Finally)
	_, ok := try.Param.(*ast.ObjectPattern)
	require.True(t, ok)

	program = parse(t, "try { f() } catch { }")
	try = program.Body[0].(*ast.Try)
	require.Nil(t, try.Param)
	require.Nil(t, try.Finally)
}

func TestClassifyMessages(t *testing.T) {
	tests := []struct {
		msg  string
		code errors.ErrorCode
	}{
		{"Unexpected token ;", errors.E1001},
		{"Unexpected end of input", errors.E1001},
		{"Invalid regular expression: missing /", errors.E1004},
		{"Unterminated template literal", errors.E1004},
		{"Unterminated string literal", errors.E1002},
		{"Illegal break statement", errors.E1003},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			require.Equal(t, tt.code, classify(tt.msg))
		})
	}
}

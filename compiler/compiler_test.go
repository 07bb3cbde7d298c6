package compiler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/internal/token"
	"github.com/risor-io/escompile/op"
	"github.com/risor-io/escompile/parser"
	"github.com/risor-io/escompile/scope"
)

func compileSource(t *testing.T, src string) *bytecode.CodeBlock {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	code, err := Compile(program, &Config{Source: src, Verify: true})
	require.NoError(t, err)
	return code
}

func compileProgram(t *testing.T, body ...ast.Stmt) (*bytecode.CodeBlock, error) {
	t.Helper()
	return Compile(&ast.Program{Body: body}, &Config{Verify: true})
}

func compileError(t *testing.T, body ...ast.Stmt) *errors.CompileError {
	t.Helper()
	_, err := compileProgram(t, body...)
	require.Error(t, err)
	ce, ok := err.(*errors.CompileError)
	require.True(t, ok, "expected a compile error, got %T", err)
	return ce
}

func decode(t *testing.T, code *bytecode.CodeBlock) []op.Instruction {
	t.Helper()
	var out []op.Instruction
	it := bytecode.NewInstructionIter(code)
	for ins, ok := it.Next(); ok; ins, ok = it.Next() {
		out = append(out, ins)
	}
	require.NoError(t, it.Err())
	return out
}

func opcodes(t *testing.T, code *bytecode.CodeBlock) []op.Code {
	t.Helper()
	var out []op.Code
	for _, ins := range decode(t, code) {
		out = append(out, ins.Code)
	}
	return out
}

func instructionAt(t *testing.T, insns []op.Instruction, offset uint32) op.Instruction {
	t.Helper()
	for _, ins := range insns {
		if ins.Offset == int(offset) {
			return ins
		}
	}
	require.Failf(t, "no instruction", "no instruction at offset %d", offset)
	return op.Instruction{}
}

func target(t *testing.T, ins op.Instruction) uint32 {
	t.Helper()
	addr, ok := ins.Target()
	require.True(t, ok, "%s has no target", ins.Code)
	return addr
}

func count(codes []op.Code, code op.Code) int {
	n := 0
	for _, c := range codes {
		if c == code {
			n++
		}
	}
	return n
}

func pos(line int) token.Position {
	return token.Position{Line: line - 1, File: "test.js"}
}

func ident(name string) *ast.Ident {
	return &ast.Ident{NamePos: pos(1), Name: name}
}

func TestCompileVerifies(t *testing.T) {
	tests := []string{
		"var a = 1, b; a + b",
		"let {x, y: [z = 2], ...rest} = obj; x",
		"[a, b] = [b, a]",
		"({a, b} = o)",
		"o.x += 1; o[k] *= 2; x++; o.y--; o[k]++",
		"a?.b?.[c]?.(d)",
		"a?.b.c(1)",
		"f(...args, 1)",
		"new C(1, 2); new D(...xs)",
		"`a${b}c`",
		"tag`x${1}`",
		"function f(a, b = a, ...rest) { return arguments.length }",
		"function* g() { yield 1; const v = yield* other(); return v }",
		"async function h() { await p; for (const x of xs) { await x } }",
		"class A { #p = 1; static s = 2; m() { return this.#p } get g() { return 1 } static { this.t = 3 } }",
		"class B extends A { constructor() { super(); super.m() } static create() { return new B() } }",
		"class C { #p; #m() { return this.#p } static make() { return new C() } }",
		"for (let i = 0; i < 10; i++) { if (i == 5) continue; if (i == 7) break }",
		"for (const k in o) { } for (const v of xs) { break }",
		"for (var i in o) f(i); for ([a, b] of pairs) g(a, b)",
		"outer: for (const a of xs) { for (const b of ys) { if (b) continue outer; break outer } }",
		"switch (x) { case 1: let y = 2; break; default: y }",
		"switch (x) { case 1: case 2: f(); default: g() }",
		"try { f() } catch (e) { g(e) } finally { h() }",
		"try { f() } catch { }",
		"try { f() } catch ({message}) { g(message) }",
		"function r() { try { return 1 } finally { cleanup() } }",
		"function q() { for (const x of xs) { try { return x } catch (e) { continue } } }",
		"function s() { try { try { return 1 } finally { a() } } finally { b() } }",
		"while (true) { try { break } finally { f() } }",
		"for (;;) { try { g() } catch (e) { break } finally { continue } }",
		"do { x-- } while (x > 0)",
		"const fn = function self() { return self }",
		"x = typeof y === 'undefined' ? 1 : 2",
		"delete o.p; delete o[k]; delete x; delete 1",
		"lbl: { if (a) break lbl; f() }",
		"(() => this)()",
		"({ m() { return super.m() }, get a() { return 1 }, set a(v) {}, [k]: 1, ...o, __proto__: null, b })",
		"/ab+c/gi.test(s)",
		"function F() { return new.target }",
		"{ function inner() {} inner() }",
		"(a && b) || (c ?? d)",
		"let u; const w = [1, , ...xs]; u = w",
		"function outer(x) { return function () { return x } }",
		"function p(a, {b, c} = {}) { var a; return a + b + c }",
		"eval('1'); eval(...args)",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			code := compileSource(t, src)
			require.NoError(t, bytecode.Verify(code))
		})
	}
}

func TestExpressionCode(t *testing.T) {
	tests := []struct {
		src  string
		want []op.Code
	}{
		{"1 + 2", []op.Code{op.PushOne, op.PushInt8, op.Add, op.Return}},
		{"let x = 1; x", []op.Code{op.PushOne, op.DefInitLet, op.GetName, op.Return}},
		{"-1", []op.Code{op.PushInt8, op.Return}},
		{"1.5", []op.Code{op.PushRational, op.Return}},
		{"null ?? 0", []op.Code{op.PushNull, op.Coalesce, op.PushZero, op.Return}},
		{"typeof x", []op.Code{op.GetNameOrUndefined, op.TypeOf, op.Return}},
		{"x = 1", []op.Code{op.PushOne, op.Dup, op.SetName, op.Return}},
		{"f()", []op.Code{op.PushUndefined, op.GetName, op.Call, op.Return}},
		{"o.m(1)", []op.Code{op.GetName, op.Dup, op.GetPropertyByName, op.PushOne, op.Call, op.Return}},
		{"[]", []op.Code{op.PushNewArray, op.Return}},
		{"({a: 1})", []op.Code{op.PushEmptyObject, op.PushOne, op.DefineOwnPropertyByName, op.Return}},
		{";", []op.Code{op.PushUndefined, op.Return}},
		{
			"delete a?.b",
			[]op.Code{op.GetName, op.JumpIfNullOrUndefined, op.DeletePropertyByName, op.Jump, op.PushTrue, op.Return},
		},
		{
			"delete a?.[k]",
			[]op.Code{op.GetName, op.JumpIfNullOrUndefined, op.GetName, op.DeletePropertyByValue, op.Jump, op.PushTrue, op.Return},
		},
		{"delete a.b?.c", []op.Code{
			op.GetName, op.GetPropertyByName, op.JumpIfNullOrUndefined, op.DeletePropertyByName, op.Jump, op.PushTrue, op.Return,
		}},
		{
			"let [a = 1] = []",
			[]op.Code{
				op.PushNewArray,
				op.InitIterator,
				op.IteratorNext,
				op.JumpIfNotUndefined,
				op.PushOne,
				op.DefInitLet,
				op.IteratorClose,
				op.PushUndefined,
				op.Return,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			require.Equal(t, tt.want, opcodes(t, compileSource(t, tt.src)))
		})
	}
}

func TestLiteralDeduplication(t *testing.T) {
	code := compileSource(t, `"a"; "b"; "a"; "b"; "c"`)
	require.Equal(t, 3, code.LiteralCount())
	require.Equal(t, bytecode.StringLiteral("a"), code.LiteralAt(0))
	require.Equal(t, bytecode.StringLiteral("b"), code.LiteralAt(1))
	require.Equal(t, bytecode.StringLiteral("c"), code.LiteralAt(2))

	code = compileSource(t, "o.x; o.x; o.y")
	require.Equal(t, 2, code.NameCount())
	require.Equal(t, 1, code.BindingCount())
}

// A labelled break leaves every loop between it and its target exactly
// once: the inner loop is torn down before the jump, and the jump lands on
// the outer loop's own LoopEnd.
func TestLabelledBreakTearsDownOnce(t *testing.T) {
	code := compileSource(t, "outer: for (;;) { for (;;) { break outer } }")
	insns := decode(t, code)

	codes := opcodes(t, code)
	require.Equal(t, 2, count(codes, op.LoopStart))
	require.Equal(t, 3, count(codes, op.LoopEnd))

	var breakJump op.Instruction
	for i, ins := range insns {
		if ins.Code == op.LoopEnd {
			require.Equal(t, op.Jump, insns[i+1].Code)
			breakJump = insns[i+1]
			break
		}
	}
	landing := instructionAt(t, insns, target(t, breakJump))
	require.Equal(t, op.LoopEnd, landing.Code)

	last := insns[len(insns)-3]
	require.Equal(t, op.LoopEnd, last.Code)
	require.Equal(t, last.Offset, landing.Offset)
}

// A continue inside try/finally records its resume address with
// FinallySetJump and then runs the finally body. The resume address holds
// a trampoline that jumps to the loop's LoopContinue.
func TestContinueThroughFinally(t *testing.T) {
	code := compileSource(t, "for (;;) { try { continue } finally { f() } }")
	insns := decode(t, code)

	setJump := -1
	for i, ins := range insns {
		if ins.Code == op.FinallySetJump {
			setJump = i
			break
		}
	}
	require.GreaterOrEqual(t, setJump, 1)
	require.Equal(t, op.TryEnd, insns[setJump-1].Code)

	toFinally := insns[setJump+1]
	require.Equal(t, op.Jump, toFinally.Code)
	require.Equal(t, op.FinallyStart, instructionAt(t, insns, target(t, toFinally)).Code)

	trampoline := instructionAt(t, insns, insns[setJump].Operand(0))
	require.Equal(t, op.Jump, trampoline.Code)
	require.Equal(t, op.LoopContinue, instructionAt(t, insns, target(t, trampoline)).Code)

	handlers, err := code.ExceptionHandlers()
	require.NoError(t, err)
	require.Len(t, handlers, 1)
	require.False(t, handlers[0].HasCatch())
}

func TestReturnThroughIterator(t *testing.T) {
	code := compileSource(t, "function f() { for (const x of xs) { return x } }")
	fn := code.FunctionAt(0)
	codes := opcodes(t, fn)
	require.Contains(t, codes, op.SetReturnValue)
	require.Contains(t, codes, op.GetReturnValue)
	// only the return path closes; an exhausted iterator is popped
	require.Equal(t, 1, count(codes, op.IteratorClose))
}

func TestExhaustedIteratorIsNotClosed(t *testing.T) {
	code := compileSource(t, "for (const x of xs) { if (x) break }")
	insns := decode(t, code)

	var next op.Instruction
	for _, ins := range insns {
		if ins.Code == op.IteratorNextFull {
			next = ins
		}
	}
	done := target(t, next)
	var tail []op.Code
	for _, ins := range insns {
		if ins.Offset >= int(done) {
			tail = append(tail, ins.Code)
		}
	}
	require.Equal(t, []op.Code{op.Pop, op.Pop, op.Pop, op.LoopEnd}, tail[:4])
	// the break still closes the iterator
	require.Equal(t, 1, count(opcodes(t, code), op.IteratorClose))
}

func TestArrayPatternClose(t *testing.T) {
	tests := []struct {
		src   string
		close int
		tail  []op.Code
	}{
		{"let [a, b] = [1]", 1, []op.Code{op.DefInitLet, op.IteratorClose}},
		{"let [a, ...rest] = xs", 0, []op.Code{op.IteratorToArray, op.DefInitLet, op.Pop, op.Pop, op.Pop}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			codes := opcodes(t, compileSource(t, tt.src))
			require.Equal(t, tt.close, count(codes, op.IteratorClose))
			// trailing PushUndefined and Return are the script completion
			body := codes[:len(codes)-2]
			require.Equal(t, tt.tail, body[len(body)-len(tt.tail):])
		})
	}
}

func TestFunctionMetadata(t *testing.T) {
	code := compileSource(t, `
function f(a, b = 1, c) { return a }
function* g() {}
async function h() {}
const arrow = () => 1`)
	require.Equal(t, 4, code.FunctionCount())

	f := code.FunctionAt(0)
	require.Equal(t, "f", f.Name())
	require.Equal(t, uint32(1), f.Length())
	require.Equal(t, 3, f.ParameterCount())
	require.True(t, f.ParameterAt(1).HasDefault)
	require.Equal(t, bytecode.KindFunction, f.Kind())
	require.Equal(t, "main.0", f.ID())

	g := code.FunctionAt(1)
	require.True(t, g.IsGenerator())
	require.Equal(t, op.GetGenerator, decode(t, code)[2].Code)

	h := code.FunctionAt(2)
	require.True(t, h.IsAsync())

	arrow := code.FunctionAt(3)
	require.True(t, arrow.IsArrow())
	require.Equal(t, "arrow", arrow.Name())
	require.Equal(t, bytecode.ThisModeLexical, arrow.ThisMode())
}

func TestClassMetadata(t *testing.T) {
	code := compileSource(t, "class A extends B { m() {} }")
	ctor := code.FunctionAt(0)
	require.True(t, ctor.IsClassConstructor())
	require.True(t, ctor.IsDerivedConstructor())
	require.True(t, ctor.Strict())
	require.Equal(t, "A", ctor.Name())
	require.Contains(t, opcodes(t, ctor), op.SuperCallDerived)

	codes := opcodes(t, code)
	require.Contains(t, codes, op.PushClassPrototype)
	require.Contains(t, codes, op.DefineClassMethodByName)
}

func TestNamedFunctionExpressionScope(t *testing.T) {
	code := compileSource(t, "const f = function self() { return self }")
	require.Contains(t, opcodes(t, code), op.PushDeclarativeEnvironment)

	code = compileSource(t, "const f = function other() { return 1 }")
	require.NotContains(t, opcodes(t, code), op.PushDeclarativeEnvironment)
}

func TestBlockEnvironments(t *testing.T) {
	code := compileSource(t, "{ let a = 1; { let b = a } }")
	codes := opcodes(t, code)
	require.Equal(t, 2, count(codes, op.PushDeclarativeEnvironment))
	require.Equal(t, 2, count(codes, op.PopEnvironment))
	require.Equal(t, 2, code.EnvironmentCount())
	require.Equal(t, []string{"a"}, code.EnvironmentAt(0).Names)
	require.Equal(t, uint32(1), code.EnvironmentAt(1).Slots)

	code = compileSource(t, "{ f() }")
	require.NotContains(t, opcodes(t, code), op.PushDeclarativeEnvironment)
}

func TestPerIterationEnvironment(t *testing.T) {
	code := compileSource(t, "for (let i = 0; i < 3; i++) { fns.push(() => i) }")
	require.Equal(t, 2, count(opcodes(t, code), op.CopyEnvironment))

	code = compileSource(t, "for (var i = 0; i < 3; i++) {}")
	require.NotContains(t, opcodes(t, code), op.CopyEnvironment)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	program, err := parser.Parse(context.Background(), "function f() {} f()")
	require.NoError(t, err)
	_, err = Compile(program, &Config{Logger: &logger})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"message":"unit compiled"`)
	require.Contains(t, buf.String(), `"unit":"main.0"`)
}

func TestSourceLocations(t *testing.T) {
	src := "let a = 1\nthrow a"
	code := compileSource(t, src)
	var throwPC int
	for _, ins := range decode(t, code) {
		if ins.Code == op.Throw {
			throwPC = ins.Offset
		}
	}
	require.Equal(t, 2, code.LocationAt(throwPC).Line)
	require.Equal(t, "throw a", code.GetSourceLine(2))
}

func TestCompileErrors(t *testing.T) {
	breakStmt := &ast.Break{BreakPos: pos(1)}
	continueStmt := &ast.Continue{ContinuePos: pos(1)}
	tests := []struct {
		name string
		body []ast.Stmt
		code errors.ErrorCode
	}{
		{
			"break outside loop",
			[]ast.Stmt{breakStmt},
			errors.E2003,
		},
		{
			"continue in switch",
			[]ast.Stmt{&ast.Switch{
				Discriminant: ident("x"),
				Cases:        []*ast.Case{{Test: ident("y"), Body: []ast.Stmt{continueStmt}}},
			}},
			errors.E2004,
		},
		{
			"continue to labelled block",
			[]ast.Stmt{&ast.Labelled{
				Label: ident("lbl"),
				Body: &ast.Block{Body: []ast.Stmt{
					&ast.While{Test: &ast.Bool{Value: true}, Body: &ast.Continue{Label: ident("lbl")}},
				}},
			}},
			errors.E2004,
		},
		{
			"return at top level",
			[]ast.Stmt{&ast.Return{ReturnPos: pos(1)}},
			errors.E2005,
		},
		{
			"assign to literal",
			[]ast.Stmt{&ast.ExprStmt{X: &ast.Assign{
				X:  &ast.Number{ValuePos: pos(1), Literal: "1", Value: 1},
				Op: "=",
				Y:  &ast.Number{Literal: "2", Value: 2},
			}}},
			errors.E2011,
		},
		{
			"assign to this",
			[]ast.Stmt{&ast.ExprStmt{X: &ast.Assign{X: &ast.This{}, Op: "=", Y: ident("x")}}},
			errors.E2011,
		},
		{
			"increment optional member",
			[]ast.Stmt{&ast.ExprStmt{X: &ast.OptionalChain{X: &ast.Update{
				Op: "++",
				X:  &ast.Member{X: ident("a"), Name: "b", Optional: true},
			}}}},
			errors.E2011,
		},
		{
			"with statement",
			[]ast.Stmt{&ast.With{Object: ident("o"), Body: &ast.Empty{}}},
			errors.E2013,
		},
		{
			"duplicate let",
			[]ast.Stmt{
				&ast.VarDecl{Kind: ast.Let, List: []*ast.Binding{{Target: ident("a")}}},
				&ast.VarDecl{Kind: ast.Let, List: []*ast.Binding{{Target: ident("a")}}},
			},
			errors.E2001,
		},
		{
			"super call outside constructor",
			[]ast.Stmt{&ast.ExprStmt{X: &ast.Call{Fn: &ast.Super{}}}},
			errors.E2007,
		},
		{
			"destructuring without initializer",
			[]ast.Stmt{&ast.VarDecl{Kind: ast.Let, List: []*ast.Binding{{
				Target: &ast.ArrayPattern{Elements: []ast.Expr{ident("a")}},
			}}}},
			errors.E2010,
		},
		{
			"rest element with default",
			[]ast.Stmt{&ast.VarDecl{Kind: ast.Let, List: []*ast.Binding{{
				Target: &ast.ArrayPattern{Rest: &ast.AssignPattern{Target: ident("a"), Default: ident("b")}},
				Init:   &ast.Array{},
			}}}},
			errors.E2014,
		},
		{
			"duplicate strict parameter",
			[]ast.Stmt{&ast.FuncDecl{Func: &ast.Func{
				Name:   ident("f"),
				Strict: true,
				Params: &ast.Params{List: []*ast.Binding{{Target: ident("a")}, {Target: ident("a")}}},
				Body:   &ast.Block{},
			}}},
			errors.E2006,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compileError(t, tt.body...)
			require.Equal(t, tt.code, err.Code)
		})
	}
}

func TestUndeclaredLabelSuggestions(t *testing.T) {
	loop := &ast.Labelled{
		Label: ident("outer"),
		Body: &ast.For{Body: &ast.Block{Body: []ast.Stmt{
			&ast.Break{BreakPos: pos(2), Label: &ast.Ident{NamePos: pos(2), Name: "outr"}},
		}}},
	}
	err := compileError(t, loop)
	require.Equal(t, errors.E2012, err.Code)
	require.Equal(t, 2, err.Line)
	require.NotEmpty(t, err.Suggestions)
	require.Equal(t, "outer", err.Suggestions[0].Value)
}

func TestSloppyDuplicateParameters(t *testing.T) {
	fn := &ast.FuncDecl{Func: &ast.Func{
		Name:   ident("f"),
		Params: &ast.Params{List: []*ast.Binding{{Target: ident("a")}, {Target: ident("a")}}},
		Body:   &ast.Block{},
	}}
	_, err := compileProgram(t, fn)
	require.NoError(t, err)
}

func TestWithFromSource(t *testing.T) {
	program, err := parser.Parse(context.Background(), "with (o) { x }")
	require.NoError(t, err)
	_, err = Compile(program, nil)
	require.Error(t, err)
	ce, ok := err.(*errors.CompileError)
	require.True(t, ok)
	require.Equal(t, errors.E2013, ce.Code)
	require.Equal(t, 1, ce.Line)
}

func TestStrictScript(t *testing.T) {
	code := compileSource(t, `"use strict"; function f() {}`)
	require.True(t, code.Strict())
	require.True(t, code.FunctionAt(0).Strict())
	require.Equal(t, bytecode.ThisModeStrict, code.FunctionAt(0).ThisMode())

	program, err := parser.Parse(context.Background(), "function f() {}")
	require.NoError(t, err)
	code, err = Compile(program, &Config{Strict: true})
	require.NoError(t, err)
	require.True(t, code.Strict())
}

func TestFinishTwicePanics(t *testing.T) {
	c := New(nil)
	c.emit(op.PushUndefined)
	c.emit(op.Return)
	c.Finish()
	require.Panics(t, func() { c.Finish() })
}

func TestUnpatchedLabelPanics(t *testing.T) {
	c := New(nil)
	c.jump()
	require.Panics(t, func() { c.Finish() })
}

func TestLogicalAssignment(t *testing.T) {
	for _, operator := range []string{"&&=", "||=", "??="} {
		t.Run(operator, func(t *testing.T) {
			code, err := compileProgram(t,
				&ast.ExprStmt{X: &ast.Assign{X: ident("a"), Op: operator, Y: &ast.Number{Literal: "1", Value: 1}}},
				&ast.ExprStmt{X: &ast.Assign{X: &ast.Member{X: ident("o"), Name: "b"}, Op: operator, Y: ident("v")}},
				&ast.ExprStmt{X: &ast.Assign{X: &ast.Index{X: ident("o"), Index: ident("k")}, Op: operator, Y: ident("v")}},
			)
			require.NoError(t, err)
			codes := opcodes(t, code)
			require.Equal(t, 3, count(codes, logicalOps[operator[:2]]))
		})
	}
}

func TestFailedCompileRestoresArena(t *testing.T) {
	arena := scope.NewArena()
	compile := func(src string) (*bytecode.CodeBlock, error) {
		program, err := parser.Parse(context.Background(), src)
		require.NoError(t, err)
		return Compile(program, &Config{Source: src, Arena: arena, Verify: true})
	}

	_, err := compile("let z = 0; { let x = 1; with (o) {} }")
	require.Error(t, err)
	require.Equal(t, 1, arena.Depth())

	code, err := compile("let y = 1; let z = 2; y")
	require.NoError(t, err)
	require.Greater(t, code.BindingCount(), 0)
	for i := 0; i < code.BindingCount(); i++ {
		require.True(t, code.BindingAt(i).Global, code.BindingAt(i).String())
	}
}

func TestObjectRestAfterManyProperties(t *testing.T) {
	props := make([]string, 300)
	for i := range props {
		props[i] = fmt.Sprintf("p%d", i)
	}
	src := "let {" + strings.Join(props, ", ") + ", ...rest} = o"
	insns := decode(t, compileSource(t, src))

	var copyData op.Instruction
	for _, ins := range insns {
		if ins.Code == op.CopyDataProperties {
			copyData = ins
		}
	}
	require.Equal(t, uint32(300), copyData.Operand(0))
	// PushEmptyObject; RotateUp 302; RotateUp 301; CopyDataProperties
	require.Equal(t, op.RotateUp, insns[len(insns)-6].Code)
	require.Equal(t, uint32(302), insns[len(insns)-6].Operand(0))
	require.Equal(t, uint32(301), insns[len(insns)-5].Operand(0))
}

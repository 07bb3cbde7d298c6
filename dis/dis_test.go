package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/compiler"
	"github.com/risor-io/escompile/op"
	"github.com/risor-io/escompile/parser"
)

func compile(t *testing.T, src string) *bytecode.CodeBlock {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	code, err := compiler.Compile(program, &compiler.Config{Source: src})
	require.NoError(t, err)
	return code
}

func disableColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func find(instructions []Instruction, code op.Code) (Instruction, bool) {
	for _, instr := range instructions {
		if instr.Opcode == code {
			return instr, true
		}
	}
	return Instruction{}, false
}

func TestFunctionDisassembly(t *testing.T) {
	disableColor(t)
	code := compile(t, `
	function f() {
		return 42
	}`)
	require.Equal(t, 1, code.FunctionCount())

	instructions, err := Disassemble(code.FunctionAt(0))
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(instructions, &buf)

	expected := strings.TrimSpace(`
+--------+----------------+----------+------+
| OFFSET |     OPCODE     | OPERANDS | INFO |
+--------+----------------+----------+------+
|      0 | PUSH_INT8      |       42 |      |
|      2 | RETURN         |          |      |
|      3 | PUSH_UNDEFINED |          |      |
|      4 | RETURN         |          |      |
+--------+----------------+----------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestAnnotations(t *testing.T) {
	code := compile(t, "let s = 'hi'\no.p = x ? s : /a+/g")
	instructions, err := Disassemble(code)
	require.NoError(t, err)

	lit, ok := find(instructions, op.PushLiteral)
	require.True(t, ok)
	require.Equal(t, `"hi"`, lit.Annotation)
	require.NotNil(t, lit.Literal)
	require.Equal(t, 1, lit.Line)

	def, ok := find(instructions, op.DefInitLet)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(def.Annotation, "s "), def.Annotation)

	set, ok := find(instructions, op.SetPropertyByName)
	require.True(t, ok)
	require.Equal(t, "p", set.Annotation)
	require.Equal(t, 2, set.Line)

	re, ok := find(instructions, op.PushRegExp)
	require.True(t, ok)
	require.Equal(t, "/a+/g", re.Annotation)

	branch, ok := find(instructions, op.JumpIfFalse)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(branch.Annotation, "-> "))
}

func TestOperandFormatting(t *testing.T) {
	code := compile(t, "-5; 1000; 2.5")
	instructions, err := Disassemble(code)
	require.NoError(t, err)
	require.Equal(t, []string{"-5"}, instructions[0].Operands)
	require.Equal(t, []string{"1000"}, instructions[2].Operands)
	require.Equal(t, []string{"2.5"}, instructions[4].Operands)
}

func TestPrintAll(t *testing.T) {
	disableColor(t)
	code := compile(t, "function f(a, b = 1) { return () => a }")

	var buf bytes.Buffer
	require.NoError(t, PrintAll(code, &buf))
	out := buf.String()
	require.Contains(t, out, "main main (script)")
	require.Contains(t, out, "main.0 f(a, b = <default>)")
	require.Contains(t, out, "main.0.0")
	require.Contains(t, out, "func:f")
	require.Equal(t, 3, strings.Count(out, "| OFFSET |"))
}

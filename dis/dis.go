// Package dis supports analysis of compiled ECMAScript by disassembling it.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/internal/table"
	"github.com/risor-io/escompile/op"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int                 `json:"offset" yaml:"offset"`
	Name       string              `json:"name" yaml:"name"`
	Opcode     op.Code             `json:"-" yaml:"-"`
	Operands   []string            `json:"operands,omitempty" yaml:"operands,omitempty"`
	Annotation string              `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Line       int                 `json:"line,omitempty" yaml:"line,omitempty"`
	Literal    *bytecode.Literal   `json:"-" yaml:"-"`
	Function   *bytecode.CodeBlock `json:"-" yaml:"-"`
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.CodeBlock) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewInstructionIter(code)
	for {
		ins, ok := iter.Next()
		if !ok {
			break
		}
		instr := Instruction{
			Offset:   ins.Offset,
			Name:     op.GetInfo(ins.Code).Name,
			Opcode:   ins.Code,
			Operands: formatOperands(ins),
			Line:     code.LocationAt(ins.Offset).Line,
		}
		if err := annotate(code, ins, &instr); err != nil {
			return nil, err
		}
		instructions = append(instructions, instr)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return instructions, nil
}

func annotate(code *bytecode.CodeBlock, ins op.Instruction, instr *Instruction) error {
	var err error
	switch ins.Code {
	case op.DefVar, op.DefInitVar, op.DefLet, op.DefInitLet, op.DefInitConst, op.DefInitArg,
		op.GetName, op.GetNameOrUndefined, op.SetName, op.DeleteName:
		instr.Annotation, err = getBinding(code, int(ins.Operand(0)))
	case op.GetPropertyByName, op.SetPropertyByName, op.DefineOwnPropertyByName,
		op.SetPropertyGetterByName, op.SetPropertySetterByName,
		op.DefineClassMethodByName, op.DefineClassGetterByName, op.DefineClassSetterByName,
		op.DeletePropertyByName, op.SuperGetPropertyByName, op.SuperSetPropertyByName:
		instr.Annotation, err = getName(code, int(ins.Operand(0)))
	case op.GetPrivateField, op.SetPrivateField, op.DefineStaticPrivateField,
		op.PushClassFieldPrivate, op.InPrivate,
		op.PushClassPrivateMethod, op.DefineStaticPrivateMethod:
		var name string
		name, err = getName(code, int(ins.Operand(0)))
		instr.Annotation = "#" + name
	case op.PushLiteral:
		var lit bytecode.Literal
		lit, err = getLiteral(code, int(ins.Operand(0)))
		if err == nil {
			instr.Literal = &lit
			instr.Annotation = lit.String()
		}
	case op.PushRegExp:
		var pattern, flags bytecode.Literal
		if pattern, err = getLiteral(code, int(ins.Operand(0))); err != nil {
			break
		}
		if flags, err = getLiteral(code, int(ins.Operand(1))); err != nil {
			break
		}
		instr.Annotation = "/" + pattern.Value + "/" + flags.Value
	case op.GetFunction, op.GetFunctionAsync, op.GetGenerator, op.GetGeneratorAsync:
		idx := int(ins.Operand(0))
		if idx >= code.FunctionCount() {
			return fmt.Errorf("function index out of range: %d", idx)
		}
		instr.Function = code.FunctionAt(idx)
		instr.Annotation = "func:" + instr.Function.Name()
	case op.PushDeclarativeEnvironment, op.PushFunctionEnvironment:
		idx := int(ins.Operand(1))
		if idx >= code.EnvironmentCount() {
			return fmt.Errorf("environment index out of range: %d", idx)
		}
		instr.Annotation = "[" + strings.Join(code.EnvironmentAt(idx).Names, ", ") + "]"
	case op.TryStart:
		instr.Annotation = fmt.Sprintf("handler %d, finally %d", ins.Operand(0), ins.Operand(1))
	case op.FinallySetJump, op.CatchStart:
		instr.Annotation = fmt.Sprintf("-> %d", ins.Operand(0))
	default:
		if target, ok := ins.Target(); ok {
			instr.Annotation = fmt.Sprintf("-> %d", target)
		}
	}
	return err
}

func formatOperands(ins op.Instruction) []string {
	info := op.GetInfo(ins.Code)
	if len(info.Operands) == 0 {
		return nil
	}
	out := make([]string, len(info.Operands))
	for i, kind := range info.Operands {
		switch kind {
		case op.I8, op.I16, op.I32:
			out[i] = strconv.FormatInt(ins.Signed(i), 10)
		case op.F64:
			out[i] = formatFloat(ins.Float(i))
		default:
			out[i] = strconv.FormatUint(uint64(ins.Operand(i)), 10)
		}
	}
	return out
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprint(f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func getBinding(code *bytecode.CodeBlock, index int) (string, error) {
	if code.BindingCount() <= index {
		return "", fmt.Errorf("binding index out of range: %d", index)
	}
	return code.BindingAt(index).String(), nil
}

func getName(code *bytecode.CodeBlock, index int) (string, error) {
	if code.NameCount() <= index {
		return "", fmt.Errorf("name index out of range: %d", index)
	}
	return code.NameAt(index), nil
}

func getLiteral(code *bytecode.CodeBlock, index int) (bytecode.Literal, error) {
	if code.LiteralCount() <= index {
		return bytecode.Literal{}, fmt.Errorf("literal index out of range: %d", index)
	}
	return code.LiteralAt(index), nil
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	italic  = color.New(color.Italic).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, strconv.Itoa(instr.Offset))
		values = append(values, bold(instr.Name))
		values = append(values, strings.Join(instr.Operands, ", "))
		switch {
		case instr.Function != nil:
			name := instr.Function.Name()
			if name == "" {
				name = italic("<anonymous>")
			}
			values = append(values, magenta("func:"+name))
		case instr.Literal != nil:
			s := instr.Annotation
			if len(s) > 80 {
				s = s[:77] + "..."
			}
			if instr.Literal.Kind == bytecode.LiteralBigInt {
				values = append(values, yellow(s))
			} else {
				values = append(values, green(s))
			}
		case instr.Annotation != "":
			values = append(values, cyan(instr.Annotation))
		default:
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// PrintAll disassembles a CodeBlock and every nested unit, printing each
// under a heading naming the unit.
func PrintAll(code *bytecode.CodeBlock, writer io.Writer) error {
	for i, unit := range code.Flatten() {
		instructions, err := Disassemble(unit)
		if err != nil {
			return fmt.Errorf("%s: %w", unit.ID(), err)
		}
		if i > 0 {
			fmt.Fprintln(writer)
		}
		fmt.Fprintf(writer, "%s %s\n", bold(unit.ID()), heading(unit))
		Print(instructions, writer)
	}
	return nil
}

func heading(unit *bytecode.CodeBlock) string {
	name := unit.Name()
	if name == "" {
		name = "<anonymous>"
	}
	if unit.Kind() == bytecode.KindFunction {
		return unit.Signature()
	}
	return fmt.Sprintf("%s (%s)", name, unit.Kind())
}

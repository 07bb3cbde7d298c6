package op

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned when an instruction's operands extend past the
// end of the buffer.
var ErrTruncated = errors.New("truncated instruction")

// Instruction is one decoded instruction.
//
// Operands hold the raw operand values. Signed operands are sign extended,
// so Signed returns the original value, and F64 operands hold the IEEE-754
// bits.
type Instruction struct {
	Code     Code
	Offset   int
	Size     int
	Operands []uint64
}

// Operand returns operand i truncated to 32 bits.
func (i Instruction) Operand(idx int) uint32 {
	return uint32(i.Operands[idx])
}

// Signed returns operand i as a signed integer.
func (i Instruction) Signed(idx int) int64 {
	return int64(i.Operands[idx])
}

// Float returns operand i as a float64.
func (i Instruction) Float(idx int) float64 {
	return math.Float64frombits(i.Operands[idx])
}

// Next returns the offset of the following instruction.
func (i Instruction) Next() int {
	return i.Offset + i.Size
}

// Target returns the jump address of a jump or branch instruction.
func (i Instruction) Target() (uint32, bool) {
	idx := GetInfo(i.Code).Target()
	if idx < 0 {
		return 0, false
	}
	return i.Operand(idx), true
}

// Append encodes an instruction and appends it to buf. It panics if the
// number of operands does not match the opcode.
func Append(buf []byte, code Code, operands ...uint64) []byte {
	info := GetInfo(code)
	if info.Name == "" {
		panic(fmt.Sprintf("op: unknown opcode %d", code))
	}
	if len(operands) != len(info.Operands) {
		panic(fmt.Sprintf("op: %s expects %d operands, got %d",
			info.Name, len(info.Operands), len(operands)))
	}
	buf = append(buf, code.Byte())
	for i, kind := range info.Operands {
		v := operands[i]
		switch kind.Width() {
		case 1:
			buf = append(buf, byte(v))
		case 2:
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		case 4:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		case 8:
			buf = binary.LittleEndian.AppendUint64(buf, v)
		}
	}
	return buf
}

// Decode decodes the instruction that starts at buf[pc].
func Decode(buf []byte, pc int) (Instruction, error) {
	if pc < 0 || pc >= len(buf) {
		return Instruction{}, fmt.Errorf("%w at offset %d", ErrTruncated, pc)
	}
	code, err := FromByte(buf[pc])
	if err != nil {
		return Instruction{}, fmt.Errorf("offset %d: %w", pc, err)
	}
	info := infos[code]
	if pc+info.Size() > len(buf) {
		return Instruction{}, fmt.Errorf("%w: %s at offset %d", ErrTruncated, info.Name, pc)
	}
	ins := Instruction{Code: code, Offset: pc, Size: info.Size()}
	if len(info.Operands) > 0 {
		ins.Operands = make([]uint64, len(info.Operands))
	}
	pos := pc + 1
	for i, kind := range info.Operands {
		switch kind {
		case U8:
			ins.Operands[i] = uint64(buf[pos])
		case I8:
			ins.Operands[i] = uint64(int64(int8(buf[pos])))
		case I16:
			ins.Operands[i] = uint64(int64(int16(binary.LittleEndian.Uint16(buf[pos:]))))
		case I32:
			ins.Operands[i] = uint64(int64(int32(binary.LittleEndian.Uint32(buf[pos:]))))
		case F64:
			ins.Operands[i] = binary.LittleEndian.Uint64(buf[pos:])
		default:
			ins.Operands[i] = uint64(binary.LittleEndian.Uint32(buf[pos:]))
		}
		pos += kind.Width()
	}
	return ins, nil
}

// StackEffect returns the number of values an instruction pops and pushes
// when execution continues with the next instruction.
func StackEffect(ins Instruction) (pop, push int) {
	info := GetInfo(ins.Code)
	switch ins.Code {
	case RotateUp, RotateDown:
		n := int(ins.Operand(0))
		return n, n
	case PushClassPrototype:
		return 1 + int(ins.Operand(0)), 2
	case CopyDataProperties:
		return 2 + int(ins.Operand(0)), 1
	case Call, CallWithRest, CallEval, CallEvalWithRest:
		return 2 + int(ins.Operand(0)), 1
	case New, NewWithRest:
		return 1 + int(ins.Operand(0)), 1
	case SuperCall, SuperCallWithRest:
		return int(ins.Operand(0)), 1
	case ConcatToString:
		return int(ins.Operand(0)), 1
	}
	return info.Pop, info.Push
}

// BranchEffect returns the stack effect of a jump or branch when the jump
// is taken. ok is false for instructions that never jump.
func BranchEffect(ins Instruction) (pop, push int, ok bool) {
	info := GetInfo(ins.Code)
	if info.Flow != FlowJump && info.Flow != FlowBranch {
		return 0, 0, false
	}
	return info.BranchPop, info.BranchPush, true
}

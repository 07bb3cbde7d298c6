// Package op defines the opcodes executed by the escompile virtual machine.
//
// Every opcode is encoded as a single byte followed by a fixed sequence of
// operands. Operand widths and the abstract stack transition of each opcode
// are recorded in an Info table, available through GetInfo. The compiler,
// the disassembler and the bytecode verifier all read the same table.
package op

import (
	"errors"
	"fmt"
)

// Code is a one-byte opcode that indicates an operation to execute.
type Code uint8

// DummyAddress is written into jump operands that have not been patched yet.
const DummyAddress uint32 = 0xFFFFFFFF

// ErrInvalidOpcode is returned when a byte does not name an opcode.
var ErrInvalidOpcode = errors.New("invalid opcode")

const (
	// Stack manipulation
	Pop Code = iota
	Dup
	Swap
	RotateUp
	RotateDown

	// Literals and constants
	PushUndefined
	PushNull
	PushTrue
	PushFalse
	PushZero
	PushOne
	PushInt8
	PushInt16
	PushInt32
	PushRational
	PushNaN
	PushPositiveInfinity
	PushNegativeInfinity
	PushLiteral
	PushRegExp
	PushEmptyObject
	PushNewArray
	PushValueToArray
	PushElisionToArray
	PushIteratorToArray

	// Classes
	PushClassPrototype
	PushClassField
	PushClassFieldPrivate
	PushClassPrivateMethod

	// Binary operators
	Add
	Sub
	Div
	Mul
	Mod
	Pow
	ShiftRight
	ShiftLeft
	UnsignedShiftRight
	BitOr
	BitAnd
	BitXor
	In
	InPrivate
	Eq
	StrictEq
	NotEq
	StrictNotEq
	GreaterThan
	GreaterThanOrEq
	LessThan
	LessThanOrEq
	InstanceOf

	// Short circuit operators
	LogicalAnd
	LogicalOr
	Coalesce

	// Unary operators
	TypeOf
	Void
	LogicalNot
	Pos
	Neg
	BitNot
	Inc
	Dec
	ToNumeric
	ToBoolean
	ToPropertyKey

	// Bindings
	DefVar
	DefInitVar
	DefLet
	DefInitLet
	DefInitConst
	DefInitArg
	GetName
	GetNameOrUndefined
	SetName
	DeleteName

	// Properties
	GetPropertyByName
	GetPropertyByValue
	GetPropertyByValuePush
	SetPropertyByName
	SetPropertyByValue
	DefineOwnPropertyByName
	DefineOwnPropertyByValue
	SetPropertyGetterByName
	SetPropertyGetterByValue
	SetPropertySetterByName
	SetPropertySetterByValue
	SetPrototype
	DefineClassMethodByName
	DefineClassMethodByValue
	DefineClassGetterByName
	DefineClassGetterByValue
	DefineClassSetterByName
	DefineClassSetterByValue
	DeletePropertyByName
	DeletePropertyByValue
	CopyDataProperties

	// Private names and static class elements
	GetPrivateField
	SetPrivateField
	DefineStaticField
	DefineStaticPrivateField
	DefineStaticPrivateMethod
	RunClassStaticBlock

	// Super
	SuperGetPropertyByName
	SuperGetPropertyByValue
	SuperSetPropertyByName
	SuperSetPropertyByValue
	SuperCall
	SuperCallWithRest
	SuperCallDerived

	// Jumps
	Jump
	JumpIfFalse
	JumpIfTrue
	JumpIfNotUndefined
	JumpIfNullOrUndefined
	Case
	Default

	// Exceptions
	Throw
	TryStart
	TryEnd
	CatchStart
	CatchEnd
	CatchEnd2
	FinallyStart
	FinallyEnd
	FinallySetJump
	FinallyDiscard

	// Function frame
	This
	NewTarget
	GetArgument
	RestParameterInit
	CreateMappedArgumentsObject
	CreateUnmappedArgumentsObject
	GetFunction
	GetFunctionAsync
	GetGenerator
	GetGeneratorAsync

	// Calls
	Call
	CallWithRest
	CallEval
	CallEvalWithRest
	New
	NewWithRest
	Return
	SetReturnValue
	GetReturnValue

	// Environments
	PushDeclarativeEnvironment
	PushFunctionEnvironment
	PopEnvironment
	CopyEnvironment
	LoopStart
	LoopContinue
	LoopEnd

	// Iteration
	InitIterator
	ForInLoopInitIterator
	IteratorNext
	IteratorNextFull
	IteratorClose
	IteratorToArray

	// Miscellaneous
	ConcatToString
	RequireObjectCoercible
	ValueNotNullOrUndefined

	// Generators and async functions
	Yield
	GeneratorNext
	GeneratorNextDelegate
	Await

	Nop
)

// Last is the highest defined opcode.
const Last = Nop

// FromByte converts a raw byte into a Code. Bytes above Last are rejected.
func FromByte(b byte) (Code, error) {
	if b > byte(Last) {
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidOpcode, b)
	}
	return Code(b), nil
}

// Byte returns the encoded form of the opcode.
func (c Code) Byte() byte {
	return byte(c)
}

// String returns the display name of the opcode, for example "PUSH_LITERAL".
func (c Code) String() string {
	if c > Last {
		return fmt.Sprintf("OP(%d)", uint8(c))
	}
	return infos[c].Name
}

// MethodKind is the operand that distinguishes private methods from
// private accessors.
type MethodKind uint32

const (
	MethodKindMethod MethodKind = iota
	MethodKindGetter
	MethodKindSetter
)

func (k MethodKind) String() string {
	switch k {
	case MethodKindMethod:
		return "method"
	case MethodKindGetter:
		return "getter"
	case MethodKindSetter:
		return "setter"
	}
	return ""
}

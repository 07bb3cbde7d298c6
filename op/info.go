package op

// OperandKind describes how one operand is encoded.
type OperandKind uint8

const (
	// U32 is an unsigned index or count.
	U32 OperandKind = iota
	// Addr is a u32 absolute byte offset into the same code buffer.
	Addr
	// U8 is a small unsigned count.
	U8
	I8
	I16
	I32
	// F64 is an IEEE-754 double stored as its raw bits.
	F64
)

// Width returns the number of bytes occupied by an operand of this kind.
func (k OperandKind) Width() int {
	switch k {
	case U8, I8:
		return 1
	case I16:
		return 2
	case F64:
		return 8
	default:
		return 4
	}
}

func (k OperandKind) String() string {
	switch k {
	case U32:
		return "u32"
	case Addr:
		return "addr"
	case U8:
		return "u8"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case F64:
		return "f64"
	}
	return "?"
}

// Flow classifies how control leaves an instruction.
type Flow uint8

const (
	// FlowNext continues with the following instruction.
	FlowNext Flow = iota
	// FlowJump always transfers to its address operand.
	FlowJump
	// FlowBranch either continues or transfers to its address operand.
	FlowBranch
	// FlowReturn leaves the function.
	FlowReturn
	// FlowThrow raises an exception.
	FlowThrow
)

// Variable marks a stack effect that depends on an operand.
const Variable = -1

// Info describes an opcode: its name, operands and stack contract.
//
// Pop and Push give the effect on the fallthrough path. For branching
// opcodes BranchPop and BranchPush give the effect when the jump is taken.
// Opcodes whose effect depends on a count operand use Variable; see
// StackEffect.
type Info struct {
	Code       Code
	Name       string
	Operands   []OperandKind
	Pop        int
	Push       int
	BranchPop  int
	BranchPush int
	Flow       Flow
}

// OperandCount returns the number of operands that follow the opcode.
func (i Info) OperandCount() int {
	return len(i.Operands)
}

// Size returns the encoded size of the instruction in bytes, opcode included.
func (i Info) Size() int {
	size := 1
	for _, k := range i.Operands {
		size += k.Width()
	}
	return size
}

// Target returns the index of the operand holding the jump address of a
// jump or branch, or -1.
func (i Info) Target() int {
	if i.Flow != FlowJump && i.Flow != FlowBranch {
		return -1
	}
	for idx, k := range i.Operands {
		if k == Addr {
			return idx
		}
	}
	return -1
}

var infos [int(Last) + 1]Info

func init() {
	none := []OperandKind(nil)
	u32 := []OperandKind{U32}
	u32x2 := []OperandKind{U32, U32}
	addr := []OperandKind{Addr}

	type entry struct {
		op       Code
		name     string
		operands []OperandKind
		pop      int
		push     int
	}
	ops := []entry{
		{Pop, "POP", none, 1, 0},
		{Dup, "DUP", none, 1, 2},
		{Swap, "SWAP", none, 2, 2},
		{RotateUp, "ROTATE_UP", u32, Variable, Variable},
		{RotateDown, "ROTATE_DOWN", u32, Variable, Variable},

		{PushUndefined, "PUSH_UNDEFINED", none, 0, 1},
		{PushNull, "PUSH_NULL", none, 0, 1},
		{PushTrue, "PUSH_TRUE", none, 0, 1},
		{PushFalse, "PUSH_FALSE", none, 0, 1},
		{PushZero, "PUSH_ZERO", none, 0, 1},
		{PushOne, "PUSH_ONE", none, 0, 1},
		{PushInt8, "PUSH_INT8", []OperandKind{I8}, 0, 1},
		{PushInt16, "PUSH_INT16", []OperandKind{I16}, 0, 1},
		{PushInt32, "PUSH_INT32", []OperandKind{I32}, 0, 1},
		{PushRational, "PUSH_RATIONAL", []OperandKind{F64}, 0, 1},
		{PushNaN, "PUSH_NAN", none, 0, 1},
		{PushPositiveInfinity, "PUSH_POSITIVE_INFINITY", none, 0, 1},
		{PushNegativeInfinity, "PUSH_NEGATIVE_INFINITY", none, 0, 1},
		{PushLiteral, "PUSH_LITERAL", u32, 0, 1},
		{PushRegExp, "PUSH_REGEXP", u32x2, 0, 1},
		{PushEmptyObject, "PUSH_EMPTY_OBJECT", none, 0, 1},
		{PushNewArray, "PUSH_NEW_ARRAY", none, 0, 1},
		{PushValueToArray, "PUSH_VALUE_TO_ARRAY", none, 2, 1},
		{PushElisionToArray, "PUSH_ELISION_TO_ARRAY", none, 1, 1},
		{PushIteratorToArray, "PUSH_ITERATOR_TO_ARRAY", none, 4, 1},

		{PushClassPrototype, "PUSH_CLASS_PROTOTYPE", u32, Variable, 2},
		{PushClassField, "PUSH_CLASS_FIELD", none, 3, 1},
		{PushClassFieldPrivate, "PUSH_CLASS_FIELD_PRIVATE", u32, 2, 1},
		{PushClassPrivateMethod, "PUSH_CLASS_PRIVATE_METHOD", u32x2, 2, 1},

		{Add, "ADD", none, 2, 1},
		{Sub, "SUB", none, 2, 1},
		{Div, "DIV", none, 2, 1},
		{Mul, "MUL", none, 2, 1},
		{Mod, "MOD", none, 2, 1},
		{Pow, "POW", none, 2, 1},
		{ShiftRight, "SHIFT_RIGHT", none, 2, 1},
		{ShiftLeft, "SHIFT_LEFT", none, 2, 1},
		{UnsignedShiftRight, "UNSIGNED_SHIFT_RIGHT", none, 2, 1},
		{BitOr, "BIT_OR", none, 2, 1},
		{BitAnd, "BIT_AND", none, 2, 1},
		{BitXor, "BIT_XOR", none, 2, 1},
		{In, "IN", none, 2, 1},
		{InPrivate, "IN_PRIVATE", u32, 1, 1},
		{Eq, "EQ", none, 2, 1},
		{StrictEq, "STRICT_EQ", none, 2, 1},
		{NotEq, "NOT_EQ", none, 2, 1},
		{StrictNotEq, "STRICT_NOT_EQ", none, 2, 1},
		{GreaterThan, "GREATER_THAN", none, 2, 1},
		{GreaterThanOrEq, "GREATER_THAN_OR_EQ", none, 2, 1},
		{LessThan, "LESS_THAN", none, 2, 1},
		{LessThanOrEq, "LESS_THAN_OR_EQ", none, 2, 1},
		{InstanceOf, "INSTANCE_OF", none, 2, 1},

		{LogicalAnd, "LOGICAL_AND", addr, 1, 0},
		{LogicalOr, "LOGICAL_OR", addr, 1, 0},
		{Coalesce, "COALESCE", addr, 1, 0},

		{TypeOf, "TYPE_OF", none, 1, 1},
		{Void, "VOID", none, 1, 1},
		{LogicalNot, "LOGICAL_NOT", none, 1, 1},
		{Pos, "POS", none, 1, 1},
		{Neg, "NEG", none, 1, 1},
		{BitNot, "BIT_NOT", none, 1, 1},
		{Inc, "INC", none, 1, 1},
		{Dec, "DEC", none, 1, 1},
		{ToNumeric, "TO_NUMERIC", none, 1, 1},
		{ToBoolean, "TO_BOOLEAN", none, 1, 1},
		{ToPropertyKey, "TO_PROPERTY_KEY", none, 1, 1},

		{DefVar, "DEF_VAR", u32, 0, 0},
		{DefInitVar, "DEF_INIT_VAR", u32, 1, 0},
		{DefLet, "DEF_LET", u32, 0, 0},
		{DefInitLet, "DEF_INIT_LET", u32, 1, 0},
		{DefInitConst, "DEF_INIT_CONST", u32, 1, 0},
		{DefInitArg, "DEF_INIT_ARG", u32, 1, 0},
		{GetName, "GET_NAME", u32, 0, 1},
		{GetNameOrUndefined, "GET_NAME_OR_UNDEFINED", u32, 0, 1},
		{SetName, "SET_NAME", u32, 1, 0},
		{DeleteName, "DELETE_NAME", u32, 0, 1},

		{GetPropertyByName, "GET_PROPERTY_BY_NAME", u32, 1, 1},
		{GetPropertyByValue, "GET_PROPERTY_BY_VALUE", none, 2, 1},
		{GetPropertyByValuePush, "GET_PROPERTY_BY_VALUE_PUSH", none, 2, 3},
		{SetPropertyByName, "SET_PROPERTY_BY_NAME", u32, 2, 1},
		{SetPropertyByValue, "SET_PROPERTY_BY_VALUE", none, 3, 1},
		{DefineOwnPropertyByName, "DEFINE_OWN_PROPERTY_BY_NAME", u32, 2, 1},
		{DefineOwnPropertyByValue, "DEFINE_OWN_PROPERTY_BY_VALUE", none, 3, 1},
		{SetPropertyGetterByName, "SET_PROPERTY_GETTER_BY_NAME", u32, 2, 1},
		{SetPropertyGetterByValue, "SET_PROPERTY_GETTER_BY_VALUE", none, 3, 1},
		{SetPropertySetterByName, "SET_PROPERTY_SETTER_BY_NAME", u32, 2, 1},
		{SetPropertySetterByValue, "SET_PROPERTY_SETTER_BY_VALUE", none, 3, 1},
		{SetPrototype, "SET_PROTOTYPE", none, 2, 1},
		{DefineClassMethodByName, "DEFINE_CLASS_METHOD_BY_NAME", u32, 2, 1},
		{DefineClassMethodByValue, "DEFINE_CLASS_METHOD_BY_VALUE", none, 3, 1},
		{DefineClassGetterByName, "DEFINE_CLASS_GETTER_BY_NAME", u32, 2, 1},
		{DefineClassGetterByValue, "DEFINE_CLASS_GETTER_BY_VALUE", none, 3, 1},
		{DefineClassSetterByName, "DEFINE_CLASS_SETTER_BY_NAME", u32, 2, 1},
		{DefineClassSetterByValue, "DEFINE_CLASS_SETTER_BY_VALUE", none, 3, 1},
		{DeletePropertyByName, "DELETE_PROPERTY_BY_NAME", u32, 1, 1},
		{DeletePropertyByValue, "DELETE_PROPERTY_BY_VALUE", none, 2, 1},
		{CopyDataProperties, "COPY_DATA_PROPERTIES", u32, Variable, 1},

		{GetPrivateField, "GET_PRIVATE_FIELD", u32, 1, 1},
		{SetPrivateField, "SET_PRIVATE_FIELD", u32, 2, 1},
		{DefineStaticField, "DEFINE_STATIC_FIELD", none, 3, 1},
		{DefineStaticPrivateField, "DEFINE_STATIC_PRIVATE_FIELD", u32, 2, 1},
		{DefineStaticPrivateMethod, "DEFINE_STATIC_PRIVATE_METHOD", u32x2, 2, 1},
		{RunClassStaticBlock, "RUN_CLASS_STATIC_BLOCK", none, 2, 1},

		{SuperGetPropertyByName, "SUPER_GET_PROPERTY_BY_NAME", u32, 0, 1},
		{SuperGetPropertyByValue, "SUPER_GET_PROPERTY_BY_VALUE", none, 1, 1},
		{SuperSetPropertyByName, "SUPER_SET_PROPERTY_BY_NAME", u32, 1, 1},
		{SuperSetPropertyByValue, "SUPER_SET_PROPERTY_BY_VALUE", none, 2, 1},
		{SuperCall, "SUPER_CALL", u32, Variable, 1},
		{SuperCallWithRest, "SUPER_CALL_WITH_REST", u32, Variable, 1},
		{SuperCallDerived, "SUPER_CALL_DERIVED", none, 0, 1},

		{Jump, "JUMP", addr, 0, 0},
		{JumpIfFalse, "JUMP_IF_FALSE", addr, 1, 0},
		{JumpIfTrue, "JUMP_IF_TRUE", addr, 1, 0},
		{JumpIfNotUndefined, "JUMP_IF_NOT_UNDEFINED", addr, 1, 0},
		{JumpIfNullOrUndefined, "JUMP_IF_NULL_OR_UNDEFINED", addr, 1, 1},
		{Case, "CASE", addr, 2, 1},
		{Default, "DEFAULT", addr, 1, 0},

		{Throw, "THROW", none, 1, 0},
		{TryStart, "TRY_START", []OperandKind{Addr, Addr}, 0, 0},
		{TryEnd, "TRY_END", none, 0, 0},
		{CatchStart, "CATCH_START", addr, 0, 0},
		{CatchEnd, "CATCH_END", none, 0, 0},
		{CatchEnd2, "CATCH_END2", none, 0, 0},
		{FinallyStart, "FINALLY_START", none, 0, 0},
		{FinallyEnd, "FINALLY_END", none, 0, 0},
		{FinallySetJump, "FINALLY_SET_JUMP", addr, 0, 0},
		{FinallyDiscard, "FINALLY_DISCARD", none, 0, 0},

		{This, "THIS", none, 0, 1},
		{NewTarget, "NEW_TARGET", none, 0, 1},
		{GetArgument, "GET_ARGUMENT", u32, 0, 1},
		{RestParameterInit, "REST_PARAMETER_INIT", u32, 0, 1},
		{CreateMappedArgumentsObject, "CREATE_MAPPED_ARGUMENTS_OBJECT", none, 0, 1},
		{CreateUnmappedArgumentsObject, "CREATE_UNMAPPED_ARGUMENTS_OBJECT", none, 0, 1},
		{GetFunction, "GET_FUNCTION", u32, 0, 1},
		{GetFunctionAsync, "GET_FUNCTION_ASYNC", u32, 0, 1},
		{GetGenerator, "GET_GENERATOR", u32, 0, 1},
		{GetGeneratorAsync, "GET_GENERATOR_ASYNC", u32, 0, 1},

		{Call, "CALL", u32, Variable, 1},
		{CallWithRest, "CALL_WITH_REST", u32, Variable, 1},
		{CallEval, "CALL_EVAL", u32, Variable, 1},
		{CallEvalWithRest, "CALL_EVAL_WITH_REST", u32, Variable, 1},
		{New, "NEW", u32, Variable, 1},
		{NewWithRest, "NEW_WITH_REST", u32, Variable, 1},
		{Return, "RETURN", none, 1, 0},
		{SetReturnValue, "SET_RETURN_VALUE", none, 1, 0},
		{GetReturnValue, "GET_RETURN_VALUE", none, 0, 1},

		{PushDeclarativeEnvironment, "PUSH_DECLARATIVE_ENVIRONMENT", u32x2, 0, 0},
		{PushFunctionEnvironment, "PUSH_FUNCTION_ENVIRONMENT", u32x2, 0, 0},
		{PopEnvironment, "POP_ENVIRONMENT", none, 0, 0},
		{CopyEnvironment, "COPY_ENVIRONMENT", none, 0, 0},
		{LoopStart, "LOOP_START", none, 0, 0},
		{LoopContinue, "LOOP_CONTINUE", none, 0, 0},
		{LoopEnd, "LOOP_END", none, 0, 0},

		{InitIterator, "INIT_ITERATOR", none, 1, 3},
		{ForInLoopInitIterator, "FOR_IN_LOOP_INIT_ITERATOR", none, 1, 3},
		{IteratorNext, "ITERATOR_NEXT", none, 3, 4},
		{IteratorNextFull, "ITERATOR_NEXT_FULL", addr, 3, 4},
		{IteratorClose, "ITERATOR_CLOSE", none, 3, 0},
		{IteratorToArray, "ITERATOR_TO_ARRAY", none, 3, 4},

		{ConcatToString, "CONCAT_TO_STRING", u32, Variable, 1},
		{RequireObjectCoercible, "REQUIRE_OBJECT_COERCIBLE", none, 1, 1},
		{ValueNotNullOrUndefined, "VALUE_NOT_NULL_OR_UNDEFINED", none, 1, 1},

		{Yield, "YIELD", none, 1, 1},
		{GeneratorNext, "GENERATOR_NEXT", none, 1, 1},
		{GeneratorNextDelegate, "GENERATOR_NEXT_DELEGATE", addr, 4, 4},
		{Await, "AWAIT", none, 1, 1},

		{Nop, "NOP", none, 0, 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			Operands: o.operands,
			Pop:      o.pop,
			Push:     o.push,
		}
	}

	// Control flow classes and the effect of taken branches.
	branches := []struct {
		op        Code
		flow      Flow
		pop, push int
	}{
		{Jump, FlowJump, 0, 0},
		{Default, FlowJump, 1, 0},
		{JumpIfFalse, FlowBranch, 1, 0},
		{JumpIfTrue, FlowBranch, 1, 0},
		{JumpIfNotUndefined, FlowBranch, 1, 1},
		{JumpIfNullOrUndefined, FlowBranch, 1, 0},
		{LogicalAnd, FlowBranch, 1, 1},
		{LogicalOr, FlowBranch, 1, 1},
		{Coalesce, FlowBranch, 1, 1},
		{Case, FlowBranch, 2, 0},
		{IteratorNextFull, FlowBranch, 3, 3},
		{GeneratorNextDelegate, FlowBranch, 4, 4},
	}
	for _, b := range branches {
		info := infos[b.op]
		info.Flow = b.flow
		info.BranchPop = b.pop
		info.BranchPush = b.push
		infos[b.op] = info
	}
	for _, c := range []Code{Return} {
		infos[c].Flow = FlowReturn
	}
	for _, c := range []Code{Throw} {
		infos[c].Flow = FlowThrow
	}
}

// GetInfo returns information about the given opcode. The zero Info is
// returned for codes above Last.
func GetInfo(c Code) Info {
	if c > Last {
		return Info{}
	}
	return infos[c]
}

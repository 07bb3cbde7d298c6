package bytecode

import (
	"fmt"
	"strconv"
)

// BindingLocator is a resolved reference to the storage of a variable.
//
// A global locator is resolved by name at run time. Otherwise the binding
// lives in the environment Depth hops outward from the current one, at
// slot Index. BindingLocator is comparable and is used as a pool key.
type BindingLocator struct {
	Name   string
	Depth  uint32
	Index  uint32
	Global bool
}

// GlobalBinding returns a locator that resolves name in the global scope.
func GlobalBinding(name string) BindingLocator {
	return BindingLocator{Name: name, Global: true}
}

func (b BindingLocator) String() string {
	if b.Global {
		return b.Name + " (global)"
	}
	return fmt.Sprintf("%s (depth %d, slot %d)", b.Name, b.Depth, b.Index)
}

// Environment describes a compile-time declarative environment that the
// VM creates with PushDeclarativeEnvironment or PushFunctionEnvironment.
type Environment struct {
	// Index is the environment's position in the compile-time arena.
	Index uint32
	// Slots is the number of binding slots to allocate.
	Slots uint32
	// Names lists the bound names, indexed by slot.
	Names []string
	// Function is set for function environments.
	Function bool
}

// LiteralKind distinguishes the value types held in the literal pool.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralBigInt
)

// Literal is a constant that cannot be encoded directly in an operand.
// BigInt values are stored as their decimal digits.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// StringLiteral returns a string literal.
func StringLiteral(s string) Literal {
	return Literal{Kind: LiteralString, Value: s}
}

// BigIntLiteral returns a bigint literal from its decimal digits.
func BigIntLiteral(digits string) Literal {
	return Literal{Kind: LiteralBigInt, Value: digits}
}

func (l Literal) String() string {
	if l.Kind == LiteralBigInt {
		return l.Value + "n"
	}
	return strconv.Quote(l.Value)
}

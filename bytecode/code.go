package bytecode

import (
	"strings"
)

// Kind identifies the kind of compilation unit a CodeBlock represents.
type Kind uint8

const (
	KindScript Kind = iota
	KindFunction
	KindClassConstructor
	KindFieldInitializer
	KindStaticBlock
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindFunction:
		return "function"
	case KindClassConstructor:
		return "class constructor"
	case KindFieldInitializer:
		return "field initializer"
	case KindStaticBlock:
		return "static block"
	}
	return "unknown"
}

// ThisMode describes how `this` is bound when the unit is invoked.
type ThisMode uint8

const (
	// ThisModeGlobal substitutes the global object for undefined or null.
	ThisModeGlobal ThisMode = iota
	// ThisModeStrict uses the receiver as given.
	ThisModeStrict
	// ThisModeLexical inherits `this` from the enclosing environment.
	ThisModeLexical
)

func (m ThisMode) String() string {
	switch m {
	case ThisModeGlobal:
		return "global"
	case ThisModeStrict:
		return "strict"
	case ThisModeLexical:
		return "lexical"
	}
	return "unknown"
}

// CodeBlock is a compiled compilation unit. It is immutable after creation
// and safe for concurrent use.
type CodeBlock struct {
	id       string
	name     string
	filename string
	source   string
	parent   *CodeBlock

	kind      Kind
	strict    bool
	generator bool
	async     bool
	arrow     bool
	method    bool
	derived   bool
	thisMode  ThisMode

	length           uint32
	params           []Parameter
	argumentsBinding *BindingLocator
	numBindings      uint32

	code         []byte
	literals     []Literal
	names        []string
	bindings     []BindingLocator
	environments []Environment
	functions    []*CodeBlock
	locations    []LocationEntry
}

// CodeParams contains parameters for creating a new CodeBlock.
type CodeParams struct {
	ID       string
	Name     string
	Filename string
	// Source is only kept on the root block.
	Source string

	Kind      Kind
	Strict    bool
	Generator bool
	Async     bool
	Arrow     bool
	Method    bool
	Derived   bool
	ThisMode  ThisMode

	Length           uint32
	Params           []Parameter
	ArgumentsBinding *BindingLocator
	NumBindings      uint32

	Code         []byte
	Literals     []Literal
	Names        []string
	Bindings     []BindingLocator
	Environments []Environment
	Functions    []*CodeBlock
	Locations    []LocationEntry
}

// NewCodeBlock creates an immutable CodeBlock from the given parameters.
// Input slices are copied.
func NewCodeBlock(params CodeParams) *CodeBlock {
	var argumentsBinding *BindingLocator
	if params.ArgumentsBinding != nil {
		loc := *params.ArgumentsBinding
		argumentsBinding = &loc
	}
	environments := make([]Environment, len(params.Environments))
	for i, env := range params.Environments {
		env.Names = copySlice(env.Names)
		environments[i] = env
	}
	cb := &CodeBlock{
		id:               params.ID,
		name:             params.Name,
		filename:         params.Filename,
		source:           params.Source,
		kind:             params.Kind,
		strict:           params.Strict,
		generator:        params.Generator,
		async:            params.Async,
		arrow:            params.Arrow,
		method:           params.Method,
		derived:          params.Derived,
		thisMode:         params.ThisMode,
		length:           params.Length,
		params:           copySlice(params.Params),
		argumentsBinding: argumentsBinding,
		numBindings:      params.NumBindings,
		code:             copySlice(params.Code),
		literals:         copySlice(params.Literals),
		names:            copySlice(params.Names),
		bindings:         copySlice(params.Bindings),
		environments:     environments,
		functions:        copySlice(params.Functions),
		locations:        copySlice(params.Locations),
	}
	if len(environments) == 0 {
		cb.environments = nil
	}
	// Children are finished before their parent, so the back reference is
	// the only field ever written after a child is constructed.
	for _, fn := range cb.functions {
		fn.parent = cb
	}
	return cb
}

// ID returns the hierarchical identifier of this block, e.g. "main.0.2".
func (c *CodeBlock) ID() string { return c.id }

// Name returns the function or unit name. Anonymous functions have an
// empty name.
func (c *CodeBlock) Name() string { return c.name }

// Filename returns the source filename.
func (c *CodeBlock) Filename() string { return c.filename }

// Kind returns the kind of compilation unit.
func (c *CodeBlock) Kind() Kind { return c.kind }

// Strict reports whether the unit is strict mode code.
func (c *CodeBlock) Strict() bool { return c.strict }

// IsGenerator reports whether the unit is a generator body.
func (c *CodeBlock) IsGenerator() bool { return c.generator }

// IsAsync reports whether the unit is an async body.
func (c *CodeBlock) IsAsync() bool { return c.async }

// IsArrow reports whether the unit is an arrow function.
func (c *CodeBlock) IsArrow() bool { return c.arrow }

// IsMethod reports whether the function needs a home object for super
// property access.
func (c *CodeBlock) IsMethod() bool { return c.method }

// IsClassConstructor reports whether the unit is a class constructor.
func (c *CodeBlock) IsClassConstructor() bool { return c.kind == KindClassConstructor }

// IsDerivedConstructor reports whether the unit is the constructor of a
// class with an extends clause.
func (c *CodeBlock) IsDerivedConstructor() bool { return c.derived }

// ThisMode returns how `this` is bound on invocation.
func (c *CodeBlock) ThisMode() ThisMode { return c.thisMode }

// Length returns the value of the function's "length" property.
func (c *CodeBlock) Length() uint32 { return c.length }

// NumBindings returns the number of slots in the function environment.
func (c *CodeBlock) NumBindings() uint32 { return c.numBindings }

// ArgumentsBinding returns the binding that receives the arguments object.
func (c *CodeBlock) ArgumentsBinding() (BindingLocator, bool) {
	if c.argumentsBinding == nil {
		return BindingLocator{}, false
	}
	return *c.argumentsBinding, true
}

// ParameterCount returns the number of formal parameters, rest included.
func (c *CodeBlock) ParameterCount() int { return len(c.params) }

// ParameterAt returns the formal parameter at the given index.
func (c *CodeBlock) ParameterAt(index int) Parameter { return c.params[index] }

// CodeSize returns the size of the instruction stream in bytes.
func (c *CodeBlock) CodeSize() int { return len(c.code) }

// ByteAt returns the byte at the given offset of the instruction stream.
func (c *CodeBlock) ByteAt(offset int) byte { return c.code[offset] }

// Code returns a copy of the instruction stream.
func (c *CodeBlock) Code() []byte { return copySlice(c.code) }

// LiteralCount returns the number of literals in the pool.
func (c *CodeBlock) LiteralCount() int { return len(c.literals) }

// LiteralAt returns the literal at the given index.
func (c *CodeBlock) LiteralAt(index int) Literal { return c.literals[index] }

// NameCount returns the number of property names in the pool.
func (c *CodeBlock) NameCount() int { return len(c.names) }

// NameAt returns the property name at the given index.
func (c *CodeBlock) NameAt(index int) string { return c.names[index] }

// BindingCount returns the number of binding locators in the pool.
func (c *CodeBlock) BindingCount() int { return len(c.bindings) }

// BindingAt returns the binding locator at the given index.
func (c *CodeBlock) BindingAt(index int) BindingLocator { return c.bindings[index] }

// EnvironmentCount returns the number of environment descriptors.
func (c *CodeBlock) EnvironmentCount() int { return len(c.environments) }

// EnvironmentAt returns the environment descriptor at the given index.
func (c *CodeBlock) EnvironmentAt(index int) Environment { return c.environments[index] }

// FunctionCount returns the number of nested CodeBlocks.
func (c *CodeBlock) FunctionCount() int { return len(c.functions) }

// FunctionAt returns the nested CodeBlock at the given index.
func (c *CodeBlock) FunctionAt(index int) *CodeBlock { return c.functions[index] }

// Parent returns the enclosing CodeBlock, or nil for the root.
func (c *CodeBlock) Parent() *CodeBlock { return c.parent }

// Flatten returns this block and all nested blocks in depth-first order.
// The returned slice is newly allocated.
func (c *CodeBlock) Flatten() []*CodeBlock {
	blocks := []*CodeBlock{c}
	for _, fn := range c.functions {
		blocks = append(blocks, fn.Flatten()...)
	}
	return blocks
}

// GetSourceLine returns the source line at the given 1-based line number.
// Nested blocks look the line up in the root block's source.
func (c *CodeBlock) GetSourceLine(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	root := c
	for root.parent != nil {
		root = root.parent
	}
	if root.source == "" {
		return ""
	}
	lines := strings.Split(root.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Stats returns statistics about this block and its nested blocks.
func (c *CodeBlock) Stats() Stats {
	var stats Stats
	for _, block := range c.Flatten() {
		stats.CodeBytes += len(block.code)
		stats.LiteralCount += len(block.literals)
		stats.NameCount += len(block.names)
		stats.BindingCount += len(block.bindings)
		stats.EnvironmentCount += len(block.environments)
		if block != c {
			stats.FunctionCount++
		}
		it := NewInstructionIter(block)
		for _, ok := it.Next(); ok; _, ok = it.Next() {
			stats.InstructionCount++
		}
	}
	return stats
}

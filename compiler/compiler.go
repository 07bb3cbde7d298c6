// Package compiler lowers an ECMAScript syntax tree into bytecode.
//
// # Compilation Units
//
// A ByteCompiler compiles exactly one unit: a script, a function body, a
// class constructor, a field initializer or a class static block. Nested
// functions and classes are compiled by child ByteCompilers whose finished
// CodeBlocks are appended to the parent's function table and referenced by
// index from GetFunction and its generator and async variants.
//
// All units of a program share one scope.Arena. The arena answers every
// question about identifier resolution, so closures are expressed entirely
// as binding locators that point a number of environment hops outward.
//
// # Stack Discipline
//
// CompileExpr and CompileStmt take a useResult flag. With useResult set an
// expression leaves exactly one value on the operand stack; otherwise it
// leaves nothing. Statements leave nothing unless useResult is set, in
// which case they leave their completion value. Every compiled unit can be
// checked against the stack contract of the op package with
// bytecode.Verify.
//
// # Forward References
//
// Jumps whose target is not yet known are emitted with op.DummyAddress and
// recorded as a Label. Labels are patched once the target is known. Finish
// panics if any Label is still pending.
package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/internal/token"
	"github.com/risor-io/escompile/op"
	"github.com/risor-io/escompile/scope"
)

// MaxArgs is the largest argument count of a call with explicit arguments.
// Calls with more arguments are compiled with the spread calling
// convention.
const MaxArgs = 255

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used for error messages.
	Filename string

	// Source is the original source code, used for error messages and
	// kept on the root CodeBlock.
	Source string

	// Strict compiles the script as strict mode code even without a
	// "use strict" directive.
	Strict bool

	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger

	// Verify runs bytecode.Verify on the result and panics if the compiled
	// code violates the stack contract.
	Verify bool

	// Arena resolves identifiers. A fresh arena is used when nil.
	Arena *scope.Arena
}

// shared is the state common to all units of one compilation.
type shared struct {
	filename string
	source   string
	lines    []string
	log      zerolog.Logger
	arena    *scope.Arena
}

func (s *shared) sourceLine(line int) string {
	if s.lines == nil && s.source != "" {
		s.lines = strings.Split(s.source, "\n")
	}
	if line < 1 || line > len(s.lines) {
		return ""
	}
	return s.lines[line-1]
}

// unitContext is the immutable snapshot of the enclosing context handed to
// a child unit.
type unitContext struct {
	name      string
	kind      bytecode.Kind
	strict    bool
	generator bool
	async     bool
	arrow     bool
	method    bool
	derived   bool
	thisMode  bytecode.ThisMode

	// superCall and superProperty are inherited by arrow functions.
	superCall     bool
	superProperty bool
}

// Label is the offset of a pending address operand.
type Label struct {
	offset int
}

// ByteCompiler lowers one compilation unit into a CodeBlock.
type ByteCompiler struct {
	*shared
	ctx unitContext
	id  string

	code    []byte
	pending map[int]bool

	literals     []bytecode.Literal
	literalIndex map[bytecode.Literal]uint32
	names        []string
	nameIndex    map[string]uint32
	bindings     []bytecode.BindingLocator
	bindingIndex map[bytecode.BindingLocator]uint32
	envs         []bytecode.Environment
	functions    []*bytecode.CodeBlock
	locations    []bytecode.LocationEntry

	params           []bytecode.Parameter
	length           uint32
	argumentsBinding *bytecode.BindingLocator
	numBindings      uint32

	jumpInfo []*jumpControlInfo
	// labels waiting to be attached to the next loop
	pendingLabels []string
	chain         *optionalChain

	finished bool
}

// Compile compiles a parsed script and returns its CodeBlock. Pass nil for
// cfg to use default settings.
func Compile(program *ast.Program, cfg *Config) (*bytecode.CodeBlock, error) {
	c := New(cfg)
	c.ctx.strict = c.ctx.strict || program.Strict
	cp := c.arena.Checkpoint()
	if err := c.compileScript(program); err != nil {
		c.arena.Restore(cp)
		return nil, err
	}
	cb := c.Finish()
	if cfg != nil && cfg.Verify {
		if err := bytecode.Verify(cb); err != nil {
			panic(fmt.Sprintf("compiler: generated invalid bytecode: %v", err))
		}
	}
	return cb, nil
}

// New returns a ByteCompiler for a script unit. Pass nil for cfg to use
// defaults.
func New(cfg *Config) *ByteCompiler {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &shared{
		filename: cfg.Filename,
		source:   cfg.Source,
		log:      zerolog.Nop(),
		arena:    cfg.Arena,
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}
	if s.arena == nil {
		s.arena = scope.NewArena()
	}
	return newByteCompiler(s, "main", unitContext{
		name:     "main",
		kind:     bytecode.KindScript,
		strict:   cfg.Strict,
		thisMode: bytecode.ThisModeGlobal,
	})
}

func newByteCompiler(s *shared, id string, ctx unitContext) *ByteCompiler {
	return &ByteCompiler{
		shared:       s,
		ctx:          ctx,
		id:           id,
		pending:      map[int]bool{},
		literalIndex: map[bytecode.Literal]uint32{},
		nameIndex:    map[string]uint32{},
		bindingIndex: map[bytecode.BindingLocator]uint32{},
	}
}

// child returns a compiler for a nested unit.
func (c *ByteCompiler) child(ctx unitContext) *ByteCompiler {
	id := c.id + "." + strconv.Itoa(len(c.functions))
	return newByteCompiler(c.shared, id, ctx)
}

// Finish returns the compiled CodeBlock. It panics if called twice or if a
// Label was never patched.
func (c *ByteCompiler) Finish() *bytecode.CodeBlock {
	if c.finished {
		panic(fmt.Sprintf("compiler: unit %s finished twice", c.id))
	}
	if len(c.pending) > 0 {
		panic(fmt.Sprintf("compiler: unit %s has %d unpatched labels", c.id, len(c.pending)))
	}
	c.finished = true
	params := bytecode.CodeParams{
		ID:               c.id,
		Name:             c.ctx.name,
		Filename:         c.filename,
		Kind:             c.ctx.kind,
		Strict:           c.ctx.strict,
		Generator:        c.ctx.generator,
		Async:            c.ctx.async,
		Arrow:            c.ctx.arrow,
		Method:           c.ctx.method,
		Derived:          c.ctx.derived,
		ThisMode:         c.ctx.thisMode,
		Length:           c.length,
		Params:           c.params,
		ArgumentsBinding: c.argumentsBinding,
		NumBindings:      c.numBindings,
		Code:             c.code,
		Literals:         c.literals,
		Names:            c.names,
		Bindings:         c.bindings,
		Environments:     c.envs,
		Functions:        c.functions,
		Locations:        c.locations,
	}
	if c.ctx.kind == bytecode.KindScript {
		params.Source = c.source
	}
	cb := bytecode.NewCodeBlock(params)
	c.log.Debug().
		Str("unit", c.id).
		Str("name", c.ctx.name).
		Stringer("kind", c.ctx.kind).
		Int("bytes", len(c.code)).
		Int("literals", len(c.literals)).
		Int("names", len(c.names)).
		Int("bindings", len(c.bindings)).
		Int("functions", len(c.functions)).
		Msg("unit compiled")
	return cb
}

// Emitting

func (c *ByteCompiler) nextOffset() uint32 {
	return uint32(len(c.code))
}

func (c *ByteCompiler) emit(code op.Code, operands ...uint64) {
	c.code = op.Append(c.code, code, operands...)
}

func (c *ByteCompiler) emitU32(code op.Code, operand uint32) {
	c.emit(code, uint64(operand))
}

// emitJump emits a jump or branch whose address is not yet known.
func (c *ByteCompiler) emitJump(code op.Code) Label {
	start := len(c.code)
	c.emit(code, uint64(op.DummyAddress))
	return c.reserve(start + 1)
}

// emitJumpTo emits a jump or branch to a known address.
func (c *ByteCompiler) emitJumpTo(code op.Code, target uint32) {
	c.emit(code, uint64(target))
}

func (c *ByteCompiler) jump() Label {
	return c.emitJump(op.Jump)
}

// emitTryStart emits TryStart with both addresses pending.
func (c *ByteCompiler) emitTryStart() (handler, finally Label) {
	start := len(c.code)
	c.emit(op.TryStart, uint64(op.DummyAddress), uint64(op.DummyAddress))
	return c.reserve(start + 1), c.reserve(start + 5)
}

func (c *ByteCompiler) reserve(offset int) Label {
	c.pending[offset] = true
	return Label{offset: offset}
}

// patch sets the address held by l.
func (c *ByteCompiler) patch(l Label, target uint32) {
	if !c.pending[l.offset] {
		panic(fmt.Sprintf("compiler: label at %d patched twice", l.offset))
	}
	delete(c.pending, l.offset)
	binary.LittleEndian.PutUint32(c.code[l.offset:], target)
}

// patchHere points l at the next instruction.
func (c *ByteCompiler) patchHere(l Label) {
	c.patch(l, c.nextOffset())
}

func (c *ByteCompiler) patchAll(labels []Label, target uint32) {
	for _, l := range labels {
		c.patch(l, target)
	}
}

func (c *ByteCompiler) emitPushInteger(v int64) {
	switch {
	case v == 0:
		c.emit(op.PushZero)
	case v == 1:
		c.emit(op.PushOne)
	case v >= -128 && v <= 127:
		c.emit(op.PushInt8, uint64(v))
	case v >= -32768 && v <= 32767:
		c.emit(op.PushInt16, uint64(v))
	default:
		c.emit(op.PushInt32, uint64(v))
	}
}

func (c *ByteCompiler) emitPushRational(v float64) {
	switch {
	case math.IsNaN(v):
		c.emit(op.PushNaN)
		return
	case math.IsInf(v, 1):
		c.emit(op.PushPositiveInfinity)
		return
	case math.IsInf(v, -1):
		c.emit(op.PushNegativeInfinity)
		return
	}
	if v >= math.MinInt32 && v <= math.MaxInt32 && v == math.Trunc(v) && !(v == 0 && math.Signbit(v)) {
		c.emitPushInteger(int64(v))
		return
	}
	c.emit(op.PushRational, math.Float64bits(v))
}

func (c *ByteCompiler) emitPushLiteral(lit bytecode.Literal) {
	c.emitU32(op.PushLiteral, c.getOrInsertLiteral(lit))
}

// Pools

func (c *ByteCompiler) getOrInsertLiteral(lit bytecode.Literal) uint32 {
	if idx, ok := c.literalIndex[lit]; ok {
		return idx
	}
	idx := uint32(len(c.literals))
	c.literals = append(c.literals, lit)
	c.literalIndex[lit] = idx
	return idx
}

func (c *ByteCompiler) getOrInsertName(name string) uint32 {
	if idx, ok := c.nameIndex[name]; ok {
		return idx
	}
	idx := uint32(len(c.names))
	c.names = append(c.names, name)
	c.nameIndex[name] = idx
	return idx
}

func (c *ByteCompiler) getOrInsertBinding(loc bytecode.BindingLocator) uint32 {
	if idx, ok := c.bindingIndex[loc]; ok {
		return idx
	}
	idx := uint32(len(c.bindings))
	c.bindings = append(c.bindings, loc)
	c.bindingIndex[loc] = idx
	return idx
}

// Source locations

func (c *ByteCompiler) setPos(pos token.Position) {
	if !pos.IsValid() {
		return
	}
	loc := bytecode.SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
	pc := c.nextOffset()
	if n := len(c.locations); n > 0 {
		last := &c.locations[n-1]
		if last.Location == loc {
			return
		}
		if last.PC == pc {
			last.Location = loc
			return
		}
	}
	c.locations = append(c.locations, bytecode.LocationEntry{PC: pc, Location: loc})
}

// Errors

func (c *ByteCompiler) errorf(code errors.ErrorCode, pos token.Position, format string, args ...any) error {
	return c.errorWithSuggestions(code, pos, nil, format, args...)
}

func (c *ByteCompiler) errorWithSuggestions(code errors.ErrorCode, pos token.Position, suggestions []errors.Suggestion, format string, args ...any) error {
	err := &errors.CompileError{
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		Filename:    c.filename,
		Suggestions: suggestions,
	}
	if pos.IsValid() {
		err.Line = pos.LineNumber()
		err.Column = pos.ColumnNumber()
		err.SourceLine = c.sourceLine(err.Line)
	}
	return err
}

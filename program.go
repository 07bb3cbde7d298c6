package escompile

import (
	"io"

	"github.com/gofrs/uuid"

	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/dis"
)

// Program is the compiled representation of a script.
// It is immutable after creation and safe for concurrent use.
type Program struct {
	id   uuid.UUID
	code *bytecode.CodeBlock

	// Metadata
	source   string
	filename string
}

func newProgram(code *bytecode.CodeBlock, source, filename string) *Program {
	return &Program{
		id:       uuid.Must(uuid.NewV4()),
		code:     code,
		source:   source,
		filename: filename,
	}
}

// ID returns a random identifier assigned when the program was compiled.
func (p *Program) ID() uuid.UUID {
	return p.id
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Code returns the root CodeBlock of the script.
func (p *Program) Code() *bytecode.CodeBlock {
	return p.code
}

// Stats returns statistics about the script and all nested functions.
func (p *Program) Stats() bytecode.Stats {
	return p.code.Stats()
}

// FunctionNames returns the names of the nested units in depth-first
// order. Anonymous functions are skipped.
func (p *Program) FunctionNames() []string {
	var names []string
	for _, block := range p.code.Flatten()[1:] {
		if name := block.Name(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Disassemble writes a listing of every unit of the program to w.
func (p *Program) Disassemble(w io.Writer) error {
	return dis.PrintAll(p.code, w)
}

// Verify checks the bytecode of every unit against the stack contract of
// its opcodes.
func (p *Program) Verify() error {
	return bytecode.Verify(p.code)
}

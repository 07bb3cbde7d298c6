package bytecode

import "github.com/risor-io/escompile/op"

// InstructionIter decodes the instructions of a CodeBlock in order.
type InstructionIter struct {
	code []byte
	pc   int
	err  error
}

// NewInstructionIter returns an iterator positioned at offset 0.
func NewInstructionIter(cb *CodeBlock) *InstructionIter {
	return &InstructionIter{code: cb.code}
}

// Next returns the next instruction. It returns false at the end of the
// stream or after a decoding error, which is then available from Err.
func (it *InstructionIter) Next() (op.Instruction, bool) {
	if it.err != nil || it.pc >= len(it.code) {
		return op.Instruction{}, false
	}
	ins, err := op.Decode(it.code, it.pc)
	if err != nil {
		it.err = err
		return op.Instruction{}, false
	}
	it.pc = ins.Next()
	return ins, true
}

// PC returns the offset of the next instruction to be decoded.
func (it *InstructionIter) PC() int {
	return it.pc
}

// Err returns the first decoding error, if any.
func (it *InstructionIter) Err() error {
	return it.err
}

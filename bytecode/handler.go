package bytecode

import "github.com/risor-io/escompile/op"

// ExceptionHandler describes one try region recovered from a TryStart
// instruction.
type ExceptionHandler struct {
	TryStart     int // offset of the TryStart instruction
	Handler      int // catch entry, or the finally entry when there is no catch
	FinallyStart int // offset of the finally body, 0 if none
}

// HasCatch reports whether the region has a catch clause.
func (h ExceptionHandler) HasCatch() bool {
	return h.Handler != h.FinallyStart
}

// ExceptionHandlers scans the block's instructions and returns its try
// regions in code order.
func (c *CodeBlock) ExceptionHandlers() ([]ExceptionHandler, error) {
	var handlers []ExceptionHandler
	it := NewInstructionIter(c)
	for ins, ok := it.Next(); ok; ins, ok = it.Next() {
		if ins.Code != op.TryStart {
			continue
		}
		handlers = append(handlers, ExceptionHandler{
			TryStart:     ins.Offset,
			Handler:      int(ins.Operand(0)),
			FinallyStart: int(ins.Operand(1)),
		})
	}
	return handlers, it.Err()
}

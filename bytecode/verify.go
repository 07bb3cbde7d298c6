package bytecode

import (
	"fmt"

	"github.com/risor-io/escompile/op"
)

// VerifyError describes a violation of the stack contract found by Verify.
type VerifyError struct {
	Block  string
	Offset int
	Code   op.Code
	Msg    string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify %s: offset %d (%s): %s", e.Block, e.Offset, e.Code, e.Msg)
}

// Verify checks a CodeBlock and every nested block against the stack
// contract of the op package. It simulates the abstract stack depth along
// every reachable path and reports:
//
//   - stack underflow
//   - paths that merge with different depths
//   - Return executed with a depth other than one
//   - execution falling off the end of the stream
//   - jump targets outside the stream or inside an instruction
//   - address operands still holding op.DummyAddress
//
// Exception edges are taken from TryStart: the catch entry is reached with
// the thrown value pushed and the finally entry with the depth at TryStart.
// FinallySetJump adds an edge to its resume address at the current depth.
func Verify(cb *CodeBlock) error {
	if err := verifyBlock(cb); err != nil {
		return err
	}
	for _, fn := range cb.functions {
		if err := Verify(fn); err != nil {
			return err
		}
	}
	return nil
}

type verifier struct {
	cb     *CodeBlock
	ins    map[int]op.Instruction
	depths map[int]int
	work   []int
}

func verifyBlock(cb *CodeBlock) error {
	v := &verifier{
		cb:     cb,
		ins:    map[int]op.Instruction{},
		depths: map[int]int{},
	}
	it := NewInstructionIter(cb)
	for ins, ok := it.Next(); ok; ins, ok = it.Next() {
		v.ins[ins.Offset] = ins
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("verify %s: %w", cb.name, err)
	}
	if len(cb.code) == 0 {
		return nil
	}
	for _, ins := range v.ins {
		info := op.GetInfo(ins.Code)
		for i, kind := range info.Operands {
			if kind != op.Addr {
				continue
			}
			addr := ins.Operand(i)
			if addr == op.DummyAddress {
				return v.errorf(ins, "unpatched address operand %d", i)
			}
			if ins.Code == op.TryStart && i == 1 && addr == 0 {
				continue
			}
			if _, ok := v.ins[int(addr)]; !ok {
				return v.errorf(ins, "address %d is not an instruction boundary", addr)
			}
		}
	}
	if err := v.visit(v.ins[0], 0); err != nil {
		return err
	}
	for len(v.work) > 0 {
		pc := v.work[len(v.work)-1]
		v.work = v.work[:len(v.work)-1]
		if err := v.step(v.ins[pc], v.depths[pc]); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) errorf(ins op.Instruction, format string, args ...any) error {
	return &VerifyError{
		Block:  v.cb.name,
		Offset: ins.Offset,
		Code:   ins.Code,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// visit records that the instruction is reached with the given depth.
func (v *verifier) visit(ins op.Instruction, depth int) error {
	if prev, ok := v.depths[ins.Offset]; ok {
		if prev != depth {
			return v.errorf(ins, "inconsistent stack depth: %d and %d", prev, depth)
		}
		return nil
	}
	v.depths[ins.Offset] = depth
	v.work = append(v.work, ins.Offset)
	return nil
}

func (v *verifier) edge(from op.Instruction, target int, depth int) error {
	ins, ok := v.ins[target]
	if !ok {
		if target >= len(v.cb.code) {
			return v.errorf(from, "execution falls off the end of the code")
		}
		return v.errorf(from, "target %d is not an instruction boundary", target)
	}
	return v.visit(ins, depth)
}

func (v *verifier) step(ins op.Instruction, depth int) error {
	info := op.GetInfo(ins.Code)

	switch ins.Code {
	case op.TryStart:
		handler, finally := int(ins.Operand(0)), int(ins.Operand(1))
		if finally != 0 {
			if err := v.edge(ins, finally, depth); err != nil {
				return err
			}
		}
		if handler != finally {
			if err := v.edge(ins, handler, depth+1); err != nil {
				return err
			}
		}
	case op.FinallySetJump:
		if err := v.edge(ins, int(ins.Operand(0)), depth); err != nil {
			return err
		}
	}

	switch info.Flow {
	case op.FlowReturn:
		if depth != 1 {
			return v.errorf(ins, "return with stack depth %d", depth)
		}
		return nil
	case op.FlowThrow:
		if depth < 1 {
			return v.errorf(ins, "stack underflow")
		}
		return nil
	case op.FlowJump, op.FlowBranch:
		pop, push, _ := op.BranchEffect(ins)
		if depth < pop {
			return v.errorf(ins, "stack underflow: depth %d, pops %d", depth, pop)
		}
		target, _ := ins.Target()
		if err := v.edge(ins, int(target), depth-pop+push); err != nil {
			return err
		}
		if info.Flow == op.FlowJump {
			return nil
		}
	}

	pop, push := op.StackEffect(ins)
	if depth < pop {
		return v.errorf(ins, "stack underflow: depth %d, pops %d", depth, pop)
	}
	return v.edge(ins, ins.Next(), depth-pop+push)
}

package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

type jumpKind uint8

const (
	jumpLoop jumpKind = iota
	jumpSwitch
	jumpTry
	jumpLabelled
)

// tryPhase tracks which part of a try statement is being compiled.
type tryPhase uint8

const (
	phaseTry tryPhase = iota
	phaseCatch
	phaseFinally
)

type exitKind uint8

const (
	exitBreak exitKind = iota
	exitContinue
	exitReturn
)

// deferredExit is a break, continue or return that was routed through a
// finally body. It is resumed by a trampoline emitted after FinallyEnd.
type deferredExit struct {
	kind   exitKind
	target int // index of the target frame, -1 for return
	labels []Label
}

// jumpControlInfo is one frame of the jump control stack.
type jumpControlInfo struct {
	kind   jumpKind
	labels []string

	// Loop, Switch and LabelledBlock.
	breaks    []Label
	continues []Label
	// iterator loops hold an iterator record on the stack
	iterator bool

	// Try.
	phase      tryPhase
	hasCatch   bool
	hasFinally bool
	toFinally  []Label
	deferred   []*deferredExit
}

func (j *jumpControlInfo) hasLabel(name string) bool {
	for _, l := range j.labels {
		if l == name {
			return true
		}
	}
	return false
}

func (j *jumpControlInfo) addDeferred(kind exitKind, target int, l Label) {
	for _, d := range j.deferred {
		if d.kind == kind && d.target == target {
			d.labels = append(d.labels, l)
			return
		}
	}
	j.deferred = append(j.deferred, &deferredExit{kind: kind, target: target, labels: []Label{l}})
}

// takeLabels returns the labels that directly precede the statement being
// compiled and clears them.
func (c *ByteCompiler) takeLabels() []string {
	labels := c.pendingLabels
	c.pendingLabels = nil
	return labels
}

func (c *ByteCompiler) pushLoop(labels []string, iterator bool) *jumpControlInfo {
	info := &jumpControlInfo{kind: jumpLoop, labels: labels, iterator: iterator}
	c.jumpInfo = append(c.jumpInfo, info)
	return info
}

func (c *ByteCompiler) pushSwitch(labels []string) *jumpControlInfo {
	info := &jumpControlInfo{kind: jumpSwitch, labels: labels}
	c.jumpInfo = append(c.jumpInfo, info)
	return info
}

func (c *ByteCompiler) pushLabelled(labels []string) *jumpControlInfo {
	info := &jumpControlInfo{kind: jumpLabelled, labels: labels}
	c.jumpInfo = append(c.jumpInfo, info)
	return info
}

func (c *ByteCompiler) pushTry(hasCatch, hasFinally bool) *jumpControlInfo {
	info := &jumpControlInfo{kind: jumpTry, hasCatch: hasCatch, hasFinally: hasFinally}
	c.jumpInfo = append(c.jumpInfo, info)
	return info
}

// popLoop pops a loop frame, patching breaks to exit and continues to
// cont.
func (c *ByteCompiler) popLoop(exit, cont uint32) {
	info := c.popJumpInfo(jumpLoop)
	c.patchAll(info.breaks, exit)
	c.patchAll(info.continues, cont)
}

// popBreakable pops a Switch or LabelledBlock frame, patching its breaks to
// exit.
func (c *ByteCompiler) popBreakable(kind jumpKind, exit uint32) {
	info := c.popJumpInfo(kind)
	c.patchAll(info.breaks, exit)
}

func (c *ByteCompiler) popJumpInfo(kind jumpKind) *jumpControlInfo {
	n := len(c.jumpInfo)
	if n == 0 || c.jumpInfo[n-1].kind != kind {
		panic("compiler: jump control stack out of order")
	}
	info := c.jumpInfo[n-1]
	c.jumpInfo = c.jumpInfo[:n-1]
	return info
}

// popTry pops a Try frame whose finally body has just been compiled and
// emits one trampoline per deferred exit. Each trampoline resumes its exit
// from the enclosing context.
func (c *ByteCompiler) popTry() {
	info := c.popJumpInfo(jumpTry)
	if len(info.deferred) == 0 {
		return
	}
	skip := c.jump()
	for _, d := range info.deferred {
		c.patchAll(d.labels, c.nextOffset())
		c.jumpOut(d.kind, d.target, len(c.jumpInfo)-1)
	}
	c.patchHere(skip)
}

// jumpOut emits the code for an exit that leaves every frame above target,
// starting at frame index from. Crossed frames are torn down innermost
// first. Crossing a Try frame with a finally body routes the exit through
// that body and stops; the trampoline emitted by popTry continues it.
func (c *ByteCompiler) jumpOut(kind exitKind, target, from int) {
	for i := from; i > target; i-- {
		info := c.jumpInfo[i]
		switch info.kind {
		case jumpLoop, jumpSwitch, jumpLabelled:
			if info.iterator {
				c.emit(op.IteratorClose)
			}
			if kind != exitReturn {
				c.emit(op.LoopEnd)
			}
		case jumpTry:
			switch info.phase {
			case phaseTry:
				c.emit(op.TryEnd)
			case phaseCatch:
				if info.hasFinally {
					c.emit(op.CatchEnd)
				} else {
					c.emit(op.CatchEnd2)
				}
			case phaseFinally:
				c.emit(op.FinallyDiscard)
				continue
			}
			if info.hasFinally {
				info.addDeferred(kind, target, c.emitJump(op.FinallySetJump))
				info.toFinally = append(info.toFinally, c.jump())
				return
			}
		}
	}
	switch kind {
	case exitBreak:
		info := c.jumpInfo[target]
		if info.iterator {
			c.emit(op.IteratorClose)
		}
		info.breaks = append(info.breaks, c.jump())
	case exitContinue:
		info := c.jumpInfo[target]
		info.continues = append(info.continues, c.jump())
	case exitReturn:
		c.emit(op.GetReturnValue)
		c.emit(op.Return)
	}
}

// returnNeedsStore reports whether a return at this point crosses a frame
// that needs teardown code, in which case the value is parked with
// SetReturnValue.
func (c *ByteCompiler) returnNeedsStore() bool {
	for _, info := range c.jumpInfo {
		if info.kind == jumpTry || info.iterator {
			return true
		}
	}
	return false
}

func (c *ByteCompiler) labelsInScope() []string {
	var names []string
	for _, info := range c.jumpInfo {
		names = append(names, info.labels...)
	}
	return names
}

func (c *ByteCompiler) compileBreak(node *ast.Break) error {
	target := -1
	if node.Label != nil {
		target = c.findLabel(node.Label.Name)
		if target < 0 {
			return c.undeclaredLabel(node.Label)
		}
	} else {
		for i := len(c.jumpInfo) - 1; i >= 0; i-- {
			if k := c.jumpInfo[i].kind; k == jumpLoop || k == jumpSwitch {
				target = i
				break
			}
		}
		if target < 0 {
			return c.errorf(errors.E2003, node.BreakPos, "illegal break statement")
		}
	}
	c.jumpOut(exitBreak, target, len(c.jumpInfo)-1)
	return nil
}

func (c *ByteCompiler) compileContinue(node *ast.Continue) error {
	target := -1
	if node.Label != nil {
		target = c.findLabel(node.Label.Name)
		if target < 0 {
			return c.undeclaredLabel(node.Label)
		}
		if c.jumpInfo[target].kind != jumpLoop {
			return c.errorf(errors.E2004, node.ContinuePos,
				"continue target '%s' is not an iteration statement", node.Label.Name)
		}
	} else {
		for i := len(c.jumpInfo) - 1; i >= 0; i-- {
			if c.jumpInfo[i].kind == jumpLoop {
				target = i
				break
			}
		}
		if target < 0 {
			return c.errorf(errors.E2004, node.ContinuePos, "illegal continue statement: no surrounding iteration statement")
		}
	}
	c.jumpOut(exitContinue, target, len(c.jumpInfo)-1)
	return nil
}

func (c *ByteCompiler) findLabel(name string) int {
	for i := len(c.jumpInfo) - 1; i >= 0; i-- {
		if c.jumpInfo[i].hasLabel(name) {
			return i
		}
	}
	return -1
}

func (c *ByteCompiler) undeclaredLabel(label *ast.Ident) error {
	suggestions := errors.SuggestSimilar(label.Name, c.labelsInScope())
	return c.errorWithSuggestions(errors.E2012, label.NamePos, suggestions,
		"undefined label '%s'", label.Name)
}

package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

func (c *ByteCompiler) compileWhile(node *ast.While) error {
	labels := c.takeLabels()
	c.emit(op.LoopStart)
	c.pushLoop(labels, false)
	cont := c.nextOffset()
	c.emit(op.LoopContinue)
	if err := c.CompileExpr(node.Test, true); err != nil {
		return err
	}
	exitJump := c.emitJump(op.JumpIfFalse)
	if err := c.compileBody(node.Body); err != nil {
		return err
	}
	c.emitJumpTo(op.Jump, cont)
	c.patchHere(exitJump)
	exit := c.nextOffset()
	c.emit(op.LoopEnd)
	c.popLoop(exit, cont)
	return nil
}

func (c *ByteCompiler) compileDoWhile(node *ast.DoWhile) error {
	labels := c.takeLabels()
	c.emit(op.LoopStart)
	c.pushLoop(labels, false)
	first := c.jump()
	cont := c.nextOffset()
	c.emit(op.LoopContinue)
	if err := c.CompileExpr(node.Test, true); err != nil {
		return err
	}
	exitJump := c.emitJump(op.JumpIfFalse)
	c.patchHere(first)
	if err := c.compileBody(node.Body); err != nil {
		return err
	}
	c.emitJumpTo(op.Jump, cont)
	c.patchHere(exitJump)
	exit := c.nextOffset()
	c.emit(op.LoopEnd)
	c.popLoop(exit, cont)
	return nil
}

// compileFor compiles a C-style for loop. A let declaration in the head
// gets a fresh copy of its environment for every iteration.
func (c *ByteCompiler) compileFor(node *ast.For) error {
	labels := c.takeLabels()
	var env envScope
	scoped, perIteration := false, false
	if decl, ok := node.Init.(*ast.VarDecl); ok && decl.Kind != ast.Var {
		scoped = true
		perIteration = decl.Kind == ast.Let
		env = c.pushDeclarativeEnv()
		if err := c.declareLexical(lexicalDecls([]ast.Stmt{decl}, false)); err != nil {
			return err
		}
	}
	if node.Init != nil {
		if err := c.CompileStmt(node.Init, false); err != nil {
			return err
		}
	}
	c.emit(op.LoopStart)
	c.pushLoop(labels, false)
	if perIteration {
		c.emit(op.CopyEnvironment)
	}
	start := c.jump()
	cont := c.nextOffset()
	c.emit(op.LoopContinue)
	if perIteration {
		c.emit(op.CopyEnvironment)
	}
	if node.Update != nil {
		if err := c.CompileExpr(node.Update, false); err != nil {
			return err
		}
	}
	c.patchHere(start)
	var exitJump *Label
	if node.Test != nil {
		if err := c.CompileExpr(node.Test, true); err != nil {
			return err
		}
		l := c.emitJump(op.JumpIfFalse)
		exitJump = &l
	}
	if err := c.compileBody(node.Body); err != nil {
		return err
	}
	c.emitJumpTo(op.Jump, cont)
	if exitJump != nil {
		c.patchHere(*exitJump)
	}
	exit := c.nextOffset()
	c.emit(op.LoopEnd)
	c.popLoop(exit, cont)
	if scoped {
		c.popEnv(env)
	}
	return nil
}

// compileForInOf compiles for-in and for-of loops. The iterator record
// stays on the stack for the whole loop, so the frame is an iterator frame
// and every early exit closes it. Lexical loop variables get a fresh environment
// per iteration.
func (c *ByteCompiler) compileForInOf(left ast.Stmt, right ast.Expr, body ast.Stmt, forIn bool) error {
	labels := c.takeLabels()
	if err := c.CompileExpr(right, true); err != nil {
		return err
	}
	if forIn {
		c.emit(op.ForInLoopInitIterator)
	} else {
		c.emit(op.InitIterator)
	}
	c.emit(op.LoopStart)
	c.pushLoop(labels, true)
	cont := c.nextOffset()
	c.emit(op.LoopContinue)
	done := c.emitJump(op.IteratorNextFull)

	var env envScope
	scoped := false
	switch l := left.(type) {
	case *ast.VarDecl:
		if len(l.List) != 1 {
			return c.errorf(errors.E1003, l.DeclPos, "invalid left-hand side in for-%s loop", loopWord(forIn))
		}
		target := l.List[0].Target
		if l.Kind != ast.Var {
			scoped = true
			env = c.pushDeclarativeEnv()
			if err := c.declareLexical(lexicalDecls([]ast.Stmt{l}, false)); err != nil {
				return err
			}
		}
		if err := c.compilePattern(target, bindKindOf(l.Kind)); err != nil {
			return err
		}
	case *ast.ExprStmt:
		if err := c.compilePattern(l.X, bindAssign); err != nil {
			return err
		}
	default:
		return c.errorf(errors.E1003, left.Pos(), "invalid left-hand side in for-%s loop", loopWord(forIn))
	}

	if err := c.compileBody(body); err != nil {
		return err
	}
	if scoped {
		c.popEnv(env)
	}
	c.emitJumpTo(op.Jump, cont)
	// an exhausted iterator is discarded without calling return
	c.patchHere(done)
	c.emitPopIteratorRecord()
	exit := c.nextOffset()
	c.emit(op.LoopEnd)
	c.popLoop(exit, cont)
	return nil
}

func loopWord(forIn bool) string {
	if forIn {
		return "in"
	}
	return "of"
}

package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/op"
)

// compileTry lowers a try statement into one linear region:
//
//	TryStart handler, finally
//	  <body>
//	TryEnd
//	Jump finally (or past the catch clause)
//	handler:
//	CatchStart finally
//	  <catch>
//	CatchEnd (CatchEnd2 without a finally body)
//	finally:
//	FinallyStart
//	  <finally>
//	FinallyEnd
//	  <trampolines>
//
// Without a catch clause the handler address equals the finally address.
// Without a finally body the finally address is zero.
func (c *ByteCompiler) compileTry(node *ast.Try) error {
	hasCatch, hasFinally := node.Catch != nil, node.Finally != nil
	info := c.pushTry(hasCatch, hasFinally)
	handler, finally := c.emitTryStart()
	if err := c.compileScopedList(node.Body.Body); err != nil {
		return err
	}
	c.emit(op.TryEnd)

	if !hasCatch {
		start := c.nextOffset()
		c.patch(handler, start)
		c.patch(finally, start)
		return c.compileFinally(info, node.Finally, start)
	}

	afterBody := c.jump()
	c.patchHere(handler)
	info.phase = phaseCatch
	catchStart := c.emitJump(op.CatchStart)
	if err := c.compileCatch(node); err != nil {
		return err
	}
	if !hasFinally {
		c.emit(op.CatchEnd2)
		end := c.nextOffset()
		c.patch(afterBody, end)
		c.patch(catchStart, end)
		c.patch(finally, 0)
		c.popTry()
		return nil
	}
	c.emit(op.CatchEnd)
	start := c.nextOffset()
	c.patch(afterBody, start)
	c.patch(catchStart, start)
	c.patch(finally, start)
	return c.compileFinally(info, node.Finally, start)
}

// compileCatch compiles the catch clause. The thrown value is on the
// stack on entry. The parameter and the lexical names of the clause body
// share one environment.
func (c *ByteCompiler) compileCatch(node *ast.Try) error {
	var params []lexicalDecl
	if node.Param != nil {
		for _, name := range ast.BoundNames(node.Param) {
			params = append(params, lexicalDecl{name: name, pos: node.Param.Pos()})
		}
	}
	decls := append(params, lexicalDecls(node.Catch.Body, true)...)
	if len(decls) == 0 {
		if node.Param == nil {
			c.emit(op.Pop)
		} else if err := c.compilePattern(node.Param, bindLet); err != nil {
			return err
		}
		return c.compileStmts(node.Catch.Body)
	}
	env := c.pushDeclarativeEnv()
	if err := c.declareLexical(decls); err != nil {
		return err
	}
	if node.Param == nil {
		c.emit(op.Pop)
	} else if err := c.compilePattern(node.Param, bindLet); err != nil {
		return err
	}
	if err := c.hoistBlockFunctions(node.Catch.Body); err != nil {
		return err
	}
	if err := c.compileStmts(node.Catch.Body); err != nil {
		return err
	}
	c.popEnv(env)
	return nil
}

// compileFinally compiles the finally body at start. Exits that were routed
// here jump to start, and popTry emits their trampolines after FinallyEnd.
func (c *ByteCompiler) compileFinally(info *jumpControlInfo, block *ast.Block, start uint32) error {
	info.phase = phaseFinally
	c.patchAll(info.toFinally, start)
	info.toFinally = nil
	c.emit(op.FinallyStart)
	if err := c.compileScopedList(block.Body); err != nil {
		return err
	}
	c.emit(op.FinallyEnd)
	c.popTry()
	return nil
}

package compiler

import (
	"fmt"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

// CompileStmt compiles a statement. With useResult set an expression
// statement leaves its value on the stack and every other statement leaves
// undefined.
func (c *ByteCompiler) CompileStmt(stmt ast.Stmt, useResult bool) error {
	if es, ok := stmt.(*ast.ExprStmt); ok {
		c.setPos(es.Pos())
		return c.CompileExpr(es.X, useResult)
	}
	if err := c.compileStmt(stmt); err != nil {
		return err
	}
	if useResult {
		c.emit(op.PushUndefined)
	}
	return nil
}

func (c *ByteCompiler) compileStmt(stmt ast.Stmt) error {
	c.setPos(stmt.Pos())
	switch node := stmt.(type) {
	case *ast.Empty, *ast.Debugger:
		return nil
	case *ast.Block:
		return c.compileScopedList(node.Body)
	case *ast.VarDecl:
		return c.compileVarDecl(node)
	case *ast.FuncDecl:
		// Initialized when the enclosing scope is entered.
		return nil
	case *ast.ClassDecl:
		if err := c.compileClass(node.Class, ""); err != nil {
			return err
		}
		c.emitBinding(op.DefInitLet, c.arena.InitializeMutableBinding(node.Class.Name.Name, false))
		return nil
	case *ast.If:
		return c.compileIf(node)
	case *ast.While:
		return c.compileWhile(node)
	case *ast.DoWhile:
		return c.compileDoWhile(node)
	case *ast.For:
		return c.compileFor(node)
	case *ast.ForIn:
		return c.compileForInOf(node.Left, node.Right, node.Body, true)
	case *ast.ForOf:
		return c.compileForInOf(node.Left, node.Right, node.Body, false)
	case *ast.Switch:
		return c.compileSwitch(node)
	case *ast.Labelled:
		return c.compileLabelled(node)
	case *ast.Break:
		return c.compileBreak(node)
	case *ast.Continue:
		return c.compileContinue(node)
	case *ast.Return:
		return c.compileReturn(node)
	case *ast.Throw:
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		c.setPos(node.ThrowPos)
		c.emit(op.Throw)
		return nil
	case *ast.Try:
		return c.compileTry(node)
	case *ast.With:
		return c.errorf(errors.E2013, node.WithPos, "with statements are not supported")
	}
	panic(fmt.Sprintf("compiler: unknown statement type %T", stmt))
}

// compileBody compiles the sub-statement of an if, loop or label. A
// function declaration in that position gets its own scope.
func (c *ByteCompiler) compileBody(stmt ast.Stmt) error {
	if _, ok := stmt.(*ast.FuncDecl); ok {
		return c.compileScopedList([]ast.Stmt{stmt})
	}
	return c.CompileStmt(stmt, false)
}

func (c *ByteCompiler) compileIf(node *ast.If) error {
	if err := c.CompileExpr(node.Test, true); err != nil {
		return err
	}
	otherwise := c.emitJump(op.JumpIfFalse)
	if err := c.compileBody(node.Then); err != nil {
		return err
	}
	if node.Else == nil {
		c.patchHere(otherwise)
		return nil
	}
	end := c.jump()
	c.patchHere(otherwise)
	if err := c.compileBody(node.Else); err != nil {
		return err
	}
	c.patchHere(end)
	return nil
}

func (c *ByteCompiler) compileReturn(node *ast.Return) error {
	switch c.ctx.kind {
	case bytecode.KindScript, bytecode.KindFieldInitializer, bytecode.KindStaticBlock:
		return c.errorf(errors.E2005, node.ReturnPos, "illegal return statement")
	}
	if node.X != nil {
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
	} else {
		c.emit(op.PushUndefined)
	}
	c.setPos(node.ReturnPos)
	if c.returnNeedsStore() {
		c.emit(op.SetReturnValue)
		c.jumpOut(exitReturn, -1, len(c.jumpInfo)-1)
		return nil
	}
	c.emit(op.Return)
	return nil
}

// compileLabelled attaches labels to a directly following loop or switch.
// Any other labelled statement becomes a LabelledBlock so that break can
// leave it.
func (c *ByteCompiler) compileLabelled(node *ast.Labelled) error {
	name := node.Label.Name
	if c.findLabel(name) >= 0 {
		return c.errorf(errors.E2001, node.Label.NamePos, "label '%s' has already been declared", name)
	}
	for _, pending := range c.pendingLabels {
		if pending == name {
			return c.errorf(errors.E2001, node.Label.NamePos, "label '%s' has already been declared", name)
		}
	}
	c.pendingLabels = append(c.pendingLabels, name)
	switch body := node.Body.(type) {
	case *ast.While, *ast.DoWhile, *ast.For, *ast.ForIn, *ast.ForOf, *ast.Switch:
		return c.CompileStmt(body, false)
	case *ast.Labelled:
		return c.compileLabelled(body)
	}
	c.pushLabelled(c.takeLabels())
	c.emit(op.LoopStart)
	if err := c.compileBody(node.Body); err != nil {
		return err
	}
	exit := c.nextOffset()
	c.emit(op.LoopEnd)
	c.popBreakable(jumpLabelled, exit)
	return nil
}

func (c *ByteCompiler) compileSwitch(node *ast.Switch) error {
	labels := c.takeLabels()
	if err := c.CompileExpr(node.Discriminant, true); err != nil {
		return err
	}
	var body []ast.Stmt
	for _, cs := range node.Cases {
		body = append(body, cs.Body...)
	}
	decls := lexicalDecls(body, true)
	var env envScope
	if len(decls) > 0 {
		env = c.pushDeclarativeEnv()
		if err := c.declareLexical(decls); err != nil {
			return err
		}
		if err := c.hoistBlockFunctions(body); err != nil {
			return err
		}
	}
	c.emit(op.LoopStart)
	c.pushSwitch(labels)
	jumps := make([]Label, len(node.Cases))
	defaultCase := -1
	for i, cs := range node.Cases {
		if cs.Test == nil {
			defaultCase = i
			continue
		}
		if err := c.CompileExpr(cs.Test, true); err != nil {
			return err
		}
		c.setPos(cs.CasePos)
		jumps[i] = c.emitJump(op.Case)
	}
	otherwise := c.emitJump(op.Default)
	for i, cs := range node.Cases {
		if i == defaultCase {
			c.patchHere(otherwise)
		} else {
			c.patchHere(jumps[i])
		}
		if err := c.compileStmts(cs.Body); err != nil {
			return err
		}
	}
	exit := c.nextOffset()
	if defaultCase < 0 {
		c.patch(otherwise, exit)
	}
	c.emit(op.LoopEnd)
	c.popBreakable(jumpSwitch, exit)
	if len(decls) > 0 {
		c.popEnv(env)
	}
	return nil
}

package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

type accessKind uint8

const (
	accessVariable accessKind = iota
	accessByName
	accessByValue
	accessPrivate
	accessSuperByName
	accessSuperByValue
	accessThis
)

// access is a readable and possibly writable reference.
type access struct {
	kind   accessKind
	name   string   // variable, property or private name
	object ast.Expr // property object
	key    ast.Expr // computed key
	node   ast.Expr
}

// refs returns the number of stack slots the reference occupies once
// pushed.
func (a *access) refs() int {
	switch a.kind {
	case accessByName, accessPrivate, accessSuperByValue:
		return 1
	case accessByValue:
		return 2
	}
	return 0
}

type storeMode uint8

const (
	// storeDiscard leaves nothing on the stack.
	storeDiscard storeMode = iota
	// storeKeepNew leaves the stored value.
	storeKeepNew
	// storeKeepOld leaves the value read before the update, converted
	// with ToNumeric.
	storeKeepOld
)

func resultMode(useResult bool) storeMode {
	if useResult {
		return storeKeepNew
	}
	return storeDiscard
}

// accessOf classifies an expression as a reference.
func accessOf(expr ast.Expr) (*access, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return &access{kind: accessVariable, name: e.Name, node: e}, true
	case *ast.Member:
		if _, ok := e.X.(*ast.Super); ok {
			return &access{kind: accessSuperByName, name: e.Name, node: e}, true
		}
		return &access{kind: accessByName, name: e.Name, object: e.X, node: e}, true
	case *ast.Index:
		if _, ok := e.X.(*ast.Super); ok {
			return &access{kind: accessSuperByValue, key: e.Index, node: e}, true
		}
		return &access{kind: accessByValue, object: e.X, key: e.Index, node: e}, true
	case *ast.PrivateMember:
		return &access{kind: accessPrivate, name: e.Name, object: e.X, node: e}, true
	case *ast.This:
		return &access{kind: accessThis, node: e}, true
	}
	return nil, false
}

// assignable returns the writable reference for expr, or a compile error.
func (c *ByteCompiler) assignable(expr ast.Expr) (*access, error) {
	a, ok := accessOf(expr)
	if !ok || a.kind == accessThis {
		return nil, c.errorf(errors.E2011, expr.Pos(), "invalid left-hand side in assignment")
	}
	if m, ok := expr.(*ast.Member); ok && m.Optional {
		return nil, c.errorf(errors.E2011, expr.Pos(), "invalid left-hand side in assignment")
	}
	if ix, ok := expr.(*ast.Index); ok && ix.Optional {
		return nil, c.errorf(errors.E2011, expr.Pos(), "invalid left-hand side in assignment")
	}
	if pm, ok := expr.(*ast.PrivateMember); ok && pm.Optional {
		return nil, c.errorf(errors.E2011, expr.Pos(), "invalid left-hand side in assignment")
	}
	if a.kind == accessSuperByName || a.kind == accessSuperByValue {
		if err := c.checkSuperProperty(expr); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// compileObjectOf pushes the object of a property reference, followed by
// the short circuit check when the access is an optional link.
func (c *ByteCompiler) compileObjectOf(a *access) error {
	if err := c.CompileExpr(a.object, true); err != nil {
		return err
	}
	return c.optionalLink(isOptional(a.node), 0, a.node)
}

func isOptional(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Member:
		return e.Optional
	case *ast.Index:
		return e.Optional
	case *ast.PrivateMember:
		return e.Optional
	case *ast.Call:
		return e.Optional
	}
	return false
}

func (c *ByteCompiler) checkSuperProperty(node ast.Expr) error {
	if !c.ctx.superProperty {
		return c.errorf(errors.E2007, node.Pos(), "'super' keyword unexpected here")
	}
	return nil
}

// pushReference pushes the parts of a reference that are evaluated before
// the value: the object and, for computed access, the property key.
func (c *ByteCompiler) pushReference(a *access) error {
	switch a.kind {
	case accessByName, accessPrivate:
		return c.CompileExpr(a.object, true)
	case accessByValue:
		if err := c.CompileExpr(a.object, true); err != nil {
			return err
		}
		if err := c.CompileExpr(a.key, true); err != nil {
			return err
		}
		c.emit(op.ToPropertyKey)
	case accessSuperByValue:
		if err := c.CompileExpr(a.key, true); err != nil {
			return err
		}
		c.emit(op.ToPropertyKey)
	}
	return nil
}

// readKeepingReference reads the current value of a pushed reference and
// leaves the reference in place beneath it.
func (c *ByteCompiler) readKeepingReference(a *access) {
	switch a.kind {
	case accessVariable:
		c.emitU32(op.GetName, c.getOrInsertBinding(c.arena.GetBindingValue(a.name)))
	case accessByName:
		c.emit(op.Dup)
		c.emitU32(op.GetPropertyByName, c.getOrInsertName(a.name))
	case accessByValue:
		c.emit(op.GetPropertyByValuePush)
	case accessPrivate:
		c.emit(op.Dup)
		c.emitU32(op.GetPrivateField, c.getOrInsertName(a.name))
	case accessSuperByName:
		c.emitU32(op.SuperGetPropertyByName, c.getOrInsertName(a.name))
	case accessSuperByValue:
		c.emit(op.Dup)
		c.emit(op.SuperGetPropertyByValue)
	case accessThis:
		c.emit(op.This)
	}
}

// accessGet emits a read of the reference.
func (c *ByteCompiler) accessGet(a *access, useResult bool) error {
	switch a.kind {
	case accessVariable:
		c.emitU32(op.GetName, c.getOrInsertBinding(c.arena.GetBindingValue(a.name)))
	case accessByName:
		if err := c.compileObjectOf(a); err != nil {
			return err
		}
		c.emitU32(op.GetPropertyByName, c.getOrInsertName(a.name))
	case accessByValue:
		if err := c.compileObjectOf(a); err != nil {
			return err
		}
		if err := c.CompileExpr(a.key, true); err != nil {
			return err
		}
		c.emit(op.GetPropertyByValue)
	case accessPrivate:
		if err := c.compileObjectOf(a); err != nil {
			return err
		}
		c.emitU32(op.GetPrivateField, c.getOrInsertName(a.name))
	case accessSuperByName:
		if err := c.checkSuperProperty(a.node); err != nil {
			return err
		}
		c.emitU32(op.SuperGetPropertyByName, c.getOrInsertName(a.name))
	case accessSuperByValue:
		if err := c.checkSuperProperty(a.node); err != nil {
			return err
		}
		if err := c.CompileExpr(a.key, true); err != nil {
			return err
		}
		c.emit(op.SuperGetPropertyByValue)
	case accessThis:
		c.emit(op.This)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

// store writes the value on top of the stack through a pushed reference.
// It leaves the value on the stack if keep is set.
func (c *ByteCompiler) store(a *access, keep bool) {
	switch a.kind {
	case accessVariable:
		if keep {
			c.emit(op.Dup)
		}
		c.emitU32(op.SetName, c.getOrInsertBinding(c.arena.SetMutableBinding(a.name)))
		return
	case accessByName:
		c.emitU32(op.SetPropertyByName, c.getOrInsertName(a.name))
	case accessByValue:
		c.emit(op.SetPropertyByValue)
	case accessPrivate:
		c.emitU32(op.SetPrivateField, c.getOrInsertName(a.name))
	case accessSuperByName:
		c.emitU32(op.SuperSetPropertyByName, c.getOrInsertName(a.name))
	case accessSuperByValue:
		c.emit(op.SuperSetPropertyByValue)
	}
	if !keep {
		c.emit(op.Pop)
	}
}

// accessSet stores a freshly computed value. The value continuation pushes
// the value after the reference. A nil continuation means the value is
// already on the stack beneath where the reference will be pushed, as for
// destructuring targets.
func (c *ByteCompiler) accessSet(a *access, mode storeMode, value func() error) error {
	if mode == storeKeepOld {
		panic("compiler: accessSet does not support storeKeepOld")
	}
	if err := c.pushReference(a); err != nil {
		return err
	}
	if value == nil {
		if k := a.refs(); k > 0 {
			c.emit(op.RotateDown, uint64(k+1))
		}
	} else if err := value(); err != nil {
		return err
	}
	c.store(a, mode == storeKeepNew)
	return nil
}

// accessModify performs a read-modify-write. The update continuation finds
// the old value on top of the stack and replaces it with the new one.
func (c *ByteCompiler) accessModify(a *access, mode storeMode, update func() error) error {
	if err := c.pushReference(a); err != nil {
		return err
	}
	c.readKeepingReference(a)
	if mode == storeKeepOld {
		c.emit(op.ToNumeric)
		c.emit(op.Dup)
		c.emit(op.RotateUp, uint64(a.refs()+2))
	}
	if err := update(); err != nil {
		return err
	}
	switch mode {
	case storeKeepOld:
		c.store(a, false)
	default:
		c.store(a, mode == storeKeepNew)
	}
	return nil
}

// accessLogical compiles a logical assignment such as "a.b ??= v". The
// store only happens when the short circuit operator does not jump.
func (c *ByteCompiler) accessLogical(a *access, code op.Code, value func() error, useResult bool) error {
	if err := c.pushReference(a); err != nil {
		return err
	}
	c.readKeepingReference(a)
	skip := c.emitJump(code)
	if err := value(); err != nil {
		return err
	}
	c.store(a, true)
	k := a.refs()
	if k == 0 {
		c.patchHere(skip)
	} else {
		end := c.jump()
		c.patchHere(skip)
		c.emit(op.RotateUp, uint64(k+1))
		for i := 0; i < k; i++ {
			c.emit(op.Pop)
		}
		c.patchHere(end)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

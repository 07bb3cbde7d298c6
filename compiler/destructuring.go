package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

// bindKind selects how a pattern stores the values it extracts.
type bindKind uint8

const (
	bindAssign bindKind = iota
	bindVar
	bindLet
	bindConst
	bindArg
)

// compilePattern stores the value on top of the stack into a binding
// target and pops it.
func (c *ByteCompiler) compilePattern(target ast.Expr, kind bindKind) error {
	switch t := target.(type) {
	case *ast.Ident:
		c.bindName(t.Name, kind)
		return nil
	case *ast.ArrayPattern:
		return c.compileArrayPattern(t, kind)
	case *ast.ObjectPattern:
		return c.compileObjectPattern(t, kind)
	case *ast.AssignPattern:
		skip := c.emitJump(op.JumpIfNotUndefined)
		name := ""
		if id, ok := t.Target.(*ast.Ident); ok {
			name = id.Name
		}
		if err := c.compileNamedExpr(t.Default, name); err != nil {
			return err
		}
		c.patchHere(skip)
		return c.compilePattern(t.Target, kind)
	}
	if kind != bindAssign {
		return c.errorf(errors.E2010, target.Pos(), "invalid destructuring target")
	}
	a, err := c.assignable(target)
	if err != nil {
		return err
	}
	return c.accessSet(a, storeDiscard, nil)
}

func (c *ByteCompiler) bindName(name string, kind bindKind) {
	var code op.Code
	var loc bytecode.BindingLocator
	switch kind {
	case bindLet:
		code, loc = op.DefInitLet, c.arena.InitializeMutableBinding(name, false)
	case bindConst:
		code, loc = op.DefInitConst, c.arena.InitializeMutableBinding(name, false)
	case bindArg:
		code, loc = op.DefInitArg, c.arena.InitializeMutableBinding(name, true)
	default:
		code, loc = op.SetName, c.arena.SetMutableBinding(name)
	}
	c.emitBinding(code, loc)
}

// compileArrayPattern drives the iterator protocol over the value. The
// iterator record occupies three stack slots until it is closed or, after
// a rest element has drained it, popped.
func (c *ByteCompiler) compileArrayPattern(p *ast.ArrayPattern, kind bindKind) error {
	c.emit(op.InitIterator)
	for _, el := range p.Elements {
		c.emit(op.IteratorNext)
		if el == nil {
			c.emit(op.Pop)
			continue
		}
		if err := c.compilePattern(el, kind); err != nil {
			return err
		}
	}
	if p.Rest != nil {
		if _, ok := p.Rest.(*ast.AssignPattern); ok {
			return c.errorf(errors.E2014, p.Rest.Pos(), "rest element may not have a default initializer")
		}
		c.emit(op.IteratorToArray)
		if err := c.compilePattern(p.Rest, kind); err != nil {
			return err
		}
		c.emitPopIteratorRecord()
		return nil
	}
	// IteratorClose skips the return call when IteratorNext has already
	// seen the end of the iterator.
	c.emit(op.IteratorClose)
	return nil
}

// emitPopIteratorRecord discards an iterator record without closing it.
func (c *ByteCompiler) emitPopIteratorRecord() {
	c.emit(op.Pop)
	c.emit(op.Pop)
	c.emit(op.Pop)
}

// compileObjectPattern reads each property from the source object. With a
// rest element the extracted keys are kept beneath the source so that
// CopyDataProperties can exclude them.
func (c *ByteCompiler) compileObjectPattern(p *ast.ObjectPattern, kind bindKind) error {
	c.emit(op.RequireObjectCoercible)
	if p.Rest == nil {
		for _, prop := range p.Props {
			c.emit(op.Dup)
			if err := c.compilePatternKey(prop); err != nil {
				return err
			}
			if err := c.compilePattern(prop.Value, kind); err != nil {
				return err
			}
		}
		c.emit(op.Pop)
		return nil
	}

	switch p.Rest.(type) {
	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignPattern:
		return c.errorf(errors.E2014, p.Rest.Pos(), "invalid rest element in object pattern")
	}
	n := len(p.Props)
	for _, prop := range p.Props {
		if name, ok := propertyKeyName(prop.Key); ok && !prop.Computed {
			c.emitPushLiteral(bytecode.StringLiteral(name))
			c.emit(op.Swap)
			c.emit(op.Dup)
			c.emitU32(op.GetPropertyByName, c.getOrInsertName(name))
		} else {
			c.emit(op.Dup)
			if err := c.CompileExpr(prop.Key, true); err != nil {
				return err
			}
			c.emit(op.ToPropertyKey)
			c.emit(op.Dup)
			c.emit(op.RotateUp, 4)
			c.emit(op.GetPropertyByValue)
		}
		if err := c.compilePattern(prop.Value, kind); err != nil {
			return err
		}
	}
	c.emit(op.PushEmptyObject)
	c.emit(op.RotateUp, uint64(n+2))
	if n > 0 {
		c.emit(op.RotateUp, uint64(n+1))
	}
	c.emitU32(op.CopyDataProperties, uint32(n))
	return c.compilePattern(p.Rest, kind)
}

// compilePatternKey replaces the duplicated source on top of the stack
// with the value of the property.
func (c *ByteCompiler) compilePatternKey(prop *ast.PatternProperty) error {
	if name, ok := propertyKeyName(prop.Key); ok && !prop.Computed {
		c.emitU32(op.GetPropertyByName, c.getOrInsertName(name))
		return nil
	}
	if err := c.CompileExpr(prop.Key, true); err != nil {
		return err
	}
	c.emit(op.ToPropertyKey)
	c.emit(op.GetPropertyByValue)
	return nil
}

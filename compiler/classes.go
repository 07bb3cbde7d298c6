package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/op"
)

// compileClass pushes the constructor of a class. While the elements are
// defined the stack holds the constructor and the prototype, with the
// prototype on top. Elements that target the constructor are bracketed by
// Swap.
func (c *ByteCompiler) compileClass(node *ast.Class, name string) error {
	if node.Name != nil {
		name = node.Name.Name
	}
	var env envScope
	if node.Name != nil {
		env = c.pushDeclarativeEnv()
		c.arena.CreateImmutableBinding(node.Name.Name)
	}

	derived := node.Heritage != nil
	ctx := unitContext{
		name:          name,
		kind:          bytecode.KindClassConstructor,
		strict:        true,
		method:        true,
		derived:       derived,
		thisMode:      bytecode.ThisModeStrict,
		superCall:     derived,
		superProperty: true,
	}
	ctor, err := c.compileUnit(ctx, func(cc *ByteCompiler) error {
		if node.Ctor != nil {
			return cc.compileFunctionBody(node.Ctor)
		}
		cc.arena.SetStrict()
		if derived {
			cc.emit(op.SuperCallDerived)
			cc.emit(op.Pop)
		}
		cc.emit(op.PushUndefined)
		cc.emit(op.Return)
		return nil
	})
	if err != nil {
		return err
	}
	c.setPos(node.ClassPos)
	c.emitU32(op.GetFunction, ctor)

	saved := c.ctx.strict
	c.ctx.strict = true
	defer func() { c.ctx.strict = saved }()

	if derived {
		if err := c.CompileExpr(node.Heritage, true); err != nil {
			return err
		}
		c.emitU32(op.PushClassPrototype, 1)
	} else {
		c.emitU32(op.PushClassPrototype, 0)
	}

	for _, el := range node.Elements {
		if err := c.compileClassElement(el); err != nil {
			return err
		}
	}
	c.emit(op.Pop)

	if node.Name != nil {
		c.emit(op.Dup)
		c.emitBinding(op.DefInitConst, c.arena.InitializeMutableBinding(node.Name.Name, false))
		c.popEnv(env)
	}
	return nil
}

func (c *ByteCompiler) compileClassElement(el *ast.ClassElement) error {
	var keyName string
	named := false
	if pn, ok := el.Key.(*ast.PrivateName); ok {
		keyName, named = pn.Name, true
	} else if el.Key != nil && !el.Computed {
		keyName, named = propertyKeyName(el.Key)
	}

	switch el.Kind {
	case ast.ClassStaticBlock:
		c.emit(op.Swap)
		if err := c.compileStaticBlock(el.Block); err != nil {
			return err
		}
		c.emit(op.RunClassStaticBlock)
		c.emit(op.Swap)
		return nil
	case ast.ClassField:
		return c.compileClassField(el, keyName, named)
	}

	display := keyName
	if el.Private() {
		display = "#" + keyName
	}
	kind, fnName := op.MethodKindMethod, display
	switch el.Kind {
	case ast.ClassGetter:
		kind, fnName = op.MethodKindGetter, "get "+display
	case ast.ClassSetter:
		kind, fnName = op.MethodKindSetter, "set "+display
	}

	if el.Private() {
		c.emit(op.Swap)
		if err := c.compileMethod(el.Func, fnName); err != nil {
			return err
		}
		code := op.PushClassPrivateMethod
		if el.Static {
			code = op.DefineStaticPrivateMethod
		}
		c.emit(code, uint64(c.getOrInsertName(keyName)), uint64(kind))
		c.emit(op.Swap)
		return nil
	}

	if el.Static {
		c.emit(op.Swap)
	}
	if !named {
		if err := c.CompileExpr(el.Key, true); err != nil {
			return err
		}
		c.emit(op.ToPropertyKey)
	}
	if err := c.compileMethod(el.Func, fnName); err != nil {
		return err
	}
	var byName, byValue op.Code
	switch kind {
	case op.MethodKindGetter:
		byName, byValue = op.DefineClassGetterByName, op.DefineClassGetterByValue
	case op.MethodKindSetter:
		byName, byValue = op.DefineClassSetterByName, op.DefineClassSetterByValue
	default:
		byName, byValue = op.DefineClassMethodByName, op.DefineClassMethodByValue
	}
	c.emitByNameOrValue(named, keyName, byName, byValue)
	if el.Static {
		c.emit(op.Swap)
	}
	return nil
}

// compileClassField records an instance field on the constructor or
// defines a static field. The initializer is compiled as its own unit and
// runs with the instance or the constructor as this.
func (c *ByteCompiler) compileClassField(el *ast.ClassElement, keyName string, named bool) error {
	c.emit(op.Swap)
	private := el.Private()
	if !private {
		if named {
			c.emitPushLiteral(bytecode.StringLiteral(keyName))
		} else {
			if err := c.CompileExpr(el.Key, true); err != nil {
				return err
			}
			c.emit(op.ToPropertyKey)
		}
	}
	if err := c.compileFieldInitializer(el.Value, keyName); err != nil {
		return err
	}
	switch {
	case private && el.Static:
		c.emitU32(op.DefineStaticPrivateField, c.getOrInsertName(keyName))
	case private:
		c.emitU32(op.PushClassFieldPrivate, c.getOrInsertName(keyName))
	case el.Static:
		c.emit(op.DefineStaticField)
	default:
		c.emit(op.PushClassField)
	}
	c.emit(op.Swap)
	return nil
}

func (c *ByteCompiler) compileFieldInitializer(value ast.Expr, name string) error {
	ctx := unitContext{
		name:          name,
		kind:          bytecode.KindFieldInitializer,
		strict:        true,
		method:        true,
		thisMode:      bytecode.ThisModeStrict,
		superProperty: true,
	}
	idx, err := c.compileUnit(ctx, func(cc *ByteCompiler) error {
		cc.arena.SetStrict()
		if value == nil {
			cc.emit(op.PushUndefined)
		} else if err := cc.compileNamedExpr(value, name); err != nil {
			return err
		}
		cc.emit(op.Return)
		return nil
	})
	if err != nil {
		return err
	}
	c.emitU32(op.GetFunction, idx)
	return nil
}

func (c *ByteCompiler) compileStaticBlock(block *ast.Block) error {
	ctx := unitContext{
		name:          "static",
		kind:          bytecode.KindStaticBlock,
		strict:        true,
		method:        true,
		thisMode:      bytecode.ThisModeStrict,
		superProperty: true,
	}
	idx, err := c.compileUnit(ctx, func(cc *ByteCompiler) error {
		cc.arena.SetStrict()
		if err := cc.hoistVarScope(block.Body, nil); err != nil {
			return err
		}
		if err := cc.compileStmts(block.Body); err != nil {
			return err
		}
		cc.emit(op.PushUndefined)
		cc.emit(op.Return)
		return nil
	})
	if err != nil {
		return err
	}
	c.emitU32(op.GetFunction, idx)
	return nil
}

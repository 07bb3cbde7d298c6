package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

// compileUnit compiles a nested unit with a child ByteCompiler and appends
// the result to the function table. The unit's function environment is
// open while build runs.
func (c *ByteCompiler) compileUnit(ctx unitContext, build func(cc *ByteCompiler) error) (uint32, error) {
	cc := c.child(ctx)
	depth := c.arena.Depth()
	c.arena.PushCompileTimeEnvironment(ctx.strict, true)
	if err := build(cc); err != nil {
		for c.arena.Depth() > depth {
			c.arena.PopCompileTimeEnvironment()
		}
		return 0, err
	}
	slots, _ := c.arena.PopCompileTimeEnvironment()
	cc.numBindings = slots
	idx := uint32(len(c.functions))
	c.functions = append(c.functions, cc.Finish())
	return idx, nil
}

// functionContext derives the context of a function literal.
func (c *ByteCompiler) functionContext(fn *ast.Func, name string) unitContext {
	ctx := unitContext{
		name:      name,
		kind:      bytecode.KindFunction,
		strict:    c.ctx.strict || fn.Strict,
		generator: fn.Generator,
		async:     fn.Async,
		arrow:     fn.Arrow,
	}
	switch {
	case fn.Arrow:
		ctx.thisMode = bytecode.ThisModeLexical
		ctx.superCall = c.ctx.superCall
		ctx.superProperty = c.ctx.superProperty
	case ctx.strict:
		ctx.thisMode = bytecode.ThisModeStrict
	default:
		ctx.thisMode = bytecode.ThisModeGlobal
	}
	return ctx
}

// emitGetFunction pushes a closure over the unit at idx.
func (c *ByteCompiler) emitGetFunction(ctx unitContext, idx uint32) {
	code := op.GetFunction
	switch {
	case ctx.generator && ctx.async:
		code = op.GetGeneratorAsync
	case ctx.generator:
		code = op.GetGenerator
	case ctx.async:
		code = op.GetFunctionAsync
	}
	c.emitU32(code, idx)
}

// compileFunctionValue compiles a function literal and pushes the closure.
func (c *ByteCompiler) compileFunctionValue(fn *ast.Func, name string) error {
	ctx := c.functionContext(fn, name)
	idx, err := c.compileUnit(ctx, func(cc *ByteCompiler) error {
		return cc.compileFunctionBody(fn)
	})
	if err != nil {
		return err
	}
	c.setPos(fn.FuncPos)
	c.emitGetFunction(ctx, idx)
	return nil
}

// compileFunctionExpr compiles a function or arrow expression. A named
// function expression binds its own name in an environment that only the
// function body can see.
func (c *ByteCompiler) compileFunctionExpr(fn *ast.Func, name string) error {
	if fn.Name == nil || fn.Arrow {
		return c.compileFunctionValue(fn, name)
	}
	if !referencesName(fn, fn.Name.Name, true) {
		return c.compileFunctionValue(fn, fn.Name.Name)
	}
	env := c.pushDeclarativeEnv()
	c.arena.CreateImmutableBinding(fn.Name.Name)
	if err := c.compileFunctionValue(fn, fn.Name.Name); err != nil {
		return err
	}
	c.emit(op.Dup)
	c.emitBinding(op.DefInitConst, c.arena.InitializeMutableBinding(fn.Name.Name, false))
	c.popEnv(env)
	return nil
}

// compileMethod compiles an object literal method or accessor.
func (c *ByteCompiler) compileMethod(expr ast.Expr, name string) error {
	fn, ok := expr.(*ast.Func)
	if !ok {
		return c.errorf(errors.E1003, expr.Pos(), "method definition expected")
	}
	ctx := c.functionContext(fn, name)
	ctx.method = true
	ctx.superProperty = true
	idx, err := c.compileUnit(ctx, func(cc *ByteCompiler) error {
		return cc.compileFunctionBody(fn)
	})
	if err != nil {
		return err
	}
	c.emitGetFunction(ctx, idx)
	return nil
}

// compileFunctionBody emits the prologue and body of a function unit:
//
//  1. the arguments object, when the body refers to it
//  2. parameter bindings, defaults and the rest parameter
//  3. a separate var environment when the parameters contain expressions
//  4. hoisted var and function declarations
//  5. the initial generator suspension
//  6. the body, followed by an implicit return of undefined
func (c *ByteCompiler) compileFunctionBody(fn *ast.Func) error {
	if c.ctx.strict {
		c.arena.SetStrict()
	}
	params := fn.Params
	if params == nil {
		params = &ast.Params{}
	}
	names, err := c.declareParams(params)
	if err != nil {
		return err
	}
	if !fn.Arrow && !names["arguments"] && usesArguments(fn) {
		c.arena.CreateMutableBinding("arguments", true)
		if c.ctx.strict || !params.Simple() {
			c.emit(op.CreateUnmappedArgumentsObject)
		} else {
			c.emit(op.CreateMappedArgumentsObject)
		}
		loc := c.arena.InitializeMutableBinding("arguments", true)
		c.argumentsBinding = &loc
		c.emitBinding(op.DefInitArg, loc)
	}
	if err := c.compileParams(params); err != nil {
		return err
	}

	var body []ast.Stmt
	if fn.Body != nil {
		body = fn.Body.Body
	}
	var outerParams map[string]bool
	var funcEnv *envScope
	if hasParamExpressions(params) {
		env := c.pushFunctionEnv()
		funcEnv = &env
		outerParams = names
	}
	if err := c.hoistVarScope(body, outerParams); err != nil {
		return err
	}
	if c.ctx.generator {
		c.emit(op.PushUndefined)
		c.emit(op.Yield)
		c.emit(op.GeneratorNext)
		c.emit(op.Pop)
	}
	if fn.Expr != nil {
		if err := c.CompileExpr(fn.Expr, true); err != nil {
			return err
		}
		c.emit(op.Return)
	} else {
		if err := c.compileStmts(body); err != nil {
			return err
		}
		c.emit(op.PushUndefined)
		c.emit(op.Return)
	}
	// The function returns before the environment would be popped.
	if funcEnv != nil {
		c.closeEnv(*funcEnv)
	}
	return nil
}

// declareParams creates the parameter bindings in the function
// environment and records the parameter metadata.
func (c *ByteCompiler) declareParams(params *ast.Params) (map[string]bool, error) {
	names := map[string]bool{}
	strictDup := c.ctx.strict || !params.Simple() || c.ctx.arrow || c.ctx.method
	declare := func(target ast.Expr) error {
		for _, name := range ast.BoundNames(target) {
			if names[name] && strictDup {
				return c.errorf(errors.E2006, target.Pos(), "duplicate parameter name '%s'", name)
			}
			names[name] = true
			c.arena.CreateMutableBinding(name, true)
		}
		return nil
	}
	seenDefault := false
	for _, b := range params.List {
		if err := declare(b.Target); err != nil {
			return nil, err
		}
		p := bytecode.Parameter{HasDefault: b.Init != nil}
		if id, ok := b.Target.(*ast.Ident); ok {
			p.Name = id.Name
		} else {
			p.Pattern = true
		}
		if b.Init != nil {
			seenDefault = true
		}
		if !seenDefault {
			c.length++
		}
		c.params = append(c.params, p)
	}
	if params.Rest != nil {
		if _, ok := params.Rest.(*ast.AssignPattern); ok {
			return nil, c.errorf(errors.E2014, params.Rest.Pos(), "rest parameter may not have a default initializer")
		}
		if err := declare(params.Rest); err != nil {
			return nil, err
		}
		p := bytecode.Parameter{Rest: true}
		if id, ok := params.Rest.(*ast.Ident); ok {
			p.Name = id.Name
		} else {
			p.Pattern = true
		}
		c.params = append(c.params, p)
	}
	return names, nil
}

// compileParams binds each argument to its parameter.
func (c *ByteCompiler) compileParams(params *ast.Params) error {
	for i, b := range params.List {
		c.emitU32(op.GetArgument, uint32(i))
		name := ""
		if id, ok := b.Target.(*ast.Ident); ok {
			name = id.Name
		}
		if b.Init != nil {
			skip := c.emitJump(op.JumpIfNotUndefined)
			if err := c.compileNamedExpr(b.Init, name); err != nil {
				return err
			}
			c.patchHere(skip)
		}
		if err := c.compilePattern(b.Target, bindArg); err != nil {
			return err
		}
	}
	if params.Rest != nil {
		c.emitU32(op.RestParameterInit, uint32(len(params.List)))
		if err := c.compilePattern(params.Rest, bindArg); err != nil {
			return err
		}
	}
	return nil
}

// hasParamExpressions reports whether evaluating the parameters can run
// code, which requires the body's declarations to live in their own
// environment.
func hasParamExpressions(params *ast.Params) bool {
	for _, b := range params.List {
		if b.Init != nil || containsExpression(b.Target) {
			return true
		}
	}
	return params.Rest != nil && containsExpression(params.Rest)
}

func containsExpression(target ast.Expr) bool {
	switch t := target.(type) {
	case *ast.AssignPattern:
		return true
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil && containsExpression(el) {
				return true
			}
		}
		return t.Rest != nil && containsExpression(t.Rest)
	case *ast.ObjectPattern:
		for _, p := range t.Props {
			if p.Computed || containsExpression(p.Value) {
				return true
			}
		}
		return t.Rest != nil && containsExpression(t.Rest)
	}
	return false
}

// usesArguments reports whether the parameters or body of fn refer to
// arguments. Nested non-arrow functions have their own arguments object
// and are not searched.
func usesArguments(fn *ast.Func) bool {
	return referencesName(fn, "arguments", false)
}

// referencesName reports whether an identifier called name appears inside
// fn. Nested non-arrow functions are only searched if nested is set.
func referencesName(fn *ast.Func, name string, nested bool) bool {
	found := false
	ast.Inspect(fn, func(n ast.Node) bool {
		if found {
			return false
		}
		switch node := n.(type) {
		case *ast.Func:
			return node == fn || node.Arrow || nested
		case *ast.Ident:
			if node.Name == name && node != fn.Name {
				found = true
			}
		}
		return true
	})
	return found
}

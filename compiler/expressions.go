package compiler

import (
	"fmt"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

var binaryOps = map[string]op.Code{
	"+":          op.Add,
	"-":          op.Sub,
	"*":          op.Mul,
	"/":          op.Div,
	"%":          op.Mod,
	"**":         op.Pow,
	"<<":         op.ShiftLeft,
	">>":         op.ShiftRight,
	">>>":        op.UnsignedShiftRight,
	"&":          op.BitAnd,
	"|":          op.BitOr,
	"^":          op.BitXor,
	"==":         op.Eq,
	"!=":         op.NotEq,
	"===":        op.StrictEq,
	"!==":        op.StrictNotEq,
	"<":          op.LessThan,
	"<=":         op.LessThanOrEq,
	">":          op.GreaterThan,
	">=":         op.GreaterThanOrEq,
	"in":         op.In,
	"instanceof": op.InstanceOf,
}

var logicalOps = map[string]op.Code{
	"&&": op.LogicalAnd,
	"||": op.LogicalOr,
	"??": op.Coalesce,
}

var unaryOps = map[string]op.Code{
	"-":    op.Neg,
	"+":    op.Pos,
	"!":    op.LogicalNot,
	"~":    op.BitNot,
	"void": op.Void,
}

// CompileExpr compiles an expression. With useResult set the value is left
// on the stack, otherwise it is discarded.
func (c *ByteCompiler) CompileExpr(expr ast.Expr, useResult bool) error {
	switch node := expr.(type) {
	case *ast.Null:
		c.emit(op.PushNull)
	case *ast.Bool:
		if node.Value {
			c.emit(op.PushTrue)
		} else {
			c.emit(op.PushFalse)
		}
	case *ast.Number:
		c.emitPushRational(node.Value)
	case *ast.String:
		c.emitPushLiteral(bytecode.StringLiteral(node.Value))
	case *ast.BigInt:
		c.emitPushLiteral(bytecode.BigIntLiteral(node.Digits))
	case *ast.RegExp:
		pattern := c.getOrInsertLiteral(bytecode.StringLiteral(node.Pattern))
		flags := c.getOrInsertLiteral(bytecode.StringLiteral(node.Flags))
		c.emit(op.PushRegExp, uint64(pattern), uint64(flags))
	case *ast.Template:
		return c.compileTemplate(node, useResult)
	case *ast.Array:
		if err := c.compileArray(node); err != nil {
			return err
		}
	case *ast.Object:
		if err := c.compileObject(node); err != nil {
			return err
		}
	case *ast.Ident, *ast.Member, *ast.Index, *ast.PrivateMember, *ast.This:
		a, _ := accessOf(expr)
		c.setPos(expr.Pos())
		return c.accessGet(a, useResult)
	case *ast.NewTarget:
		c.emit(op.NewTarget)
	case *ast.Super:
		return c.errorf(errors.E2007, node.SuperPos, "'super' keyword unexpected here")
	case *ast.Unary:
		return c.compileUnary(node, useResult)
	case *ast.Update:
		return c.compileUpdate(node, useResult)
	case *ast.Binary:
		return c.compileBinary(node, useResult)
	case *ast.Assign:
		return c.compileAssign(node, useResult)
	case *ast.Conditional:
		return c.compileConditional(node, useResult)
	case *ast.Sequence:
		for i, x := range node.List {
			if err := c.CompileExpr(x, useResult && i == len(node.List)-1); err != nil {
				return err
			}
		}
		return nil
	case *ast.Call:
		return c.compileCall(node, useResult)
	case *ast.New:
		return c.compileNew(node, useResult)
	case *ast.OptionalChain:
		return c.compileOptionalChain(node, useResult)
	case *ast.Func:
		if err := c.compileFunctionExpr(node, ""); err != nil {
			return err
		}
	case *ast.Class:
		if err := c.compileClass(node, ""); err != nil {
			return err
		}
	case *ast.Yield:
		return c.compileYield(node, useResult)
	case *ast.Await:
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		c.emitAwait()
	case *ast.Spread:
		return c.errorf(errors.E1003, node.Ellipsis, "unexpected spread element")
	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignPattern:
		return c.errorf(errors.E2010, expr.Pos(), "invalid destructuring assignment target")
	case *ast.PrivateName:
		return c.errorf(errors.E1003, node.NamePos, "unexpected private name #%s", node.Name)
	default:
		panic(fmt.Sprintf("compiler: unknown expression type %T", expr))
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

// compileNamedExpr compiles an expression that receives a name when it is
// an anonymous function or class, as in "const f = function() {}".
func (c *ByteCompiler) compileNamedExpr(expr ast.Expr, name string) error {
	switch node := expr.(type) {
	case *ast.Func:
		if node.Name == nil {
			return c.compileFunctionExpr(node, name)
		}
	case *ast.Class:
		if node.Name == nil {
			return c.compileClass(node, name)
		}
	}
	return c.CompileExpr(expr, true)
}

func (c *ByteCompiler) compileTemplate(node *ast.Template, useResult bool) error {
	if node.Tag != nil {
		return c.compileTaggedTemplate(node, useResult)
	}
	count := 0
	for i, q := range node.Quasis {
		if q.Cooked != "" {
			c.emitPushLiteral(bytecode.StringLiteral(q.Cooked))
			count++
		}
		if i < len(node.Exprs) {
			if err := c.CompileExpr(node.Exprs[i], true); err != nil {
				return err
			}
			count++
		}
	}
	if count == 0 {
		c.emitPushLiteral(bytecode.StringLiteral(""))
		count = 1
	}
	c.emitU32(op.ConcatToString, uint32(count))
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

// compileTaggedTemplate calls the tag with the template object followed by
// the substitutions. The template object is an array of cooked strings
// with a "raw" property holding the raw strings.
func (c *ByteCompiler) compileTaggedTemplate(node *ast.Template, useResult bool) error {
	if err := c.compileCallee(node.Tag); err != nil {
		return err
	}
	c.emit(op.PushNewArray)
	for _, q := range node.Quasis {
		if q.Valid {
			c.emitPushLiteral(bytecode.StringLiteral(q.Cooked))
		} else {
			c.emit(op.PushUndefined)
		}
		c.emit(op.PushValueToArray)
	}
	c.emit(op.PushNewArray)
	for _, q := range node.Quasis {
		c.emitPushLiteral(bytecode.StringLiteral(q.Raw))
		c.emit(op.PushValueToArray)
	}
	c.emitU32(op.DefineOwnPropertyByName, c.getOrInsertName("raw"))
	for _, x := range node.Exprs {
		if err := c.CompileExpr(x, true); err != nil {
			return err
		}
	}
	c.emitU32(op.Call, uint32(len(node.Exprs)+1))
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) compileArray(node *ast.Array) error {
	c.emit(op.PushNewArray)
	for _, item := range node.Items {
		switch item := item.(type) {
		case nil:
			c.emit(op.PushElisionToArray)
		case *ast.Spread:
			if err := c.CompileExpr(item.X, true); err != nil {
				return err
			}
			c.emit(op.InitIterator)
			c.emit(op.PushIteratorToArray)
		default:
			if err := c.CompileExpr(item, true); err != nil {
				return err
			}
			c.emit(op.PushValueToArray)
		}
	}
	return nil
}

// propertyKeyName returns the name of a non-computed property key.
func propertyKeyName(key ast.Expr) (string, bool) {
	switch k := key.(type) {
	case *ast.String:
		return k.Value, true
	case *ast.Ident:
		return k.Name, true
	case *ast.Number:
		return k.Literal, true
	}
	return "", false
}

func (c *ByteCompiler) compileObject(node *ast.Object) error {
	c.emit(op.PushEmptyObject)
	for _, prop := range node.Props {
		if prop.Kind == ast.PropertySpread {
			if err := c.CompileExpr(prop.Value, true); err != nil {
				return err
			}
			c.emitU32(op.CopyDataProperties, 0)
			continue
		}
		name, named := "", false
		if !prop.Computed {
			name, named = propertyKeyName(prop.Key)
		}
		if !named {
			if err := c.CompileExpr(prop.Key, true); err != nil {
				return err
			}
			c.emit(op.ToPropertyKey)
		}
		switch prop.Kind {
		case ast.PropertyInit:
			if named && name == "__proto__" && !prop.Shorthand {
				if err := c.CompileExpr(prop.Value, true); err != nil {
					return err
				}
				c.emit(op.SetPrototype)
				continue
			}
			if err := c.compileNamedExpr(prop.Value, name); err != nil {
				return err
			}
			c.emitByNameOrValue(named, name, op.DefineOwnPropertyByName, op.DefineOwnPropertyByValue)
		case ast.PropertyMethod:
			if err := c.compileMethod(prop.Value, name); err != nil {
				return err
			}
			c.emitByNameOrValue(named, name, op.DefineOwnPropertyByName, op.DefineOwnPropertyByValue)
		case ast.PropertyGet:
			if err := c.compileMethod(prop.Value, "get "+name); err != nil {
				return err
			}
			c.emitByNameOrValue(named, name, op.SetPropertyGetterByName, op.SetPropertyGetterByValue)
		case ast.PropertySet:
			if err := c.compileMethod(prop.Value, "set "+name); err != nil {
				return err
			}
			c.emitByNameOrValue(named, name, op.SetPropertySetterByName, op.SetPropertySetterByValue)
		}
	}
	return nil
}

func (c *ByteCompiler) emitByNameOrValue(named bool, name string, byName, byValue op.Code) {
	if named {
		c.emitU32(byName, c.getOrInsertName(name))
	} else {
		c.emit(byValue)
	}
}

func (c *ByteCompiler) compileUnary(node *ast.Unary, useResult bool) error {
	switch node.Op {
	case "typeof":
		if id, ok := node.X.(*ast.Ident); ok {
			c.emitU32(op.GetNameOrUndefined, c.getOrInsertBinding(c.arena.GetBindingValue(id.Name)))
		} else if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		c.emit(op.TypeOf)
	case "delete":
		if err := c.compileDelete(node); err != nil {
			return err
		}
	case "-":
		if n, ok := node.X.(*ast.Number); ok {
			c.emitPushRational(-n.Value)
			break
		}
		fallthrough
	default:
		code, ok := unaryOps[node.Op]
		if !ok {
			return c.errorf(errors.E1003, node.OpPos, "unsupported unary operator %q", node.Op)
		}
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		c.emit(code)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) compileDelete(node *ast.Unary) error {
	if oc, ok := node.X.(*ast.OptionalChain); ok {
		if a, ok := accessOf(oc.X); ok && (a.kind == accessByName || a.kind == accessByValue) {
			return c.compileOptionalDelete(a)
		}
	}
	a, ok := accessOf(node.X)
	if !ok || a.kind == accessThis || a.kind == accessPrivate || isOptional(node.X) {
		if err := c.CompileExpr(node.X, false); err != nil {
			return err
		}
		c.emit(op.PushTrue)
		return nil
	}
	switch a.kind {
	case accessVariable:
		c.emitU32(op.DeleteName, c.getOrInsertBinding(c.arena.GetBindingValue(a.name)))
	case accessByName:
		if err := c.CompileExpr(a.object, true); err != nil {
			return err
		}
		c.emitU32(op.DeletePropertyByName, c.getOrInsertName(a.name))
	case accessByValue:
		if err := c.CompileExpr(a.object, true); err != nil {
			return err
		}
		if err := c.CompileExpr(a.key, true); err != nil {
			return err
		}
		c.emit(op.DeletePropertyByValue)
	default:
		// super references are evaluated but never deleted
		if err := c.accessGet(a, false); err != nil {
			return err
		}
		c.emit(op.PushTrue)
	}
	return nil
}

// compileOptionalDelete deletes the property at the end of an optional
// chain. A short circuit anywhere in the chain produces true.
func (c *ByteCompiler) compileOptionalDelete(a *access) error {
	saved := c.chain
	chain := &optionalChain{}
	c.chain = chain
	err := c.compileObjectOf(a)
	if err == nil && a.kind == accessByValue {
		err = c.CompileExpr(a.key, true)
	}
	c.chain = saved
	if err != nil {
		return err
	}
	if a.kind == accessByName {
		c.emitU32(op.DeletePropertyByName, c.getOrInsertName(a.name))
	} else {
		c.emit(op.DeletePropertyByValue)
	}
	if len(chain.exits[0]) > 0 || len(chain.exits[1]) > 0 {
		end := c.jump()
		if len(chain.exits[1]) > 0 {
			c.patchAll(chain.exits[1], c.nextOffset())
			c.emit(op.Pop)
		}
		c.patchAll(chain.exits[0], c.nextOffset())
		c.emit(op.PushTrue)
		c.patchHere(end)
	}
	return nil
}

func (c *ByteCompiler) compileUpdate(node *ast.Update, useResult bool) error {
	a, err := c.assignable(node.X)
	if err != nil {
		return err
	}
	code := op.Inc
	if node.Op == "--" {
		code = op.Dec
	}
	mode := storeDiscard
	switch {
	case useResult && node.Prefix:
		mode = storeKeepNew
	case useResult:
		mode = storeKeepOld
	}
	c.setPos(node.OpPos)
	return c.accessModify(a, mode, func() error {
		c.emit(code)
		return nil
	})
}

func (c *ByteCompiler) compileBinary(node *ast.Binary, useResult bool) error {
	if code, ok := logicalOps[node.Op]; ok {
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		end := c.emitJump(code)
		if err := c.CompileExpr(node.Y, true); err != nil {
			return err
		}
		c.patchHere(end)
		if !useResult {
			c.emit(op.Pop)
		}
		return nil
	}
	if pn, ok := node.X.(*ast.PrivateName); ok && node.Op == "in" {
		if err := c.CompileExpr(node.Y, true); err != nil {
			return err
		}
		c.emitU32(op.InPrivate, c.getOrInsertName(pn.Name))
	} else {
		code, ok := binaryOps[node.Op]
		if !ok {
			return c.errorf(errors.E1003, node.X.Pos(), "unsupported binary operator %q", node.Op)
		}
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
		if err := c.CompileExpr(node.Y, true); err != nil {
			return err
		}
		c.emit(code)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) compileAssign(node *ast.Assign, useResult bool) error {
	switch node.X.(type) {
	case *ast.ArrayPattern, *ast.ObjectPattern:
		if node.Op != "=" {
			return c.errorf(errors.E2011, node.X.Pos(), "invalid left-hand side in assignment")
		}
		if err := c.CompileExpr(node.Y, true); err != nil {
			return err
		}
		if useResult {
			c.emit(op.Dup)
		}
		return c.compilePattern(node.X, bindAssign)
	}
	a, err := c.assignable(node.X)
	if err != nil {
		return err
	}
	c.setPos(node.X.Pos())
	name := ""
	if a.kind == accessVariable {
		name = a.name
	}
	switch node.Op {
	case "=":
		return c.accessSet(a, resultMode(useResult), func() error {
			return c.compileNamedExpr(node.Y, name)
		})
	case "&&=", "||=", "??=":
		code := logicalOps[node.Op[:2]]
		return c.accessLogical(a, code, func() error {
			return c.compileNamedExpr(node.Y, name)
		}, useResult)
	}
	code, ok := binaryOps[node.Op[:len(node.Op)-1]]
	if !ok {
		return c.errorf(errors.E1003, node.X.Pos(), "unsupported assignment operator %q", node.Op)
	}
	return c.accessModify(a, resultMode(useResult), func() error {
		if err := c.CompileExpr(node.Y, true); err != nil {
			return err
		}
		c.emit(code)
		return nil
	})
}

func (c *ByteCompiler) compileConditional(node *ast.Conditional, useResult bool) error {
	if err := c.CompileExpr(node.Test, true); err != nil {
		return err
	}
	otherwise := c.emitJump(op.JumpIfFalse)
	if err := c.CompileExpr(node.Then, useResult); err != nil {
		return err
	}
	end := c.jump()
	c.patchHere(otherwise)
	if err := c.CompileExpr(node.Else, useResult); err != nil {
		return err
	}
	c.patchHere(end)
	return nil
}

func (c *ByteCompiler) compileYield(node *ast.Yield, useResult bool) error {
	if !c.ctx.generator {
		return c.errorf(errors.E1003, node.YieldPos, "yield is only valid in generator functions")
	}
	if node.X != nil {
		if err := c.CompileExpr(node.X, true); err != nil {
			return err
		}
	} else {
		c.emit(op.PushUndefined)
	}
	if node.Delegate {
		c.emit(op.InitIterator)
		c.emit(op.PushUndefined)
		loop := c.nextOffset()
		done := c.emitJump(op.GeneratorNextDelegate)
		c.emit(op.Yield)
		c.emitJumpTo(op.Jump, loop)
		c.patchHere(done)
		c.emit(op.RotateUp, 4)
		c.emit(op.Pop)
		c.emit(op.Pop)
		c.emit(op.Pop)
	} else {
		if c.ctx.async {
			c.emitAwait()
		}
		c.emit(op.Yield)
		c.emit(op.GeneratorNext)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) emitAwait() {
	c.emit(op.Await)
	c.emit(op.GeneratorNext)
}

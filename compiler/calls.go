package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/op"
)

// optionalChain collects the short circuit exits of one optional chain.
// Exits are grouped by the number of values the chain has pushed beyond
// its base depth at the point of the check: member links leave nothing,
// optional calls leave the receiver.
type optionalChain struct {
	exits [2][]Label
}

func (c *ByteCompiler) optionalLink(optional bool, extra int, node ast.Expr) error {
	if !optional {
		return nil
	}
	if c.chain == nil {
		return c.errorf(errors.E1003, node.Pos(), "optional link outside of an optional chain")
	}
	c.chain.exits[extra] = append(c.chain.exits[extra], c.emitJump(op.JumpIfNullOrUndefined))
	return nil
}

// compileOptionalChain compiles the chain and its landing pads. A short
// circuit discards what the chain pushed and produces undefined.
func (c *ByteCompiler) compileOptionalChain(node *ast.OptionalChain, useResult bool) error {
	saved := c.chain
	chain := &optionalChain{}
	c.chain = chain
	err := c.CompileExpr(node.X, true)
	c.chain = saved
	if err != nil {
		return err
	}
	if len(chain.exits[0]) > 0 || len(chain.exits[1]) > 0 {
		end := c.jump()
		if len(chain.exits[1]) > 0 {
			c.patchAll(chain.exits[1], c.nextOffset())
			c.emit(op.Pop)
		}
		c.patchAll(chain.exits[0], c.nextOffset())
		c.emit(op.PushUndefined)
		c.patchHere(end)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

// compileCallee pushes the receiver followed by the function.
func (c *ByteCompiler) compileCallee(fn ast.Expr) error {
	switch f := fn.(type) {
	case *ast.Member:
		if _, ok := f.X.(*ast.Super); ok {
			if err := c.checkSuperProperty(f); err != nil {
				return err
			}
			c.emit(op.This)
			c.emitU32(op.SuperGetPropertyByName, c.getOrInsertName(f.Name))
			return nil
		}
		if err := c.CompileExpr(f.X, true); err != nil {
			return err
		}
		if err := c.optionalLink(f.Optional, 0, f); err != nil {
			return err
		}
		c.emit(op.Dup)
		c.setPos(f.NamePos)
		c.emitU32(op.GetPropertyByName, c.getOrInsertName(f.Name))
	case *ast.Index:
		if _, ok := f.X.(*ast.Super); ok {
			if err := c.checkSuperProperty(f); err != nil {
				return err
			}
			c.emit(op.This)
			if err := c.CompileExpr(f.Index, true); err != nil {
				return err
			}
			c.emit(op.SuperGetPropertyByValue)
			return nil
		}
		if err := c.CompileExpr(f.X, true); err != nil {
			return err
		}
		if err := c.optionalLink(f.Optional, 0, f); err != nil {
			return err
		}
		c.emit(op.Dup)
		if err := c.CompileExpr(f.Index, true); err != nil {
			return err
		}
		c.emit(op.GetPropertyByValue)
	case *ast.PrivateMember:
		if err := c.CompileExpr(f.X, true); err != nil {
			return err
		}
		if err := c.optionalLink(f.Optional, 0, f); err != nil {
			return err
		}
		c.emit(op.Dup)
		c.emitU32(op.GetPrivateField, c.getOrInsertName(f.Name))
	default:
		c.emit(op.PushUndefined)
		if err := c.CompileExpr(fn, true); err != nil {
			return err
		}
	}
	return nil
}

// compileArguments pushes the arguments of a call. When an argument is
// spread, or there are more than MaxArgs of them, all arguments are
// collected into a single array and rest is set.
func (c *ByteCompiler) compileArguments(args []ast.Expr) (argc uint32, rest bool, err error) {
	for _, arg := range args {
		if _, ok := arg.(*ast.Spread); ok {
			rest = true
			break
		}
	}
	if !rest && len(args) <= MaxArgs {
		for _, arg := range args {
			if err := c.CompileExpr(arg, true); err != nil {
				return 0, false, err
			}
		}
		return uint32(len(args)), false, nil
	}
	c.emit(op.PushNewArray)
	for _, arg := range args {
		if s, ok := arg.(*ast.Spread); ok {
			if err := c.CompileExpr(s.X, true); err != nil {
				return 0, false, err
			}
			c.emit(op.InitIterator)
			c.emit(op.PushIteratorToArray)
			continue
		}
		if err := c.CompileExpr(arg, true); err != nil {
			return 0, false, err
		}
		c.emit(op.PushValueToArray)
	}
	return 1, true, nil
}

func (c *ByteCompiler) compileCall(node *ast.Call, useResult bool) error {
	if s, ok := node.Fn.(*ast.Super); ok {
		return c.compileSuperCall(s, node, useResult)
	}
	call, callRest := op.Call, op.CallWithRest
	if id, ok := node.Fn.(*ast.Ident); ok && id.Name == "eval" && !node.Optional {
		call, callRest = op.CallEval, op.CallEvalWithRest
	}
	if err := c.compileCallee(node.Fn); err != nil {
		return err
	}
	if err := c.optionalLink(node.Optional, 1, node); err != nil {
		return err
	}
	argc, rest, err := c.compileArguments(node.Args)
	if err != nil {
		return err
	}
	c.setPos(node.Pos())
	if rest {
		c.emitU32(callRest, argc)
	} else {
		c.emitU32(call, argc)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) compileNew(node *ast.New, useResult bool) error {
	if err := c.CompileExpr(node.Fn, true); err != nil {
		return err
	}
	argc, rest, err := c.compileArguments(node.Args)
	if err != nil {
		return err
	}
	c.setPos(node.NewPos)
	if rest {
		c.emitU32(op.NewWithRest, argc)
	} else {
		c.emitU32(op.New, argc)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

func (c *ByteCompiler) compileSuperCall(s *ast.Super, node *ast.Call, useResult bool) error {
	if !c.ctx.superCall {
		return c.errorf(errors.E2007, s.SuperPos, "'super' keyword unexpected here")
	}
	argc, rest, err := c.compileArguments(node.Args)
	if err != nil {
		return err
	}
	c.setPos(s.SuperPos)
	if rest {
		c.emitU32(op.SuperCallWithRest, argc)
	} else {
		c.emitU32(op.SuperCall, argc)
	}
	if !useResult {
		c.emit(op.Pop)
	}
	return nil
}

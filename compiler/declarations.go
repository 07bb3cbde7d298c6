package compiler

import (
	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/internal/token"
	"github.com/risor-io/escompile/op"
)

// lexicalDecl is a let, const, class or block-level function name.
type lexicalDecl struct {
	name     string
	constant bool
	pos      token.Position
}

// lexicalDecls returns the lexically scoped names declared directly in a
// statement list. Function declarations are lexical inside blocks and
// var-scoped at the top level of a function or script.
func lexicalDecls(stmts []ast.Stmt, functions bool) []lexicalDecl {
	var decls []lexicalDecl
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if s.Kind == ast.Var {
				continue
			}
			for _, b := range s.List {
				for _, name := range ast.BoundNames(b.Target) {
					decls = append(decls, lexicalDecl{name: name, constant: s.Kind == ast.Const, pos: s.DeclPos})
				}
			}
		case *ast.ClassDecl:
			if s.Class.Name != nil {
				decls = append(decls, lexicalDecl{name: s.Class.Name.Name, pos: s.Class.ClassPos})
			}
		case *ast.FuncDecl:
			if functions && s.Func.Name != nil {
				decls = append(decls, lexicalDecl{name: s.Func.Name.Name, pos: s.Func.FuncPos})
			}
		}
	}
	return decls
}

// varNames returns the var-scoped names declared anywhere in a statement
// list without descending into nested functions.
func varNames(stmts []ast.Stmt) []string {
	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var visit func(ast.Stmt)
	visitAll := func(list []ast.Stmt) {
		for _, s := range list {
			visit(s)
		}
	}
	visitDecl := func(s ast.Stmt) {
		if d, ok := s.(*ast.VarDecl); ok && d.Kind == ast.Var {
			for _, b := range d.List {
				for _, name := range ast.BoundNames(b.Target) {
					add(name)
				}
			}
		}
	}
	visit = func(stmt ast.Stmt) {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			visitDecl(s)
		case *ast.Block:
			if s != nil {
				visitAll(s.Body)
			}
		case *ast.If:
			visit(s.Then)
			if s.Else != nil {
				visit(s.Else)
			}
		case *ast.While:
			visit(s.Body)
		case *ast.DoWhile:
			visit(s.Body)
		case *ast.For:
			if s.Init != nil {
				visitDecl(s.Init)
			}
			visit(s.Body)
		case *ast.ForIn:
			visitDecl(s.Left)
			visit(s.Body)
		case *ast.ForOf:
			visitDecl(s.Left)
			visit(s.Body)
		case *ast.Labelled:
			visit(s.Body)
		case *ast.Try:
			visit(s.Body)
			if s.Catch != nil {
				visit(s.Catch)
			}
			if s.Finally != nil {
				visit(s.Finally)
			}
		case *ast.Switch:
			for _, cs := range s.Cases {
				visitAll(cs.Body)
			}
		case *ast.With:
			visit(s.Body)
		}
	}
	visitAll(stmts)
	return names
}

// functionDecls returns the function declarations directly in a statement
// list.
func functionDecls(stmts []ast.Stmt) []*ast.Func {
	var funcs []*ast.Func
	for _, stmt := range stmts {
		if fd, ok := stmt.(*ast.FuncDecl); ok {
			funcs = append(funcs, fd.Func)
		}
	}
	return funcs
}

// declareLexical creates bindings for lexical names in the current
// environment.
func (c *ByteCompiler) declareLexical(decls []lexicalDecl) error {
	for _, d := range decls {
		var ok bool
		if d.constant {
			ok = c.arena.CreateImmutableBinding(d.name)
		} else {
			ok = c.arena.CreateMutableBinding(d.name, false)
		}
		if !ok {
			return c.errorf(errors.E2001, d.pos, "identifier '%s' has already been declared", d.name)
		}
	}
	return nil
}

// hoistBlockFunctions initializes the function declarations of a block at
// block entry.
func (c *ByteCompiler) hoistBlockFunctions(stmts []ast.Stmt) error {
	for _, fn := range functionDecls(stmts) {
		if err := c.compileFunctionValue(fn, fn.Name.Name); err != nil {
			return err
		}
		c.emitBinding(op.DefInitLet, c.arena.InitializeMutableBinding(fn.Name.Name, false))
	}
	return nil
}

// compileScopedList compiles the statements of a block, opening a
// declarative environment if the block declares lexical names.
func (c *ByteCompiler) compileScopedList(stmts []ast.Stmt) error {
	decls := lexicalDecls(stmts, true)
	if len(decls) == 0 {
		return c.compileStmts(stmts)
	}
	env := c.pushDeclarativeEnv()
	if err := c.declareLexical(decls); err != nil {
		return err
	}
	if err := c.hoistBlockFunctions(stmts); err != nil {
		return err
	}
	if err := c.compileStmts(stmts); err != nil {
		return err
	}
	c.popEnv(env)
	return nil
}

func (c *ByteCompiler) compileStmts(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := c.CompileStmt(stmt, false); err != nil {
			return err
		}
	}
	return nil
}

// hoistVarScope declares the var-scoped names and the top-level functions
// of a script or function body, then declares its lexical names. Function
// values are created last so that their closures see every binding.
//
// outerParams is set when the body has its own var environment separate
// from the parameters. A var named like a parameter then starts out with
// the parameter's value.
func (c *ByteCompiler) hoistVarScope(body []ast.Stmt, outerParams map[string]bool) error {
	for _, name := range varNames(body) {
		if c.arena.HasFunctionScopedBinding(name) {
			continue
		}
		if outerParams[name] {
			param := c.arena.GetBindingValue(name)
			c.arena.CreateMutableBinding(name, true)
			c.emitBinding(op.GetName, param)
			c.emitBinding(op.DefInitVar, c.arena.InitializeMutableBinding(name, true))
			continue
		}
		c.arena.CreateMutableBinding(name, true)
		c.emitBinding(op.DefVar, c.arena.InitializeMutableBinding(name, true))
	}
	funcs := functionDecls(body)
	for _, fn := range funcs {
		c.arena.CreateMutableBinding(fn.Name.Name, true)
	}
	if err := c.declareLexical(lexicalDecls(body, false)); err != nil {
		return err
	}
	for _, fn := range funcs {
		if err := c.compileFunctionValue(fn, fn.Name.Name); err != nil {
			return err
		}
		c.emitBinding(op.DefInitVar, c.arena.InitializeMutableBinding(fn.Name.Name, true))
	}
	return nil
}

// compileScript compiles the top level of a script. The value of a final
// expression statement becomes the completion value.
func (c *ByteCompiler) compileScript(program *ast.Program) error {
	if c.ctx.strict {
		c.arena.SetStrict()
	}
	if err := c.hoistVarScope(program.Body, nil); err != nil {
		return err
	}
	for i, stmt := range program.Body {
		if es, ok := stmt.(*ast.ExprStmt); ok && i == len(program.Body)-1 {
			if err := c.CompileExpr(es.X, true); err != nil {
				return err
			}
			c.emit(op.Return)
			return nil
		}
		if err := c.CompileStmt(stmt, false); err != nil {
			return err
		}
	}
	c.emit(op.PushUndefined)
	c.emit(op.Return)
	return nil
}

func (c *ByteCompiler) compileVarDecl(node *ast.VarDecl) error {
	for _, b := range node.List {
		id, isIdent := b.Target.(*ast.Ident)
		if b.Init == nil {
			switch {
			case node.Kind == ast.Const:
				return c.errorf(errors.E1003, node.DeclPos, "missing initializer in const declaration")
			case !isIdent:
				return c.errorf(errors.E2010, b.Target.Pos(), "missing initializer in destructuring declaration")
			case node.Kind == ast.Let:
				c.emitBinding(op.DefLet, c.arena.InitializeMutableBinding(id.Name, false))
			}
			continue
		}
		name := ""
		if isIdent {
			name = id.Name
		}
		if err := c.compileNamedExpr(b.Init, name); err != nil {
			return err
		}
		c.setPos(b.Target.Pos())
		if err := c.compilePattern(b.Target, bindKindOf(node.Kind)); err != nil {
			return err
		}
	}
	return nil
}

func bindKindOf(kind ast.VarKind) bindKind {
	switch kind {
	case ast.Let:
		return bindLet
	case ast.Const:
		return bindConst
	}
	return bindVar
}

package parser

import (
	goast "github.com/dop251/goja/ast"
	gotoken "github.com/dop251/goja/token"

	"github.com/risor-io/escompile/ast"
)

func (p *Parser) stmt(s goast.Statement) ast.Stmt {
	ok := p.enter(s.Idx0())
	defer p.leave()
	if !ok {
		return &ast.Empty{Semicolon: p.pos(s.Idx0())}
	}
	switch s := s.(type) {
	case *goast.BlockStatement:
		return p.block(s)
	case *goast.EmptyStatement:
		return &ast.Empty{Semicolon: p.pos(s.Semicolon)}
	case *goast.ExpressionStatement:
		return &ast.ExprStmt{X: p.expr(s.Expression)}
	case *goast.VariableStatement:
		return &ast.VarDecl{DeclPos: p.pos(s.Var), Kind: ast.Var, List: p.bindings(s.List)}
	case *goast.LexicalDeclaration:
		return p.lexical(s)
	case *goast.FunctionDeclaration:
		return &ast.FuncDecl{Func: p.function(s.Function)}
	case *goast.ClassDeclaration:
		return &ast.ClassDecl{Class: p.class(s.Class)}
	case *goast.IfStatement:
		return &ast.If{
			IfPos: p.pos(s.If),
			Test:  p.expr(s.Test),
			Then:  p.stmt(s.Consequent),
			Else:  p.optStmt(s.Alternate),
		}
	case *goast.WhileStatement:
		return &ast.While{WhilePos: p.pos(s.While), Test: p.expr(s.Test), Body: p.stmt(s.Body)}
	case *goast.DoWhileStatement:
		return &ast.DoWhile{DoPos: p.pos(s.Do), Body: p.stmt(s.Body), Test: p.expr(s.Test)}
	case *goast.ForStatement:
		return &ast.For{
			ForPos: p.pos(s.For),
			Init:   p.forInit(s.Initializer),
			Test:   p.optExpr(s.Test),
			Update: p.optExpr(s.Update),
			Body:   p.stmt(s.Body),
		}
	case *goast.ForInStatement:
		return &ast.ForIn{
			ForPos: p.pos(s.For),
			Left:   p.forInto(s.Into),
			Right:  p.expr(s.Source),
			Body:   p.stmt(s.Body),
		}
	case *goast.ForOfStatement:
		return &ast.ForOf{
			ForPos: p.pos(s.For),
			Left:   p.forInto(s.Into),
			Right:  p.expr(s.Source),
			Body:   p.stmt(s.Body),
		}
	case *goast.LabelledStatement:
		return &ast.Labelled{Label: p.ident(s.Label), Body: p.stmt(s.Statement)}
	case *goast.BranchStatement:
		var label *ast.Ident
		if s.Label != nil {
			label = p.ident(s.Label)
		}
		if s.Token == gotoken.CONTINUE {
			return &ast.Continue{ContinuePos: p.pos(s.Idx), Label: label}
		}
		return &ast.Break{BreakPos: p.pos(s.Idx), Label: label}
	case *goast.ReturnStatement:
		return &ast.Return{ReturnPos: p.pos(s.Return), X: p.optExpr(s.Argument)}
	case *goast.ThrowStatement:
		return &ast.Throw{ThrowPos: p.pos(s.Throw), X: p.expr(s.Argument)}
	case *goast.TryStatement:
		return p.try(s)
	case *goast.SwitchStatement:
		out := &ast.Switch{SwitchPos: p.pos(s.Switch), Discriminant: p.expr(s.Discriminant)}
		for _, cs := range s.Body {
			out.Cases = append(out.Cases, &ast.Case{
				CasePos: p.pos(cs.Case),
				Test:    p.optExpr(cs.Test),
				Body:    p.stmts(cs.Consequent),
			})
		}
		return out
	case *goast.DebuggerStatement:
		return &ast.Debugger{DebuggerPos: p.pos(s.Debugger)}
	case *goast.WithStatement:
		return &ast.With{WithPos: p.pos(s.With), Object: p.expr(s.Object), Body: p.stmt(s.Body)}
	case *goast.BadStatement:
		p.errorf(s.From, "invalid statement")
		return &ast.Empty{Semicolon: p.pos(s.From)}
	}
	p.errorf(s.Idx0(), "unsupported statement %T", s)
	return &ast.Empty{Semicolon: p.pos(s.Idx0())}
}

func (p *Parser) optStmt(s goast.Statement) ast.Stmt {
	if s == nil {
		return nil
	}
	return p.stmt(s)
}

func (p *Parser) stmts(list []goast.Statement) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(list))
	for _, s := range list {
		out = append(out, p.stmt(s))
	}
	return out
}

func (p *Parser) block(b *goast.BlockStatement) *ast.Block {
	if b == nil {
		return nil
	}
	return &ast.Block{Lbrace: p.pos(b.LeftBrace), Body: p.stmts(b.List)}
}

func (p *Parser) bindings(list []*goast.Binding) []*ast.Binding {
	out := make([]*ast.Binding, 0, len(list))
	for _, b := range list {
		out = append(out, &ast.Binding{Target: p.expr(b.Target), Init: p.optExpr(b.Initializer)})
	}
	return out
}

func (p *Parser) lexical(d *goast.LexicalDeclaration) *ast.VarDecl {
	kind := ast.Let
	if d.Token == gotoken.CONST {
		kind = ast.Const
	}
	return &ast.VarDecl{DeclPos: p.pos(d.Idx), Kind: kind, List: p.bindings(d.List)}
}

func (p *Parser) forInit(init goast.ForLoopInitializer) ast.Stmt {
	switch init := init.(type) {
	case nil:
		return nil
	case *goast.ForLoopInitializerExpression:
		return &ast.ExprStmt{X: p.expr(init.Expression)}
	case *goast.ForLoopInitializerVarDeclList:
		return &ast.VarDecl{DeclPos: p.pos(init.Var), Kind: ast.Var, List: p.bindings(init.List)}
	case *goast.ForLoopInitializerLexicalDecl:
		return p.lexical(&init.LexicalDeclaration)
	}
	p.errorf(0, "unsupported for loop initializer %T", init)
	return nil
}

// forInto lowers the left side of a for-in or for-of loop.
func (p *Parser) forInto(into goast.ForInto) ast.Stmt {
	switch into := into.(type) {
	case *goast.ForIntoVar:
		return &ast.VarDecl{
			DeclPos: p.pos(into.Binding.Target.Idx0()),
			Kind:    ast.Var,
			List:    p.bindings([]*goast.Binding{into.Binding}),
		}
	case *goast.ForDeclaration:
		kind := ast.Let
		if into.IsConst {
			kind = ast.Const
		}
		return &ast.VarDecl{
			DeclPos: p.pos(into.Idx),
			Kind:    kind,
			List:    []*ast.Binding{{Target: p.expr(into.Target)}},
		}
	case *goast.ForIntoExpression:
		return &ast.ExprStmt{X: p.expr(into.Expression)}
	}
	p.errorf(0, "unsupported for loop target %T", into)
	return &ast.Empty{}
}

func (p *Parser) try(s *goast.TryStatement) *ast.Try {
	out := &ast.Try{
		TryPos:  p.pos(s.Try),
		Body:    p.block(s.Body),
		Finally: p.block(s.Finally),
	}
	if s.Catch != nil {
		if s.Catch.Parameter != nil {
			out.Param = p.expr(s.Catch.Parameter)
		}
		out.Catch = p.block(s.Catch.Body)
	}
	return out
}

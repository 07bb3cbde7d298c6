package parser

import (
	goast "github.com/dop251/goja/ast"

	"github.com/risor-io/escompile/ast"
)

func (p *Parser) params(list *goast.ParameterList) *ast.Params {
	out := &ast.Params{}
	if list == nil {
		return out
	}
	out.List = p.bindings(list.List)
	if list.Rest != nil {
		out.Rest = p.patternElement(list.Rest)
	}
	return out
}

func (p *Parser) function(fn *goast.FunctionLiteral) *ast.Func {
	out := &ast.Func{
		FuncPos:   p.pos(fn.Function),
		Params:    p.params(fn.ParameterList),
		Async:     fn.Async,
		Generator: fn.Generator,
	}
	if fn.Name != nil {
		out.Name = p.ident(fn.Name)
	}
	if fn.Body != nil {
		out.Body = p.block(fn.Body)
		out.Strict = hasUseStrict(fn.Body.List)
	}
	return out
}

func (p *Parser) arrow(fn *goast.ArrowFunctionLiteral) *ast.Func {
	out := &ast.Func{
		FuncPos: p.pos(fn.Start),
		Params:  p.params(fn.ParameterList),
		Arrow:   true,
		Async:   fn.Async,
	}
	switch body := fn.Body.(type) {
	case *goast.BlockStatement:
		out.Body = p.block(body)
		out.Strict = hasUseStrict(body.List)
	case *goast.ExpressionBody:
		out.Expr = p.expr(body.Expression)
	default:
		p.errorf(fn.Start, "unsupported arrow function body %T", body)
		out.Body = &ast.Block{Lbrace: out.FuncPos}
	}
	return out
}

// class lowers a class literal. The constructor method is split out of the
// element list.
func (p *Parser) class(c *goast.ClassLiteral) *ast.Class {
	out := &ast.Class{ClassPos: p.pos(c.Class)}
	if c.Name != nil {
		out.Name = p.ident(c.Name)
	}
	if c.SuperClass != nil {
		out.Heritage = p.expr(c.SuperClass)
	}
	for _, el := range c.Body {
		switch el := el.(type) {
		case *goast.MethodDefinition:
			if isConstructor(el) {
				out.Ctor = p.function(el.Body)
				continue
			}
			kind := ast.ClassMethod
			switch el.Kind {
			case goast.PropertyKindGet:
				kind = ast.ClassGetter
			case goast.PropertyKindSet:
				kind = ast.ClassSetter
			}
			out.Elements = append(out.Elements, &ast.ClassElement{
				Kind:     kind,
				Static:   el.Static,
				Key:      p.classKey(el.Key, el.Computed),
				Computed: el.Computed,
				Func:     p.function(el.Body),
			})
		case *goast.FieldDefinition:
			out.Elements = append(out.Elements, &ast.ClassElement{
				Kind:     ast.ClassField,
				Static:   el.Static,
				Key:      p.classKey(el.Key, el.Computed),
				Computed: el.Computed,
				Value:    p.optExpr(el.Initializer),
			})
		case *goast.ClassStaticBlock:
			out.Elements = append(out.Elements, &ast.ClassElement{
				Kind:   ast.ClassStaticBlock,
				Static: true,
				Block:  p.block(el.Block),
			})
		default:
			p.errorf(el.Idx0(), "unsupported class element %T", el)
		}
	}
	return out
}

func (p *Parser) classKey(key goast.Expression, computed bool) ast.Expr {
	if id, ok := key.(*goast.PrivateIdentifier); ok {
		return &ast.PrivateName{NamePos: p.pos(id.Idx), Name: id.Name.String()}
	}
	return p.propertyKey(key, computed)
}

func isConstructor(m *goast.MethodDefinition) bool {
	if m.Static || m.Computed || m.Kind != goast.PropertyKindMethod {
		return false
	}
	switch k := m.Key.(type) {
	case *goast.StringLiteral:
		return k.Value == "constructor"
	case *goast.Identifier:
		return k.Name == "constructor"
	}
	return false
}

package parser

import (
	"math"
	"math/big"
	"strconv"

	goast "github.com/dop251/goja/ast"
	gotoken "github.com/dop251/goja/token"

	"github.com/risor-io/escompile/ast"
)

func (p *Parser) optExpr(e goast.Expression) ast.Expr {
	if e == nil {
		return nil
	}
	return p.expr(e)
}

func (p *Parser) ident(id *goast.Identifier) *ast.Ident {
	return &ast.Ident{NamePos: p.pos(id.Idx), Name: id.Name.String()}
}

func (p *Parser) expr(e goast.Expression) ast.Expr {
	ok := p.enter(e.Idx0())
	defer p.leave()
	if !ok {
		return &ast.Null{NullPos: p.pos(e.Idx0())}
	}
	switch e := e.(type) {
	case *goast.Identifier:
		return p.ident(e)
	case *goast.NullLiteral:
		return &ast.Null{NullPos: p.pos(e.Idx)}
	case *goast.BooleanLiteral:
		return &ast.Bool{ValuePos: p.pos(e.Idx), Value: e.Value}
	case *goast.NumberLiteral:
		return p.number(e)
	case *goast.StringLiteral:
		return &ast.String{ValuePos: p.pos(e.Idx), Value: e.Value.String()}
	case *goast.RegExpLiteral:
		return &ast.RegExp{ValuePos: p.pos(e.Idx), Pattern: e.Pattern, Flags: e.Flags}
	case *goast.TemplateLiteral:
		return p.template(e)
	case *goast.ArrayLiteral:
		out := &ast.Array{Lbrack: p.pos(e.LeftBracket)}
		for _, item := range e.Value {
			if item == nil {
				out.Items = append(out.Items, nil)
				continue
			}
			out.Items = append(out.Items, p.expr(item))
		}
		return out
	case *goast.ObjectLiteral:
		return p.object(e)
	case *goast.ArrayPattern:
		return p.arrayPattern(e)
	case *goast.ObjectPattern:
		return p.objectPattern(e)
	case *goast.SpreadElement:
		return &ast.Spread{Ellipsis: p.pos(e.Idx0()), X: p.expr(e.Expression)}
	case *goast.ThisExpression:
		return &ast.This{ThisPos: p.pos(e.Idx)}
	case *goast.SuperExpression:
		return &ast.Super{SuperPos: p.pos(e.Idx)}
	case *goast.MetaProperty:
		if e.Meta.Name == "new" && e.Property.Name == "target" {
			return &ast.NewTarget{NewPos: p.pos(e.Idx)}
		}
		p.errorf(e.Idx, "unsupported meta property %s.%s", e.Meta.Name, e.Property.Name)
	case *goast.PrivateIdentifier:
		return &ast.PrivateName{NamePos: p.pos(e.Idx), Name: e.Name.String()}
	case *goast.UnaryExpression:
		return p.unary(e)
	case *goast.BinaryExpression:
		return &ast.Binary{X: p.expr(e.Left), Op: e.Operator.String(), Y: p.expr(e.Right)}
	case *goast.AssignExpression:
		op := "="
		if e.Operator != gotoken.ASSIGN {
			op = e.Operator.String() + "="
		}
		return &ast.Assign{X: p.expr(e.Left), Op: op, Y: p.expr(e.Right)}
	case *goast.ConditionalExpression:
		return &ast.Conditional{
			Test: p.expr(e.Test),
			Then: p.expr(e.Consequent),
			Else: p.expr(e.Alternate),
		}
	case *goast.SequenceExpression:
		out := &ast.Sequence{}
		for _, x := range e.Sequence {
			out.List = append(out.List, p.expr(x))
		}
		return out
	case *goast.DotExpression:
		x, optional := p.chainLink(e.Left)
		return &ast.Member{
			X:        x,
			Name:     e.Identifier.Name.String(),
			NamePos:  p.pos(e.Identifier.Idx),
			Optional: optional,
		}
	case *goast.PrivateDotExpression:
		x, optional := p.chainLink(e.Left)
		return &ast.PrivateMember{X: x, Name: e.Identifier.Name.String(), Optional: optional}
	case *goast.BracketExpression:
		x, optional := p.chainLink(e.Left)
		return &ast.Index{X: x, Index: p.expr(e.Member), Optional: optional}
	case *goast.CallExpression:
		fn, optional := p.chainLink(e.Callee)
		return &ast.Call{Fn: fn, Args: p.args(e.ArgumentList), Optional: optional}
	case *goast.NewExpression:
		return &ast.New{NewPos: p.pos(e.New), Fn: p.expr(e.Callee), Args: p.args(e.ArgumentList)}
	case *goast.OptionalChain:
		return &ast.OptionalChain{X: p.expr(e.Expression)}
	case *goast.Optional:
		return p.expr(e.Expression)
	case *goast.FunctionLiteral:
		return p.function(e)
	case *goast.ArrowFunctionLiteral:
		return p.arrow(e)
	case *goast.ClassLiteral:
		return p.class(e)
	case *goast.YieldExpression:
		return &ast.Yield{YieldPos: p.pos(e.Yield), X: p.optExpr(e.Argument), Delegate: e.Delegate}
	case *goast.AwaitExpression:
		return &ast.Await{AwaitPos: p.pos(e.Await), X: p.expr(e.Argument)}
	case *goast.BadExpression:
		p.errorf(e.From, "invalid expression")
	default:
		p.errorf(e.Idx0(), "unsupported expression %T", e)
	}
	return &ast.Null{NullPos: p.pos(e.Idx0())}
}

// chainLink unwraps the object of a member access or call. goja marks the
// operand that precedes "?." by wrapping it in an Optional node.
func (p *Parser) chainLink(e goast.Expression) (ast.Expr, bool) {
	if opt, ok := e.(*goast.Optional); ok {
		return p.expr(opt.Expression), true
	}
	return p.expr(e), false
}

func (p *Parser) args(list []goast.Expression) []ast.Expr {
	out := make([]ast.Expr, 0, len(list))
	for _, a := range list {
		out = append(out, p.expr(a))
	}
	return out
}

func (p *Parser) number(e *goast.NumberLiteral) ast.Expr {
	pos := p.pos(e.Idx)
	switch v := e.Value.(type) {
	case int64:
		return &ast.Number{ValuePos: pos, Literal: e.Literal, Value: float64(v)}
	case float64:
		return &ast.Number{ValuePos: pos, Literal: e.Literal, Value: v}
	case *big.Int:
		return &ast.BigInt{ValuePos: pos, Digits: v.String()}
	}
	p.errorf(e.Idx, "invalid numeric literal %s", e.Literal)
	return &ast.Number{ValuePos: pos, Literal: e.Literal}
}

func (p *Parser) unary(e *goast.UnaryExpression) ast.Expr {
	switch e.Operator {
	case gotoken.INCREMENT, gotoken.DECREMENT:
		return &ast.Update{
			OpPos:  p.pos(e.Idx),
			Op:     e.Operator.String(),
			Prefix: !e.Postfix,
			X:      p.expr(e.Operand),
		}
	}
	return &ast.Unary{OpPos: p.pos(e.Idx), Op: e.Operator.String(), X: p.expr(e.Operand)}
}

func (p *Parser) template(e *goast.TemplateLiteral) *ast.Template {
	out := &ast.Template{Backtick: p.pos(e.OpenQuote), Tag: p.optExpr(e.Tag)}
	for _, el := range e.Elements {
		out.Quasis = append(out.Quasis, &ast.TemplateElement{
			Cooked: el.Parsed.String(),
			Raw:    el.Literal,
			Valid:  el.Valid,
		})
	}
	for _, x := range e.Expressions {
		out.Exprs = append(out.Exprs, p.expr(x))
	}
	return out
}

// propertyKey lowers the key of a property, method or class element.
// Non-computed numeric keys are canonicalized so that 0x10 and 16 name the
// same property.
func (p *Parser) propertyKey(key goast.Expression, computed bool) ast.Expr {
	if !computed {
		switch k := key.(type) {
		case *goast.Identifier:
			return &ast.String{ValuePos: p.pos(k.Idx), Value: k.Name.String()}
		case *goast.NumberLiteral:
			n := p.number(k)
			if num, ok := n.(*ast.Number); ok {
				num.Literal = canonicalNumber(num.Value)
			}
			return n
		}
	}
	return p.expr(key)
}

func canonicalNumber(v float64) string {
	if math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *Parser) object(e *goast.ObjectLiteral) *ast.Object {
	out := &ast.Object{Lbrace: p.pos(e.LeftBrace)}
	for _, prop := range e.Value {
		switch prop := prop.(type) {
		case *goast.PropertyShort:
			if prop.Initializer != nil {
				p.errorf(prop.Initializer.Idx0(), "invalid shorthand property initializer")
			}
			out.Props = append(out.Props, &ast.Property{
				Kind:      ast.PropertyInit,
				Key:       &ast.String{ValuePos: p.pos(prop.Name.Idx), Value: prop.Name.Name.String()},
				Shorthand: true,
				Value:     p.ident(&prop.Name),
			})
		case *goast.PropertyKeyed:
			kind := ast.PropertyInit
			switch prop.Kind {
			case goast.PropertyKindGet:
				kind = ast.PropertyGet
			case goast.PropertyKindSet:
				kind = ast.PropertySet
			case goast.PropertyKindMethod:
				kind = ast.PropertyMethod
			}
			out.Props = append(out.Props, &ast.Property{
				Kind:     kind,
				Key:      p.propertyKey(prop.Key, prop.Computed),
				Computed: prop.Computed,
				Value:    p.expr(prop.Value),
			})
		case *goast.SpreadElement:
			out.Props = append(out.Props, &ast.Property{
				Kind:  ast.PropertySpread,
				Value: p.expr(prop.Expression),
			})
		default:
			p.errorf(prop.Idx0(), "unsupported property %T", prop)
		}
	}
	return out
}

// patternElement lowers a pattern element. goja represents a default value
// as an assignment whose left side is the target.
func (p *Parser) patternElement(e goast.Expression) ast.Expr {
	if a, ok := e.(*goast.AssignExpression); ok && a.Operator == gotoken.ASSIGN {
		return &ast.AssignPattern{Target: p.expr(a.Left), Default: p.expr(a.Right)}
	}
	return p.expr(e)
}

func (p *Parser) arrayPattern(e *goast.ArrayPattern) *ast.ArrayPattern {
	out := &ast.ArrayPattern{Lbrack: p.pos(e.LeftBracket)}
	for _, el := range e.Elements {
		if el == nil {
			out.Elements = append(out.Elements, nil)
			continue
		}
		out.Elements = append(out.Elements, p.patternElement(el))
	}
	if e.Rest != nil {
		out.Rest = p.patternElement(e.Rest)
	}
	return out
}

func (p *Parser) objectPattern(e *goast.ObjectPattern) *ast.ObjectPattern {
	out := &ast.ObjectPattern{Lbrace: p.pos(e.LeftBrace)}
	for _, prop := range e.Properties {
		switch prop := prop.(type) {
		case *goast.PropertyShort:
			var target ast.Expr = p.ident(&prop.Name)
			if prop.Initializer != nil {
				target = &ast.AssignPattern{Target: target, Default: p.expr(prop.Initializer)}
			}
			out.Props = append(out.Props, &ast.PatternProperty{
				Key:   &ast.String{ValuePos: p.pos(prop.Name.Idx), Value: prop.Name.Name.String()},
				Value: target,
			})
		case *goast.PropertyKeyed:
			out.Props = append(out.Props, &ast.PatternProperty{
				Key:      p.propertyKey(prop.Key, prop.Computed),
				Computed: prop.Computed,
				Value:    p.patternElement(prop.Value),
			})
		default:
			p.errorf(prop.Idx0(), "unsupported pattern property %T", prop)
		}
	}
	if e.Rest != nil {
		out.Rest = p.patternElement(e.Rest)
	}
	return out
}

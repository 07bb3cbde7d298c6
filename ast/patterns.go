package ast

import "github.com/risor-io/escompile/internal/token"

// ArrayPattern is an array destructuring target. A nil element is an
// elision. Elements may be *AssignPattern for defaults.
type ArrayPattern struct {
	Lbrack   token.Position
	Elements []Expr
	Rest     Expr
}

func (x *ArrayPattern) exprNode()           {}
func (x *ArrayPattern) Pos() token.Position { return x.Lbrack }

// PatternProperty is one property of an object pattern. Non-computed keys
// are *String or *Number nodes.
type PatternProperty struct {
	Key      Expr
	Computed bool
	Value    Expr // target, possibly an *AssignPattern
}

// ObjectPattern is an object destructuring target.
type ObjectPattern struct {
	Lbrace token.Position
	Props  []*PatternProperty
	Rest   Expr
}

func (x *ObjectPattern) exprNode()           {}
func (x *ObjectPattern) Pos() token.Position { return x.Lbrace }

// AssignPattern is a destructuring target with a default value.
type AssignPattern struct {
	Target  Expr
	Default Expr
}

func (x *AssignPattern) exprNode()           {}
func (x *AssignPattern) Pos() token.Position { return x.Target.Pos() }

// BoundNames returns the names bound by a binding target, in source order.
func BoundNames(target Expr) []string {
	var names []string
	var collect func(Expr)
	collect = func(e Expr) {
		switch t := e.(type) {
		case *Ident:
			names = append(names, t.Name)
		case *AssignPattern:
			collect(t.Target)
		case *ArrayPattern:
			for _, el := range t.Elements {
				if el != nil {
					collect(el)
				}
			}
			if t.Rest != nil {
				collect(t.Rest)
			}
		case *ObjectPattern:
			for _, p := range t.Props {
				collect(p.Value)
			}
			if t.Rest != nil {
				collect(t.Rest)
			}
		}
	}
	collect(target)
	return names
}

package ast

import "github.com/risor-io/escompile/internal/token"

// Binding pairs a binding target with an optional initializer. It is used
// for variable declarations and formal parameters.
type Binding struct {
	Target Expr // *Ident, *ArrayPattern or *ObjectPattern
	Init   Expr
}

// Params is a formal parameter list.
type Params struct {
	List []*Binding
	Rest Expr // nil when there is no rest parameter
}

// Simple reports whether every parameter is a plain identifier without a
// default value and there is no rest parameter.
func (p *Params) Simple() bool {
	if p == nil {
		return true
	}
	if p.Rest != nil {
		return false
	}
	for _, b := range p.List {
		if b.Init != nil {
			return false
		}
		if _, ok := b.Target.(*Ident); !ok {
			return false
		}
	}
	return true
}

// Func is a function, arrow function or method.
type Func struct {
	FuncPos   token.Position
	Name      *Ident // nil for anonymous functions
	Params    *Params
	Body      *Block
	Expr      Expr // concise arrow body; Body is nil when set
	Arrow     bool
	Async     bool
	Generator bool
	Strict    bool // body begins with a "use strict" directive
}

func (x *Func) exprNode()           {}
func (x *Func) Pos() token.Position { return x.FuncPos }

// ClassElementKind distinguishes the members of a class body.
type ClassElementKind uint8

const (
	ClassMethod ClassElementKind = iota
	ClassGetter
	ClassSetter
	ClassField
	ClassStaticBlock
)

// ClassElement is one member of a class body. Private members have a
// *PrivateName key.
type ClassElement struct {
	Kind     ClassElementKind
	Static   bool
	Key      Expr
	Computed bool
	Func     *Func  // methods and accessors
	Value    Expr   // field initializer, may be nil
	Block    *Block // static block body
}

// Private reports whether the element has a private name.
func (e *ClassElement) Private() bool {
	_, ok := e.Key.(*PrivateName)
	return ok
}

// Class is a class expression or the class of a class declaration.
type Class struct {
	ClassPos token.Position
	Name     *Ident
	Heritage Expr  // extends clause, may be nil
	Ctor     *Func // explicit constructor, may be nil
	Elements []*ClassElement
}

func (x *Class) exprNode()           {}
func (x *Class) Pos() token.Position { return x.ClassPos }

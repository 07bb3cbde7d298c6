package ast

import "github.com/risor-io/escompile/internal/token"

// Null is the "null" literal.
type Null struct {
	NullPos token.Position
}

func (x *Null) exprNode()           {}
func (x *Null) Pos() token.Position { return x.NullPos }

// Bool is "true" or "false".
type Bool struct {
	ValuePos token.Position
	Value    bool
}

func (x *Bool) exprNode()           {}
func (x *Bool) Pos() token.Position { return x.ValuePos }

// Number is a numeric literal.
type Number struct {
	ValuePos token.Position
	Literal  string
	Value    float64
}

func (x *Number) exprNode()           {}
func (x *Number) Pos() token.Position { return x.ValuePos }

// BigInt is a bigint literal such as "10n".
type BigInt struct {
	ValuePos token.Position
	Digits   string // decimal digits without the "n" suffix
}

func (x *BigInt) exprNode()           {}
func (x *BigInt) Pos() token.Position { return x.ValuePos }

// String is a string literal.
type String struct {
	ValuePos token.Position
	Value    string
}

func (x *String) exprNode()           {}
func (x *String) Pos() token.Position { return x.ValuePos }

// RegExp is a regular expression literal.
type RegExp struct {
	ValuePos token.Position
	Pattern  string
	Flags    string
}

func (x *RegExp) exprNode()           {}
func (x *RegExp) Pos() token.Position { return x.ValuePos }

// TemplateElement is one literal chunk of a template.
type TemplateElement struct {
	Cooked string
	Raw    string
	// Valid is false when the chunk has an invalid escape. This is only
	// allowed in tagged templates, where the cooked value is undefined.
	Valid bool
}

// Template is a template literal, optionally tagged. It has exactly one
// more quasi than expressions.
type Template struct {
	Backtick token.Position
	Tag      Expr
	Quasis   []*TemplateElement
	Exprs    []Expr
}

func (x *Template) exprNode()           {}
func (x *Template) Pos() token.Position { return x.Backtick }

// Array is an array literal. A nil item is an elision.
type Array struct {
	Lbrack token.Position
	Items  []Expr // may contain nil and *Spread
}

func (x *Array) exprNode()           {}
func (x *Array) Pos() token.Position { return x.Lbrack }

// PropertyKind distinguishes the entries of an object literal.
type PropertyKind uint8

const (
	PropertyInit PropertyKind = iota
	PropertyGet
	PropertySet
	PropertyMethod
	PropertySpread
)

// Property is one entry of an object literal. Non-computed keys are
// *String or *Number nodes. For PropertySpread only Value is set.
type Property struct {
	Kind      PropertyKind
	Key       Expr
	Computed  bool
	Shorthand bool
	Value     Expr
}

// Object is an object literal.
type Object struct {
	Lbrace token.Position
	Props  []*Property
}

func (x *Object) exprNode()           {}
func (x *Object) Pos() token.Position { return x.Lbrace }

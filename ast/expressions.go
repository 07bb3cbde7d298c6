package ast

import "github.com/risor-io/escompile/internal/token"

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position
	Name    string
}

func (x *Ident) exprNode()           {}
func (x *Ident) Pos() token.Position { return x.NamePos }

// PrivateName is a "#name" reference. It appears as the left operand of
// "in" and as the key of private class elements.
type PrivateName struct {
	NamePos token.Position
	Name    string // without the leading "#"
}

func (x *PrivateName) exprNode()           {}
func (x *PrivateName) Pos() token.Position { return x.NamePos }

// This is the "this" keyword.
type This struct {
	ThisPos token.Position
}

func (x *This) exprNode()           {}
func (x *This) Pos() token.Position { return x.ThisPos }

// Super is the "super" keyword. It only appears as the callee of a Call or
// the object of a Member or Index expression.
type Super struct {
	SuperPos token.Position
}

func (x *Super) exprNode()           {}
func (x *Super) Pos() token.Position { return x.SuperPos }

// NewTarget is the "new.target" meta property.
type NewTarget struct {
	NewPos token.Position
}

func (x *NewTarget) exprNode()           {}
func (x *NewTarget) Pos() token.Position { return x.NewPos }

// Spread is "...x" in array literals, calls and object literals.
type Spread struct {
	Ellipsis token.Position
	X        Expr
}

func (x *Spread) exprNode()           {}
func (x *Spread) Pos() token.Position { return x.Ellipsis }

// Unary is a prefix operator expression: "!", "-", "+", "~", "typeof",
// "void" or "delete".
type Unary struct {
	OpPos token.Position
	Op    string
	X     Expr
}

func (x *Unary) exprNode()           {}
func (x *Unary) Pos() token.Position { return x.OpPos }

// Update is "++" or "--" in prefix or postfix position.
type Update struct {
	OpPos  token.Position
	Op     string // "++" or "--"
	Prefix bool
	X      Expr
}

func (x *Update) exprNode()           {}
func (x *Update) Pos() token.Position { return x.OpPos }

// Binary is an infix operator expression, including the short circuit
// operators "&&", "||" and "??".
type Binary struct {
	X  Expr
	Op string
	Y  Expr
}

func (x *Binary) exprNode()           {}
func (x *Binary) Pos() token.Position { return x.X.Pos() }

// Assign is an assignment. Op is "=" or a compound operator such as "+="
// or "??=". For "=" the target may be a pattern.
type Assign struct {
	X  Expr
	Op string
	Y  Expr
}

func (x *Assign) exprNode()           {}
func (x *Assign) Pos() token.Position { return x.X.Pos() }

// Conditional is "test ? then : else".
type Conditional struct {
	Test Expr
	Then Expr
	Else Expr
}

func (x *Conditional) exprNode()           {}
func (x *Conditional) Pos() token.Position { return x.Test.Pos() }

// Sequence is a comma separated list of expressions.
type Sequence struct {
	List []Expr
}

func (x *Sequence) exprNode()           {}
func (x *Sequence) Pos() token.Position { return x.List[0].Pos() }

// Member is "x.name". Optional is set for "x?.name".
type Member struct {
	X        Expr
	Name     string
	NamePos  token.Position
	Optional bool
}

func (x *Member) exprNode()           {}
func (x *Member) Pos() token.Position { return x.X.Pos() }

// Index is "x[index]". Optional is set for "x?.[index]".
type Index struct {
	X        Expr
	Index    Expr
	Optional bool
}

func (x *Index) exprNode()           {}
func (x *Index) Pos() token.Position { return x.X.Pos() }

// PrivateMember is "x.#name".
type PrivateMember struct {
	X        Expr
	Name     string // without the leading "#"
	Optional bool
}

func (x *PrivateMember) exprNode()           {}
func (x *PrivateMember) Pos() token.Position { return x.X.Pos() }

// Call is a function call. Optional is set for "f?.()".
type Call struct {
	Fn       Expr
	Args     []Expr // may contain *Spread
	Optional bool
}

func (x *Call) exprNode()           {}
func (x *Call) Pos() token.Position { return x.Fn.Pos() }

// New is "new Fn(args)".
type New struct {
	NewPos token.Position
	Fn     Expr
	Args   []Expr // may contain *Spread
}

func (x *New) exprNode()           {}
func (x *New) Pos() token.Position { return x.NewPos }

// OptionalChain delimits an optional chain: a nullish value at any
// optional link short circuits the whole chain to undefined.
type OptionalChain struct {
	X Expr
}

func (x *OptionalChain) exprNode()           {}
func (x *OptionalChain) Pos() token.Position { return x.X.Pos() }

// Yield is "yield x" or "yield* x".
type Yield struct {
	YieldPos token.Position
	X        Expr // nil for a bare yield
	Delegate bool
}

func (x *Yield) exprNode()           {}
func (x *Yield) Pos() token.Position { return x.YieldPos }

// Await is "await x".
type Await struct {
	AwaitPos token.Position
	X        Expr
}

func (x *Await) exprNode()           {}
func (x *Await) Pos() token.Position { return x.AwaitPos }

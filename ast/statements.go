package ast

import "github.com/risor-io/escompile/internal/token"

// Block is a braced statement list.
type Block struct {
	Lbrace token.Position
	Body   []Stmt
}

func (x *Block) stmtNode()           {}
func (x *Block) Pos() token.Position { return x.Lbrace }

// Empty is a lone semicolon.
type Empty struct {
	Semicolon token.Position
}

func (x *Empty) stmtNode()           {}
func (x *Empty) Pos() token.Position { return x.Semicolon }

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) stmtNode()           {}
func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }

// VarKind is the declaration keyword of a VarDecl.
type VarKind uint8

const (
	Var VarKind = iota
	Let
	Const
)

func (k VarKind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	}
	return "var"
}

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	DeclPos token.Position
	Kind    VarKind
	List    []*Binding
}

func (x *VarDecl) stmtNode()           {}
func (x *VarDecl) Pos() token.Position { return x.DeclPos }

// FuncDecl is a function declaration.
type FuncDecl struct {
	Func *Func
}

func (x *FuncDecl) stmtNode()           {}
func (x *FuncDecl) Pos() token.Position { return x.Func.Pos() }

// ClassDecl is a class declaration.
type ClassDecl struct {
	Class *Class
}

func (x *ClassDecl) stmtNode()           {}
func (x *ClassDecl) Pos() token.Position { return x.Class.Pos() }

// If is an if statement.
type If struct {
	IfPos token.Position
	Test  Expr
	Then  Stmt
	Else  Stmt
}

func (x *If) stmtNode()           {}
func (x *If) Pos() token.Position { return x.IfPos }

// While is a while loop.
type While struct {
	WhilePos token.Position
	Test     Expr
	Body     Stmt
}

func (x *While) stmtNode()           {}
func (x *While) Pos() token.Position { return x.WhilePos }

// DoWhile is a do-while loop.
type DoWhile struct {
	DoPos token.Position
	Body  Stmt
	Test  Expr
}

func (x *DoWhile) stmtNode()           {}
func (x *DoWhile) Pos() token.Position { return x.DoPos }

// For is a C-style for loop. Init is a *VarDecl, an *ExprStmt or nil.
type For struct {
	ForPos token.Position
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

func (x *For) stmtNode()           {}
func (x *For) Pos() token.Position { return x.ForPos }

// ForIn is a for-in loop. Left is a *VarDecl with one binding or an
// assignment target expression wrapped in an *ExprStmt.
type ForIn struct {
	ForPos token.Position
	Left   Stmt
	Right  Expr
	Body   Stmt
}

func (x *ForIn) stmtNode()           {}
func (x *ForIn) Pos() token.Position { return x.ForPos }

// ForOf is a for-of loop. Left has the same shape as in ForIn.
type ForOf struct {
	ForPos token.Position
	Left   Stmt
	Right  Expr
	Body   Stmt
}

func (x *ForOf) stmtNode()           {}
func (x *ForOf) Pos() token.Position { return x.ForPos }

// Labelled is "label: statement".
type Labelled struct {
	Label *Ident
	Body  Stmt
}

func (x *Labelled) stmtNode()           {}
func (x *Labelled) Pos() token.Position { return x.Label.Pos() }

// Break is a break statement with an optional label.
type Break struct {
	BreakPos token.Position
	Label    *Ident
}

func (x *Break) stmtNode()           {}
func (x *Break) Pos() token.Position { return x.BreakPos }

// Continue is a continue statement with an optional label.
type Continue struct {
	ContinuePos token.Position
	Label       *Ident
}

func (x *Continue) stmtNode()           {}
func (x *Continue) Pos() token.Position { return x.ContinuePos }

// Return is a return statement.
type Return struct {
	ReturnPos token.Position
	X         Expr
}

func (x *Return) stmtNode()           {}
func (x *Return) Pos() token.Position { return x.ReturnPos }

// Throw is a throw statement.
type Throw struct {
	ThrowPos token.Position
	X        Expr
}

func (x *Throw) stmtNode()           {}
func (x *Throw) Pos() token.Position { return x.ThrowPos }

// Try is a try statement. Catch or Finally may be nil but not both. Param
// is nil for "catch {".
type Try struct {
	TryPos  token.Position
	Body    *Block
	Param   Expr
	Catch   *Block
	Finally *Block
}

func (x *Try) stmtNode()           {}
func (x *Try) Pos() token.Position { return x.TryPos }

// Case is one clause of a switch. Test is nil for the default clause.
type Case struct {
	CasePos token.Position
	Test    Expr
	Body    []Stmt
}

// Switch is a switch statement.
type Switch struct {
	SwitchPos    token.Position
	Discriminant Expr
	Cases        []*Case
}

func (x *Switch) stmtNode()           {}
func (x *Switch) Pos() token.Position { return x.SwitchPos }

// Debugger is a debugger statement.
type Debugger struct {
	DebuggerPos token.Position
}

func (x *Debugger) stmtNode()           {}
func (x *Debugger) Pos() token.Position { return x.DebuggerPos }

// With is a with statement. The compiler rejects it.
type With struct {
	WithPos token.Position
	Object  Expr
	Body    Stmt
}

func (x *With) stmtNode()           {}
func (x *With) Pos() token.Position { return x.WithPos }

// Package ast defines the ECMAScript syntax tree consumed by the compiler.
//
// The tree is produced by the parser package, which lowers the output of a
// full ECMAScript parser into these node types. Every node carries the
// position of its first character. Destructuring patterns are expression
// nodes so that they can appear anywhere an assignment target can.
package ast

import "github.com/risor-io/escompile/internal/token"

// Node represents a portion of the syntax tree.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node, including destructuring patterns.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a parsed script.
type Program struct {
	File   string
	Body   []Stmt
	Strict bool // body begins with a "use strict" directive
}

func (p *Program) Pos() token.Position {
	if len(p.Body) > 0 {
		return p.Body[0].Pos()
	}
	return token.Position{File: p.File}
}

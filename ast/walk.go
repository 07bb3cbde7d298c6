package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the direct, non-nil children of a node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil && !isNilNode(n) {
				out = append(out, n)
			}
		}
	}
	addExprs := func(exprs []Expr) {
		for _, e := range exprs {
			if e != nil {
				add(e)
			}
		}
	}
	addStmts := func(stmts []Stmt) {
		for _, s := range stmts {
			add(s)
		}
	}
	addBindings := func(list []*Binding) {
		for _, b := range list {
			add(b.Target)
			if b.Init != nil {
				add(b.Init)
			}
		}
	}

	switch n := node.(type) {
	case *Program:
		addStmts(n.Body)

	// Statements
	case *Block:
		addStmts(n.Body)
	case *ExprStmt:
		add(n.X)
	case *VarDecl:
		addBindings(n.List)
	case *FuncDecl:
		add(n.Func)
	case *ClassDecl:
		add(n.Class)
	case *If:
		add(n.Test, n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *While:
		add(n.Test, n.Body)
	case *DoWhile:
		add(n.Body, n.Test)
	case *For:
		if n.Init != nil {
			add(n.Init)
		}
		if n.Test != nil {
			add(n.Test)
		}
		if n.Update != nil {
			add(n.Update)
		}
		add(n.Body)
	case *ForIn:
		add(n.Left, n.Right, n.Body)
	case *ForOf:
		add(n.Left, n.Right, n.Body)
	case *Labelled:
		add(n.Label, n.Body)
	case *Break:
		if n.Label != nil {
			add(n.Label)
		}
	case *Continue:
		if n.Label != nil {
			add(n.Label)
		}
	case *Return:
		if n.X != nil {
			add(n.X)
		}
	case *Throw:
		add(n.X)
	case *Try:
		add(n.Body)
		if n.Param != nil {
			add(n.Param)
		}
		if n.Catch != nil {
			add(n.Catch)
		}
		if n.Finally != nil {
			add(n.Finally)
		}
	case *Switch:
		add(n.Discriminant)
		for _, c := range n.Cases {
			if c.Test != nil {
				add(c.Test)
			}
			addStmts(c.Body)
		}
	case *With:
		add(n.Object, n.Body)

	// Expressions
	case *Spread:
		add(n.X)
	case *Unary:
		add(n.X)
	case *Update:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Assign:
		add(n.X, n.Y)
	case *Conditional:
		add(n.Test, n.Then, n.Else)
	case *Sequence:
		addExprs(n.List)
	case *Member:
		add(n.X)
	case *Index:
		add(n.X, n.Index)
	case *PrivateMember:
		add(n.X)
	case *Call:
		add(n.Fn)
		addExprs(n.Args)
	case *New:
		add(n.Fn)
		addExprs(n.Args)
	case *OptionalChain:
		add(n.X)
	case *Yield:
		if n.X != nil {
			add(n.X)
		}
	case *Await:
		add(n.X)
	case *Template:
		if n.Tag != nil {
			add(n.Tag)
		}
		addExprs(n.Exprs)
	case *Array:
		addExprs(n.Items)
	case *Object:
		for _, p := range n.Props {
			if p.Key != nil {
				add(p.Key)
			}
			add(p.Value)
		}
	case *Func:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Params != nil {
			addBindings(n.Params.List)
			if n.Params.Rest != nil {
				add(n.Params.Rest)
			}
		}
		if n.Body != nil {
			add(n.Body)
		}
		if n.Expr != nil {
			add(n.Expr)
		}
	case *Class:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Heritage != nil {
			add(n.Heritage)
		}
		if n.Ctor != nil {
			add(n.Ctor)
		}
		for _, el := range n.Elements {
			if el.Key != nil {
				add(el.Key)
			}
			if el.Func != nil {
				add(el.Func)
			}
			if el.Value != nil {
				add(el.Value)
			}
			if el.Block != nil {
				add(el.Block)
			}
		}
	case *ArrayPattern:
		addExprs(n.Elements)
		if n.Rest != nil {
			add(n.Rest)
		}
	case *ObjectPattern:
		for _, p := range n.Props {
			add(p.Key, p.Value)
		}
		if n.Rest != nil {
			add(n.Rest)
		}
	case *AssignPattern:
		add(n.Target, n.Default)
	}
	return out
}

// isNilNode reports whether n is an interface holding a nil pointer.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *Ident:
		return v == nil
	case *Func:
		return v == nil
	case *Class:
		return v == nil
	}
	return false
}

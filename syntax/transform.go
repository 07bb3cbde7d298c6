package syntax

import "github.com/risor-io/escompile/ast"

// Transformer modifies an AST before compilation.
// Transformers receive ownership of the AST and return a (possibly new) AST.
type Transformer interface {
	// Transform processes the AST and returns the result.
	// The returned AST may be the same instance (modified in place)
	// or a completely new AST.
	Transform(program *ast.Program) (*ast.Program, error)
}

// TransformerFunc is an adapter to use a function as a Transformer.
type TransformerFunc func(*ast.Program) (*ast.Program, error)

// Transform implements the Transformer interface.
func (f TransformerFunc) Transform(p *ast.Program) (*ast.Program, error) {
	return f(p)
}

// StripDebugger removes debugger statements from statement lists.
var StripDebugger = TransformerFunc(func(p *ast.Program) (*ast.Program, error) {
	for node := range ast.Preorder(p) {
		switch n := node.(type) {
		case *ast.Program:
			n.Body = withoutDebugger(n.Body)
		case *ast.Block:
			n.Body = withoutDebugger(n.Body)
		case *ast.Switch:
			for _, c := range n.Cases {
				c.Body = withoutDebugger(c.Body)
			}
		}
	}
	return p, nil
})

func withoutDebugger(stmts []ast.Stmt) []ast.Stmt {
	out := stmts[:0]
	for _, s := range stmts {
		if _, ok := s.(*ast.Debugger); !ok {
			out = append(out, s)
		}
	}
	return out
}

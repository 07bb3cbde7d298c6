package syntax

import "github.com/risor-io/escompile/ast"

// SyntaxValidator validates an AST against a SyntaxConfig.
type SyntaxValidator struct {
	config SyntaxConfig
}

// NewSyntaxValidator creates a validator for the given configuration.
func NewSyntaxValidator(config SyntaxConfig) *SyntaxValidator {
	return &SyntaxValidator{config: config}
}

// Validate checks the AST against the syntax configuration.
func (v *SyntaxValidator) Validate(program *ast.Program) []ValidationError {
	var errors []ValidationError
	for node := range ast.Preorder(program) {
		if feature, msg := v.check(node); msg != "" {
			errors = append(errors, ValidationError{
				Message:  msg,
				Feature:  feature,
				Node:     node,
				Position: node.Pos(),
			})
		}
	}
	return errors
}

// check returns the feature a node uses and a message when that feature is
// disallowed.
func (v *SyntaxValidator) check(node ast.Node) (string, string) {
	c := v.config
	switch n := node.(type) {
	case *ast.VarDecl:
		if c.DisallowVar && n.Kind == ast.Var {
			return "var", "var declarations are not allowed"
		}
	case *ast.Class:
		if c.DisallowClasses {
			return "classes", "classes are not allowed"
		}
	case *ast.Func:
		if c.DisallowGenerators && n.Generator {
			return "generators", "generators are not allowed"
		}
		if c.DisallowAsync && n.Async {
			return "async", "async functions are not allowed"
		}
	case *ast.Await:
		if c.DisallowAsync {
			return "async", "await is not allowed"
		}
	case *ast.ArrayPattern, *ast.ObjectPattern:
		if c.DisallowDestructuring {
			return "destructuring", "destructuring is not allowed"
		}
	case *ast.Labelled:
		if c.DisallowLabels {
			return "labels", "labelled statements are not allowed"
		}
	case *ast.Try, *ast.Throw:
		if c.DisallowTryCatch {
			return "try", "try/catch/throw is not allowed"
		}
	case *ast.Template:
		if c.DisallowTemplates {
			return "templates", "template literals are not allowed"
		}
	case *ast.Spread:
		if c.DisallowSpread {
			return "spread", "spread syntax is not allowed"
		}
	case *ast.Debugger:
		if c.DisallowDebugger {
			return "debugger", "debugger statements are not allowed"
		}
	}
	return "", ""
}

package bytecode

import "strings"

// Parameter describes one formal parameter of a function.
type Parameter struct {
	// Name is empty for destructuring patterns.
	Name       string
	HasDefault bool
	Pattern    bool
	Rest       bool
}

func (p Parameter) String() string {
	var sb strings.Builder
	if p.Rest {
		sb.WriteString("...")
	}
	switch {
	case p.Pattern:
		sb.WriteString("<pattern>")
	default:
		sb.WriteString(p.Name)
	}
	if p.HasDefault {
		sb.WriteString(" = <default>")
	}
	return sb.String()
}

// Signature renders the parameter list of a function block, for example
// "f(a, b = <default>, ...rest)".
func (c *CodeBlock) Signature() string {
	var sb strings.Builder
	sb.WriteString(c.name)
	sb.WriteString("(")
	for i, p := range c.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}

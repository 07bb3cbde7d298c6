package errors

// ErrorCode identifies a class of error reported while turning source text
// into bytecode. Codes are organized by category:
//   - E1xxx: Parse errors, reported by the parser front end
//   - E2xxx: Compile errors, early errors found while emitting bytecode
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Unterminated template or regexp

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Redeclared lexical binding
	E2002 ErrorCode = "E2002" // Assignment to constant
	E2003 ErrorCode = "E2003" // Invalid break statement
	E2004 ErrorCode = "E2004" // Invalid continue statement
	E2005 ErrorCode = "E2005" // Invalid return statement
	E2006 ErrorCode = "E2006" // Duplicate parameter name
	E2007 ErrorCode = "E2007" // Invalid super reference
	E2008 ErrorCode = "E2008" // Too many literals
	E2009 ErrorCode = "E2009" // Too many bindings
	E2010 ErrorCode = "E2010" // Invalid destructuring pattern
	E2011 ErrorCode = "E2011" // Invalid assignment target
	E2012 ErrorCode = "E2012" // Undeclared label
	E2013 ErrorCode = "E2013" // Unsupported syntax
	E2014 ErrorCode = "E2014" // Invalid rest element
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "unterminated literal",

	E2001: "redeclared binding",
	E2002: "assignment to constant",
	E2003: "invalid break statement",
	E2004: "invalid continue statement",
	E2005: "invalid return statement",
	E2006: "duplicate parameter name",
	E2007: "invalid super reference",
	E2008: "too many literals",
	E2009: "too many bindings",
	E2010: "invalid destructuring pattern",
	E2011: "invalid assignment target",
	E2012: "undeclared label",
	E2013: "unsupported syntax",
	E2014: "invalid rest element",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

func (c ErrorCode) String() string {
	return string(c)
}

// Category returns "parse" or "compile" based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	default:
		return "unknown"
	}
}

package syntax

import (
	"fmt"
	"strings"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/internal/token"
)

// ValidationError is a node that breaks a syntax restriction.
type ValidationError struct {
	Message  string
	Feature  string // feature name as accepted by ParseFeatures, if any
	Node     ast.Node
	Position token.Position
}

func (e *ValidationError) Error() string {
	pos := e.Position
	if pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", pos.File, pos.LineNumber(), pos.ColumnNumber(), e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", pos.LineNumber(), pos.ColumnNumber(), e.Message)
}

// CompileError converts the violation into an "unsupported syntax" compile
// error, quoting the offending line of source.
func (e *ValidationError) CompileError(filename, source string) *errors.CompileError {
	line := e.Position.LineNumber()
	ce := &errors.CompileError{
		Code:       errors.E2013,
		Message:    e.Message,
		Filename:   filename,
		Line:       line,
		Column:     e.Position.ColumnNumber(),
		SourceLine: sourceLine(source, line),
	}
	if e.Feature != "" {
		ce.Note = fmt.Sprintf("the %q feature is disabled", e.Feature)
	}
	return ce
}

// Join converts violations into compile errors combined with errors.Join.
// It returns nil when errs is empty.
func Join(errs []ValidationError, filename, source string) error {
	out := make([]*errors.CompileError, 0, len(errs))
	for i := range errs {
		out = append(out, errs[i].CompileError(filename, source))
	}
	return errors.Join(out)
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// Validator inspects an AST without modifying it and reports every
// violation found.
type Validator interface {
	Validate(program *ast.Program) []ValidationError
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(*ast.Program) []ValidationError

func (f ValidatorFunc) Validate(p *ast.Program) []ValidationError {
	return f(p)
}

package errors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// CompileError is a syntax or early error found before any code runs.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Code.Category() == "parse" {
		b.WriteString("syntax error: ")
	} else {
		b.WriteString("compile error: ")
	}
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString(" (")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d)", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage renders the error with its source line and hints.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      "error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.Code.Category() == "parse" {
		fe.Kind = "syntax error"
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// Join combines compile errors into a single error. It returns nil for an
// empty list and the error itself when there is exactly one.
func Join(errs []*CompileError) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	result.ErrorFormat = listFormat
	return result
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}

// All flattens err into the compile errors it carries. Errors that are not
// compile errors are skipped.
func All(err error) []*CompileError {
	if err == nil {
		return nil
	}
	var out []*CompileError
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			out = append(out, All(e)...)
		}
		return out
	}
	if ce, ok := err.(*CompileError); ok {
		return []*CompileError{ce}
	}
	return nil
}

// Friendly renders every compile error carried by err. Other errors are
// rendered with their Error method.
func Friendly(err error, useColor bool) string {
	errs := All(err)
	if len(errs) == 0 {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	formatted := make([]*FormattedError, 0, len(errs))
	for _, e := range errs {
		formatted = append(formatted, e.ToFormatted())
	}
	return NewFormatter(useColor).FormatMultiple(formatted)
}

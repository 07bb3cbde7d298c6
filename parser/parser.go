// Package parser produces the ast syntax tree for ECMAScript source text.
//
// Tokenizing and parsing are done by the goja parser. This package lowers
// goja's tree into ast nodes, attaching a line and column to every node,
// and reports goja's syntax errors as errors.CompileError values so that
// parse and compile errors are rendered the same way.
//
// Constructs that goja accepts but the ast package cannot represent are
// reported as E1003 errors. All errors found during lowering are collected
// and returned together.
package parser

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	goast "github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	goparser "github.com/dop251/goja/parser"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/errors"
	"github.com/risor-io/escompile/internal/token"
)

// DefaultMaxDepth is the default maximum nesting depth of the lowered tree.
const DefaultMaxDepth = 500

// Parse parses the provided input as an ECMAScript script and returns the
// lowered syntax tree.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	return New(input, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth of the lowered tree. This
// bounds the recursion of the lowering pass on pathological input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parser holds the state of one parse. A Parser is used once.
type Parser struct {
	ctx      context.Context
	src      string
	filename string
	file     *token.File
	lines    []string

	// base is the goja file.Idx of the first byte of the source
	base int

	depth    int
	maxDepth int

	errs []*errors.CompileError
}

// New returns a Parser for src.
func New(src string, options ...Option) *Parser {
	p := &Parser{
		src:      src,
		maxDepth: DefaultMaxDepth,
		base:     1,
	}
	for _, opt := range options {
		opt(p)
	}
	p.file = token.NewFile(p.filename, src)
	return p
}

// Parse parses the source and lowers it. The context is checked between
// top level statements.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prg, err := goparser.ParseFile(nil, p.filename, p.src, 0, goparser.WithDisableSourceMaps)
	if err != nil {
		return nil, p.convertError(err)
	}
	if prg.File != nil {
		p.base = prg.File.Base()
	}
	out := &ast.Program{
		File:   p.filename,
		Strict: hasUseStrict(prg.Body),
	}
	for _, s := range prg.Body {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.Body = append(out.Body, p.stmt(s))
	}
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs)
	}
	return out, nil
}

// pos converts a goja file index into a Position.
func (p *Parser) pos(idx file.Idx) token.Position {
	if idx <= 0 {
		return token.Position{File: p.filename}
	}
	return p.file.Position(int(idx) - p.base)
}

func (p *Parser) sourceLine(line int) string {
	if p.lines == nil {
		p.lines = strings.Split(p.src, "\n")
	}
	if line < 1 || line > len(p.lines) {
		return ""
	}
	return p.lines[line-1]
}

// errorf records an error at idx. Lowering continues so that every
// unsupported construct is reported.
func (p *Parser) errorf(idx file.Idx, format string, args ...any) {
	pos := p.pos(idx)
	p.errs = append(p.errs, &errors.CompileError{
		Code:       errors.E1003,
		Message:    fmt.Sprintf(format, args...),
		Filename:   p.filename,
		Line:       pos.LineNumber(),
		Column:     pos.ColumnNumber(),
		SourceLine: p.sourceLine(pos.LineNumber()),
	})
}

// enter guards the recursion depth. It returns false once the limit is
// reached; the caller must still call leave.
func (p *Parser) enter(idx file.Idx) bool {
	p.depth++
	if p.depth == p.maxDepth+1 {
		p.errorf(idx, "maximum nesting depth of %d exceeded", p.maxDepth)
	}
	return p.depth <= p.maxDepth
}

func (p *Parser) leave() {
	p.depth--
}

// convertError converts the errors reported by goja.
func (p *Parser) convertError(err error) error {
	var list goparser.ErrorList
	if stderrors.As(err, &list) {
		out := make([]*errors.CompileError, 0, len(list))
		for _, e := range list {
			out = append(out, p.syntaxError(e))
		}
		return errors.Join(out)
	}
	var single *goparser.Error
	if stderrors.As(err, &single) {
		return p.syntaxError(single)
	}
	return &errors.CompileError{
		Code:     errors.E1003,
		Message:  err.Error(),
		Filename: p.filename,
	}
}

func (p *Parser) syntaxError(e *goparser.Error) *errors.CompileError {
	return &errors.CompileError{
		Code:       classify(e.Message),
		Message:    e.Message,
		Filename:   p.filename,
		Line:       e.Position.Line,
		Column:     e.Position.Column,
		SourceLine: p.sourceLine(e.Position.Line),
	}
}

// classify maps a goja error message onto an error code.
func classify(msg string) errors.ErrorCode {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "unterminated string"),
		strings.Contains(lower, "invalid string"):
		return errors.E1002
	case strings.Contains(lower, "regular expression"),
		strings.Contains(lower, "unterminated template"):
		return errors.E1004
	case strings.HasPrefix(lower, "unexpected"):
		return errors.E1001
	}
	return errors.E1003
}

// hasUseStrict reports whether a directive prologue contains "use strict".
func hasUseStrict(body []goast.Statement) bool {
	for _, s := range body {
		es, ok := s.(*goast.ExpressionStatement)
		if !ok {
			return false
		}
		lit, ok := es.Expression.(*goast.StringLiteral)
		if !ok {
			return false
		}
		if lit.Literal == `"use strict"` || lit.Literal == `'use strict'` {
			return true
		}
	}
	return false
}

// Package escompile compiles ECMAScript source into register-free stack
// bytecode.
//
// Compile parses and compiles a script in one step:
//
//	program, err := escompile.Compile(ctx, `let x = 1 + 2; x`)
//	if err != nil {
//		for _, e := range errors.All(err) {
//			fmt.Println(e.FriendlyErrorMessage())
//		}
//		return
//	}
//	program.Disassemble(os.Stdout)
//
// The returned Program is immutable and safe for concurrent use.
package escompile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/risor-io/escompile/ast"
	"github.com/risor-io/escompile/compiler"
	"github.com/risor-io/escompile/parser"
	"github.com/risor-io/escompile/scope"
	"github.com/risor-io/escompile/syntax"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename string
	strict   bool
	verify   bool
	maxDepth int
	logger   *zerolog.Logger
	arena    *scope.Arena

	transformers []syntax.Transformer
	validators   []syntax.Validator
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.maxDepth))
	}
	return opts
}

func (o *options) compilerConfig(source string) *compiler.Config {
	return &compiler.Config{
		Filename: o.filename,
		Source:   source,
		Strict:   o.strict,
		Logger:   o.logger,
		Verify:   o.verify,
		Arena:    o.arena,
	}
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages and source locations.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithStrict compiles the script as strict mode code even without a
// "use strict" directive.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithVerify checks the generated bytecode against the stack contract of
// every opcode. Compile panics if the check fails.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}

// WithMaxDepth limits the nesting depth of the syntax tree.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets a logger that receives a debug event for every compiled
// unit.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithArena supplies the scope arena used to resolve identifiers. Sharing
// an arena between compilations lets later scripts see the global lexical
// declarations of earlier ones.
func WithArena(arena *scope.Arena) Option {
	return func(o *options) {
		o.arena = arena
	}
}

// WithTransformer adds a transformer that rewrites the syntax tree before
// it is validated and compiled. Transformers run in the order given.
func WithTransformer(t syntax.Transformer) Option {
	return func(o *options) {
		o.transformers = append(o.transformers, t)
	}
}

// WithValidator adds a validator run on the syntax tree after every
// transformer.
func WithValidator(v syntax.Validator) Option {
	return func(o *options) {
		o.validators = append(o.validators, v)
	}
}

// WithSyntax rejects scripts that use any feature the config disallows.
func WithSyntax(config syntax.SyntaxConfig) Option {
	return WithValidator(syntax.NewSyntaxValidator(config))
}

// Compile parses and compiles source code into bytecode. Parse errors are
// returned as an errors.Join of every syntax error, as are validation
// failures; compile errors are returned as a single *errors.CompileError.
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	if program, err = o.prepare(program, source); err != nil {
		return nil, err
	}
	code, err := compiler.Compile(program, o.compilerConfig(source))
	if err != nil {
		return nil, err
	}
	return newProgram(code, source, o.filename), nil
}

// CompileFile reads a script from fs and compiles it. The path is used as
// the filename unless WithFilename is given.
func CompileFile(ctx context.Context, fs afero.Fs, path string, opts ...Option) (*Program, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts = append([]Option{WithFilename(path)}, opts...)
	return Compile(ctx, string(data), opts...)
}

// prepare runs the transformers and validators over a parsed program.
func (o *options) prepare(program *ast.Program, source string) (*ast.Program, error) {
	for _, t := range o.transformers {
		var err error
		if program, err = t.Transform(program); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	var violations []syntax.ValidationError
	for _, v := range o.validators {
		violations = append(violations, v.Validate(program)...)
	}
	if len(violations) > 0 {
		return nil, syntax.Join(violations, o.filename, source)
	}
	return program, nil
}

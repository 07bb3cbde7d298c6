package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/risor-io/escompile"
	"github.com/risor-io/escompile/bytecode"
	eserrors "github.com/risor-io/escompile/errors"
)

// diagnostic is the structured form of one compile error.
type diagnostic struct {
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
}

type checkResult struct {
	File        string          `json:"file" yaml:"file"`
	OK          bool            `json:"ok" yaml:"ok"`
	Stats       *bytecode.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
	Diagnostics []diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	err error
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Compile scripts and report errors",
		Long: `Compile each script without printing its bytecode. Files are
compiled concurrently and every error found is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runCheck,
	}
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "number of files compiled at once")
	addOutputFlag(cmd)
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	opts, err := a.compileOptions()
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	results := a.checkFiles(cmd.Context(), args, jobs, opts)

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	if format == "text" {
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.OK {
				fmt.Fprintf(out, "%s %s (%d instructions, %d functions)\n",
					color.GreenString("ok  "), r.File, r.Stats.InstructionCount, r.Stats.FunctionCount)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", color.RedString("FAIL"), r.File)
			fmt.Fprint(cmd.ErrOrStderr(), eserrors.Friendly(r.err, !color.NoColor))
		}
	} else if err := writeStructured(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// checkFiles compiles paths using at most jobs goroutines. Results are
// returned in the order of paths.
func (a *app) checkFiles(ctx context.Context, paths []string, jobs int, opts []escompile.Option) []checkResult {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]checkResult, len(paths))
	sem := make(chan struct{}, jobs)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = a.checkFile(ctx, path, opts)
		}(i, path)
	}
	wg.Wait()
	return results
}

func (a *app) checkFile(ctx context.Context, path string, opts []escompile.Option) checkResult {
	result := checkResult{File: path}
	program, err := compileFile(ctx, a.fs, path, opts)
	if err != nil {
		result.err = err
		errs := eserrors.All(err)
		if len(errs) == 0 {
			result.Diagnostics = []diagnostic{{Message: err.Error()}}
		}
		for _, e := range errs {
			result.Diagnostics = append(result.Diagnostics, diagnostic{
				Code:    e.Code.String(),
				Message: e.Message,
				Line:    e.Line,
				Column:  e.Column,
			})
		}
		a.logger.Debug().Str("file", path).Int("errors", len(result.Diagnostics)).Msg("check failed")
		return result
	}
	stats := program.Stats()
	result.OK = true
	result.Stats = &stats
	return result
}

// compileFile reports a panic raised while compiling path, such as a
// failed --verify check, as an error for that file.
func compileFile(ctx context.Context, fs afero.Fs, path string, opts []escompile.Option) (program *escompile.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			program, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return escompile.CompileFile(ctx, fs, path, opts...)
}

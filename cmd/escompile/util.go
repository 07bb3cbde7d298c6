package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	eserrors "github.com/risor-io/escompile/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(err error) {
	msg := eserrors.Friendly(err, !color.NoColor)
	if len(eserrors.All(err)) == 0 {
		msg = red(msg)
	}
	fmt.Fprintln(os.Stderr, strings.TrimRight(msg, "\n"))
	os.Exit(1)
}

// isPiped reports whether r is a file that is not attached to a terminal.
func isPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// readSource determines the code to compile. There are three possibilities:
//  1. --code <code>
//  2. --stdin, or input piped into the process
//  3. path as args[0]
//
// It returns the code and the filename to report it under.
func (a *app) readSource(cmd *cobra.Command, args []string) (string, string, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	fileProvided := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, fileProvided} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", "", errors.New("multiple input sources specified")
	}
	if count == 0 {
		if !isPiped(a.stdin) {
			return "", "", errors.New("no input provided")
		}
		stdinSet = true
	}

	switch {
	case stdinSet:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case fileProvided:
		data, err := afero.ReadFile(a.fs, args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "<code>", nil
}

var outputFormats = []string{"text", "json", "yaml"}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	format = strings.ToLower(format)
	if format == "" {
		return "text", nil
	}
	for _, f := range outputFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "text", "output format ("+strings.Join(outputFormats, ", ")+")")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// writeStructured writes v to w as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = marshalJSON(v)
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func marshalJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/risor-io/escompile"
	"github.com/risor-io/escompile/bytecode"
	"github.com/risor-io/escompile/dis"
)

// unitListing is the structured form of one disassembled unit.
type unitListing struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Kind         string            `json:"kind" yaml:"kind"`
	Strict       bool              `json:"strict" yaml:"strict"`
	Instructions []dis.Instruction `json:"instructions" yaml:"instructions"`
}

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble the bytecode of a script",
		Long: `Compile a script and print the bytecode of the script and every
function nested in it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runDis,
	}
	cmd.Flags().StringP("code", "c", "", "code to disassemble")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
	cmd.Flags().String("func", "", "disassemble only the named function, or the unit with this id")
	addOutputFlag(cmd)
	return cmd
}

func (a *app) runDis(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	code, filename, err := a.readSource(cmd, args)
	if err != nil {
		return err
	}
	opts, err := a.compileOptions()
	if err != nil {
		return err
	}
	opts = append(opts, escompile.WithFilename(filename))
	program, err := escompile.Compile(cmd.Context(), code, opts...)
	if err != nil {
		return err
	}

	target := program.Code()
	if funcName, _ := cmd.Flags().GetString("func"); funcName != "" {
		if target = findUnit(target, funcName); target == nil {
			return fmt.Errorf("function %q not found", funcName)
		}
	}

	if format == "text" {
		return dis.PrintAll(target, cmd.OutOrStdout())
	}
	var listings []unitListing
	for _, unit := range target.Flatten() {
		instructions, err := dis.Disassemble(unit)
		if err != nil {
			return fmt.Errorf("%s: %w", unit.ID(), err)
		}
		listings = append(listings, unitListing{
			ID:           unit.ID(),
			Name:         unit.Name(),
			Kind:         unit.Kind().String(),
			Strict:       unit.Strict(),
			Instructions: instructions,
		})
	}
	return writeStructured(cmd.OutOrStdout(), format, listings)
}

// findUnit returns the first unit whose id or name matches, searching
// depth-first.
func findUnit(root *bytecode.CodeBlock, name string) *bytecode.CodeBlock {
	units := root.Flatten()
	for _, unit := range units {
		if unit.ID() == name {
			return unit
		}
	}
	for _, unit := range units {
		if unit.Name() == name {
			return unit
		}
	}
	return nil
}

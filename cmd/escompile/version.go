package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "text" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "escompile %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
				return err
			}
			return writeStructured(cmd.OutOrStdout(), format, map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

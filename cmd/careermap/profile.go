package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/careermap/internal/profile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect analyzer profiles",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the built-in presets",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, name := range profile.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			},
		},
		&cobra.Command{
			Use:   "show [name|path]",
			Short: "Print the effective profile as YAML",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := "standard"
				if len(args) == 1 {
					name = args[0]
				}
				p, err := profile.Load(name)
				if err != nil {
					return err
				}
				data, err := p.YAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}

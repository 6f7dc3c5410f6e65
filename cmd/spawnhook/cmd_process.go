package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newProcessCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>...",
		Short: "Run the filter over files instead of stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				err = a.filter(f, cmd.OutOrStdout(), path)
				f.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

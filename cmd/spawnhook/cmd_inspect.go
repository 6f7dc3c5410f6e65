package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/command"
	"github.com/kingrea/spawnhook/internal/tui"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize the directives and phase groups in a command file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			plan := a.processor.Analyze(string(data))
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderPlan(args[0], command.Parse(data), plan, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "box width in columns (0 disables wrapping)")
	return cmd
}

package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/tui"
	"github.com/kingrea/spawnhook/internal/watch"
)

func newViewCmd(root *rootOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a command file's spawn plan in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			var opts []tui.ViewerOption
			if follow {
				changes, err := watch.File(ctx, args[0], watch.DefaultDebounce)
				if err != nil {
					return err
				}
				opts = append(opts, tui.WithChanges(changes))
			}
			viewer := tui.NewViewer(args[0], a.processor, opts...)
			p := tea.NewProgram(viewer, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return err
			}
			a.logger.Info("view %s: %s", args[0], viewer.Summary())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload when the file changes")
	return cmd
}

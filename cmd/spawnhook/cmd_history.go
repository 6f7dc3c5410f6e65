package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/logging"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent run log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			entries, total, err := logging.Tail(a.cfg.LogPath(), lines)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
					return nil
				}
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "showing %d of %d entries\n", len(entries), total)
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "number of entries to show")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/config"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .spawnhook/ with a default config in the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project := root.project
			if project == "" {
				var err error
				if project, err = os.Getwd(); err != nil {
					return fmt.Errorf("determine working directory: %w", err)
				}
			}
			if err := config.InitDir(project); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", filepath.Join(project, config.ProjectDirName))
			return nil
		},
	}
}

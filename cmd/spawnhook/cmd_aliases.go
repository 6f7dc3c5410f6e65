package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/spawnhook/internal/spawn"
)

func newAliasesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "List the effective alias to agent table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			effective := a.processor.Aliases()
			builtin := spawn.DefaultAliases()
			names := make([]string, 0, len(effective))
			for alias := range effective {
				names = append(names, alias)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, alias := range names {
				source := "builtin"
				if handler, ok := builtin[alias]; !ok || handler != effective[alias] {
					source = "config"
				}
				rows = append(rows, []string{alias, effective[alias], source})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))).
				Headers("ALIAS", "AGENT", "SOURCE").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
	cmd.AddCommand(newAliasSetCmd(root))
	return cmd
}

func newAliasSetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <@alias> <agent>",
		Short: "Add or override an alias in .spawnhook/config.yaml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.project, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			if !a.cfg.Initialized() {
				return fmt.Errorf("%s not found; run `spawnhook init` first", a.cfg.HookDir)
			}
			if err := a.cfg.SetAlias(args[0], args[1]); err != nil {
				return err
			}
			a.logger.Info("alias %s -> %s", args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

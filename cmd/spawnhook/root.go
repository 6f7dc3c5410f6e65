package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	project string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "spawnhook",
		Short: "Append agent spawn instructions to command files",
		Long: `spawnhook reads a command file on stdin, finds every
**Spawn @alias with mission:** block, groups them by their "## Phase N"
heading and writes the file back to stdout with an AUTO-SPAWNED AGENTS
section appended. Files without directives pass through unchanged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts.project, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.filter(cmd.InOrStdin(), cmd.OutOrStdout(), "stdin")
		},
	}
	root.PersistentFlags().StringVar(&opts.project, "project", "", "project directory holding .spawnhook/ (defaults to cwd)")
	root.AddCommand(
		newProcessCmd(opts),
		newInspectCmd(opts),
		newViewCmd(opts),
		newAliasesCmd(opts),
		newServeCmd(opts),
		newInitCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// filter reads all of in before processing: a mission fence may close
// anywhere in the document.
func (a *app) filter(in io.Reader, out io.Writer, source string) error {
	data, err := io.ReadAll(in)
	if err != nil {
		a.logger.Error("read %s: %v", source, err)
		return fmt.Errorf("read %s: %w", source, err)
	}
	content := string(data)
	plan := a.processor.Analyze(content)
	a.logger.Info("run=%s source=%s directives=%d groups=%d",
		uuid.NewString(), source, len(plan.Directives), len(plan.Groups))
	if _, err := io.WriteString(out, plan.Apply(content)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

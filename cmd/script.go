package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/sereni/internal/debrief"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Work with debrief dialogue scripts",
}

var scriptValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a debrief script is well formed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := debrief.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d nodes, starts at %q, ends at %q\n", args[0], len(s.Nodes), s.Start, s.Terminal)
		return nil
	},
}

func init() {
	scriptCmd.AddCommand(scriptValidateCmd)
}

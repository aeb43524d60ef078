package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/preview"
	"github.com/schemapad/schemapad/internal/ui"
)

var previewCmd = &cobra.Command{
	Use:   "preview <token>",
	Short: "Resolve a reference token to its preview label",
	Long: `Resolve an encoded reference token (doc:..., db:..., table:...,
col:...) against the workspace and print the label a tooltip would
show. Unresolvable tokens print a placeholder instead of failing.

Examples:
  spd preview col:1a2b3c4d:5e6f7a8b:9c0d1e2f
  spd preview doc:1a2b3c4d#getting-started`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		label := preview.NewResolver(ws.cache).Preview(context.Background(), args[0])
		if label == "" {
			fmt.Println(ui.Hint("(unresolvable token)"))
			return nil
		}
		fmt.Println(label)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/chooser"
	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the workspace for documents, headings, and schema elements",
	Long: `Search every referenceable entity in the workspace and print the
results grouped by kind.

With no query, everything is listed. Matching is a case-insensitive
substring check over names, headings, slugs, and document content.

Examples:
  spd search                  # list everything
  spd search user             # matches "User Guide", users table, ...
  spd search orders.total     # table.column labels match too`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		ctx := context.Background()

		var spinner *ui.Spinner
		if !localFlag {
			spinner = ui.NewSpinner("searching")
			spinner.Start()
		}
		tree, pickable, err := runQuery(ctx, ws, query)
		if err != nil {
			if spinner != nil {
				spinner.Stop()
			}
			return err
		}
		if len(tree.Sections) == 0 {
			if spinner != nil {
				spinner.StopWithMessage(ui.Hint("no matches"))
			} else {
				fmt.Println(ui.Hint("no matches"))
			}
			return nil
		}
		if spinner != nil {
			spinner.StopWithCheck(ui.Count(len(pickable), "result", "results"))
		}

		rendered, _ := ui.RenderTree(tree)
		fmt.Print(rendered)
		return nil
	},
}

// runQuery drives one synchronous search through the chooser state
// machine and returns the fully expanded view tree alongside the flat
// pick list.
func runQuery(ctx context.Context, ws *workspace, query string) (chooser.ViewTree, []model.Entity, error) {
	ch := chooser.New(ws.search, nil, ws.info(ctx))

	seq, q := ch.Open()
	if strings.TrimSpace(query) != "" {
		seq, q = ch.SetQuery(query)
	}
	ch.RunSearch(ctx, seq, q)

	// One-shot output: expand the sections the picker keeps collapsed.
	ch.Toggle(chooser.SectionDatabases)
	ch.Toggle(chooser.SectionSchema)

	tree := ch.Render()
	_, pickable := ui.RenderTree(tree)
	return tree, pickable, nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/ui"
)

var dbsCmd = &cobra.Command{
	Use:   "dbs",
	Short: "List the workspace's sketched databases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		snap := ws.cache.Schema(context.Background())
		if len(snap.Databases) == 0 {
			fmt.Println(ui.Hint("no databases"))
			return nil
		}

		ids := make([]string, 0, len(snap.Databases))
		for id := range snap.Databases {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a := strings.ToLower(snap.Databases[ids[i]].Name)
			b := strings.ToLower(snap.Databases[ids[j]].Name)
			if a != b {
				return a < b
			}
			return ids[i] < ids[j]
		})

		table := ui.NewTable(4)
		table.SetPadding(3)
		table.AddRow("NAME", "ID", "TABLES", "COLUMNS")
		for _, id := range ids {
			db := snap.Databases[id]
			columns := 0
			for _, t := range db.Tables {
				columns += len(t.Columns)
			}
			table.AddRow(db.Name, id, strconv.Itoa(len(db.Tables)), strconv.Itoa(columns))
		}
		fmt.Print(table.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbsCmd)
}

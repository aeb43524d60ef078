package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/chooser"
	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/reftoken"
	"github.com/schemapad/schemapad/internal/ui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactively pick an entity and print its reference token",
	Long: `Open the grouped entity picker. Type to filter, a number to pick the
matching row, or one of the commands below. The picked entity's
reference token is printed to stdout, ready to paste into a document.

Commands:
  <number>   pick that row
  :1 :2 :3   toggle a section (docs / databases / tables & columns)
  :q         quit without picking`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
			return errors.New("pick requires an interactive terminal; use 'spd search' for scripted output")
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		ctx := context.Background()

		var picked model.Entity
		ch := chooser.New(ws.search, func(e model.Entity) { picked = e }, ws.info(ctx))

		seq, query := ch.Open()
		ch.RunSearch(ctx, seq, query)

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		for picked == nil {
			tree := ch.Render()
			rendered, pickable := ui.RenderTree(tree)
			fmt.Print(rendered)

			input, err := line.Prompt("filter or #> ")
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
					ch.Close()
					return nil
				}
				return fmt.Errorf("reading input: %w", err)
			}

			input = strings.TrimSpace(input)
			switch input {
			case "":
				continue
			case ":q":
				ch.Close()
				return nil
			case ":1":
				ch.Toggle(chooser.SectionDocs)
				continue
			case ":2":
				ch.Toggle(chooser.SectionDatabases)
				continue
			case ":3":
				ch.Toggle(chooser.SectionSchema)
				continue
			}

			if n, err := strconv.Atoi(input); err == nil {
				if n < 1 || n > len(pickable) {
					fmt.Println(ui.Hint(fmt.Sprintf("no row %d", n)))
					continue
				}
				ch.Pick(pickable[n-1])
				continue
			}

			seq, query = ch.SetQuery(input)
			ch.RunSearch(ctx, seq, query)
		}

		token, ok := reftoken.FromEntity(picked)
		if !ok {
			return fmt.Errorf("picked entity has no token form")
		}
		fmt.Println(token.Encode())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

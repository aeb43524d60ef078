package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/preview"
	"github.com/schemapad/schemapad/internal/refindex"
	"github.com/schemapad/schemapad/internal/store"
	"github.com/schemapad/schemapad/internal/ui"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Work with workspace documents",
}

var docReadCmd = &cobra.Command{
	Use:   "read <doc-id>",
	Short: "Render a document to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docID := args[0]
		ctx := context.Background()

		doc, err := fetchDocument(ctx, docID)
		if err != nil {
			return err
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if path := ws.cache.ResolveDocPath(ctx, docID); path != "" {
			fmt.Println(ui.Hint(path))
		}

		rendered, err := ui.RenderMarkdown(doc.Content, ui.DocWidth())
		if err != nil {
			// Unrenderable markdown still reads fine raw.
			fmt.Print(doc.Content)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

var docAnnotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Add reference tooltips to an HTML fragment",
	Long: `Read a rendered HTML fragment (from a file, or stdin when no file is
given), resolve every data-ref attribute to its preview label, and
print the fragment with title attributes injected. Tokens that do not
resolve are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("read fragment: %w", err)
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		resolver := preview.NewResolver(ws.cache)
		fmt.Print(resolver.AnnotateHTML(context.Background(), string(data)))
		return nil
	},
}

// fetchDocument loads one document in the active mode.
func fetchDocument(ctx context.Context, docID string) (model.Document, error) {
	pin, err := resolvedPIN()
	if err != nil {
		return model.Document{}, err
	}

	if localFlag {
		dataDir, err := cfg.DataDir()
		if err != nil {
			return model.Document{}, err
		}
		st, err := store.New(dataDir)
		if err != nil {
			return model.Document{}, fmt.Errorf("open data directory: %w", err)
		}
		_, documents := st.LoadDocs(pin)
		doc, ok := documents[docID]
		if !ok {
			return model.Document{}, fmt.Errorf("document %s not found", docID)
		}
		return doc, nil
	}

	doc, err := refindex.NewClient(resolvedURL(), pin).FetchDocument(ctx, docID)
	if err != nil {
		return model.Document{}, fmt.Errorf("fetch document: %w", err)
	}
	return doc, nil
}

func init() {
	docCmd.AddCommand(docReadCmd)
	docCmd.AddCommand(docAnnotateCmd)
	rootCmd.AddCommand(docCmd)
}

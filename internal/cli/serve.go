package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/docindex"
	"github.com/schemapad/schemapad/internal/server"
	"github.com/schemapad/schemapad/internal/store"
	"github.com/schemapad/schemapad/internal/ui"
)

var serveListenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Schemapad workspace server",
	Long: `Run the Schemapad HTTP server.

Workspace state lives as one JSON file per PIN under the data directory.
Clients authenticate with the PIN cookie only; run this behind something
trusted.

Examples:
  spd serve                         # listen on the configured address
  spd serve --listen 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := cfg.DataDir()
		if err != nil {
			return err
		}
		st, err := store.New(dataDir)
		if err != nil {
			return fmt.Errorf("open data directory: %w", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// The content index is an optimization; serve without it rather
		// than refusing to start.
		var ix *docindex.Index
		if indexPath, err := cfg.DocIndexPath(); err == nil {
			ix, err = docindex.Open(indexPath)
			if err != nil {
				fmt.Println(ui.Warningf("content index unavailable, content search disabled: %v", err))
				ix = nil
			} else {
				defer ix.Close()
			}
		}

		listen := serveListenFlag
		if listen == "" {
			listen = cfg.ListenAddr()
		}

		fmt.Println(ui.Infof("schemapad serving %s on http://%s", dataDir, listen))
		srv := server.New(st, ix, logger)
		if err := http.ListenAndServe(listen, srv.Handler()); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListenFlag, "listen", "", "listen address (host:port)")
	rootCmd.AddCommand(serveCmd)
}

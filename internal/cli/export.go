package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/schemapad/schemapad/internal/store"
)

var exportFormatFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump a workspace's schema state",
	Long: `Print the PIN's sketched databases to stdout, for backup or for
feeding into other tools. Reads the local data directory.

Examples:
  spd export                  # JSON
  spd export --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := resolvedPIN()
		if err != nil {
			return err
		}
		dataDir, err := cfg.DataDir()
		if err != nil {
			return err
		}
		st, err := store.New(dataDir)
		if err != nil {
			return fmt.Errorf("open data directory: %w", err)
		}
		dbs := st.LoadSchemas(pin)

		switch exportFormatFlag {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(dbs); err != nil {
				return fmt.Errorf("encode schemas: %w", err)
			}
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			if err := enc.Encode(dbs); err != nil {
				return fmt.Errorf("encode schemas: %w", err)
			}
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", exportFormatFlag)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(exportCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/config"
	"github.com/schemapad/schemapad/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Schemapad configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.DefaultPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and write it back",
	Long: `Set a single configuration value and persist it.

Known keys:
  server.listen     host:port for spd serve
  server.data_dir   per-PIN data directory
  server.doc_index  SQLite document index path
  client.url        server base URL for client commands
  client.pin        workspace PIN
  ui.accent         accent color (ANSI 0-255 or #RRGGBB)`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := setConfigKey(cfg, key, value); err != nil {
			return err
		}

		var err error
		if configPathFlag != "" {
			err = config.SaveTo(configPathFlag, cfg)
		} else {
			err = config.Save(cfg)
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.Successf("%s = %s", key, value))
		return nil
	},
}

func setConfigKey(c *config.Config, key, value string) error {
	switch key {
	case "server.listen":
		c.Server.Listen = value
	case "server.data_dir":
		c.Server.DataDir = value
	case "server.doc_index":
		c.Server.DocIndex = value
	case "client.url":
		c.Client.URL = value
	case "client.pin":
		c.Client.PIN = value
	case "ui.accent":
		c.UI.Accent = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return err
		}
		fmt.Println(ui.Successf("config at %s", path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

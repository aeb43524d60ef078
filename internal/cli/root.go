// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/config"
	"github.com/schemapad/schemapad/internal/ui"
)

var (
	// Global flags
	configPathFlag string
	pinFlag        string
	serverURLFlag  string
	localFlag      bool

	// Resolved values
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spd",
	Short: "Schemapad - collaborative schema sketching and docs",
	Long: `Schemapad is a shared workspace for sketching database schemas and
writing freeform documents, with cross-references between the two.

A workspace is identified by a PIN. Run 'spd serve' to host one, then
point the client commands at it with --url and --pin (or set them in
the config file).`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFrom(configPathFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&pinFlag, "pin", "", "workspace PIN (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverURLFlag, "url", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&localFlag, "local", false, "read the local data directory instead of a server")
}

// resolvedPIN returns the workspace PIN from the flag or config.
func resolvedPIN() (string, error) {
	pin := pinFlag
	if pin == "" {
		pin = cfg.Client.PIN
	}
	if pin == "" {
		return "", fmt.Errorf("no PIN configured\n\nPass --pin or set [client] pin in %s", config.DefaultPath())
	}
	return pin, nil
}

// resolvedURL returns the server base URL from the flag or config.
func resolvedURL() string {
	if serverURLFlag != "" {
		return serverURLFlag
	}
	return cfg.ServerURL()
}

package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/internal/buildinfo"
)

const defaultModulePath = "github.com/schemapad/schemapad"

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show Schemapad version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modulePath := defaultModulePath
		version := "devel"
		goVersion := runtime.Version()
		commit := ""

		if info, ok := readBuildInfo(); ok && info != nil {
			if info.Main.Path != "" {
				modulePath = info.Main.Path
			}
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
			if info.GoVersion != "" {
				goVersion = info.GoVersion
			}
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
				}
			}
		}

		// Release builds inject these via ldflags.
		if version == "devel" && buildinfo.Version != "" {
			version = buildinfo.Version
		}
		if commit == "" && buildinfo.Commit != "" {
			commit = buildinfo.Commit
		}

		fmt.Printf("spd %s\n", version)
		fmt.Printf("module: %s\n", modulePath)
		if commit != "" {
			fmt.Printf("commit: %s\n", commit)
		}
		fmt.Printf("go: %s\n", strings.TrimPrefix(goVersion, "go version "))
		fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestExpectedCommandsRegistered(t *testing.T) {
	want := []string{
		"serve",
		"search",
		"pick",
		"preview",
		"dbs",
		"export",
		"doc read",
		"doc annotate",
		"config path",
		"config init",
		"config set",
		"version",
	}

	for _, path := range want {
		if _, ok := findCommandByPath(rootCmd, path); !ok {
			t.Errorf("command %q missing from CLI tree", path)
		}
	}
}

func TestGlobalFlagsRegistered(t *testing.T) {
	want := map[string]struct{}{
		"config": {},
		"pin":    {},
		"url":    {},
		"local":  {},
	}

	got := make(map[string]struct{})
	rootCmd.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		got[flag.Name] = struct{}{}
	})

	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("persistent flag %q not registered", name)
		}
	}
	for name := range got {
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected persistent flag %q; update test", name)
		}
	}
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	parts := strings.Fields(path)
	cur := root
	for _, part := range parts {
		var next *cobra.Command
		for _, child := range cur.Commands() {
			if child.Name() == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

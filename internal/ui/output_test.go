package ui

import (
	"strings"
	"testing"
)

func TestStatusSymbols(t *testing.T) {
	tests := []struct {
		name   string
		got    string
		symbol string
	}{
		{name: "success", got: Success("saved"), symbol: SymbolSuccess},
		{name: "error", got: Error("failed"), symbol: SymbolError},
		{name: "warning", got: Warning("degraded"), symbol: SymbolWarning},
		{name: "info", got: Info("listening"), symbol: SymbolInfo},
		{name: "warningf", got: Warningf("retry %d", 2), symbol: SymbolWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.got, tt.symbol+" ") {
				t.Fatalf("expected prefix %q, got %q", tt.symbol, tt.got)
			}
		})
	}
}

func TestCountPluralizes(t *testing.T) {
	if got := Count(1, "result", "results"); got != "(1 result)" {
		t.Fatalf("expected singular form, got %q", got)
	}
	if got := Count(3, "result", "results"); got != "(3 results)" {
		t.Fatalf("expected plural form, got %q", got)
	}
	if got := Count(0, "result", "results"); got != "(0 results)" {
		t.Fatalf("expected plural form for zero, got %q", got)
	}
}

func TestTablePadding(t *testing.T) {
	table := NewTable(2)
	table.SetPadding(3)
	table.AddRow("NAME", "ID")
	table.AddRow("Shop", "1a2b3c4d")

	lines := strings.Split(strings.TrimRight(table.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "NAME   ID" {
		t.Fatalf("expected 3-space padding, got %q", lines[0])
	}
	if lines[1] != "Shop   1a2b3c4d" {
		t.Fatalf("expected aligned row, got %q", lines[1])
	}
}

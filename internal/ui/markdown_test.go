package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# Heading", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected rendered markdown to end with newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected single trailing newline, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestMarkdownStyleMatchesTreeIdiom(t *testing.T) {
	style := markdownStyle()

	// Headings carry the tree renderer's section marker.
	if style.Heading.Prefix != MarkerCollapsed+" " {
		t.Fatalf("expected heading prefix %q, got %q", MarkerCollapsed+" ", style.Heading.Prefix)
	}
	if style.Heading.Bold == nil || !*style.Heading.Bold {
		t.Fatalf("expected headings to be bold")
	}
	if style.H1.Underline == nil || !*style.H1.Underline {
		t.Fatalf("expected H1 to be underlined")
	}
	if style.H6.Bold == nil || *style.H6.Bold {
		t.Fatalf("expected H6 to drop bold")
	}
	if style.Item.BlockPrefix != "· " {
		t.Fatalf("expected middle-dot bullets, got %q", style.Item.BlockPrefix)
	}
}

func TestMarkdownStyleAccentFollowsTheme(t *testing.T) {
	origAccent := Accent
	origAccentBold := AccentBold
	origAccentColor := accentColor
	t.Cleanup(func() {
		Accent = origAccent
		AccentBold = origAccentBold
		accentColor = origAccentColor
	})
	ConfigureTheme("39")

	style := markdownStyle()
	if style.Heading.Color == nil || *style.Heading.Color != "39" {
		t.Fatalf("expected heading color 39, got %v", style.Heading.Color)
	}
	if style.Link.Color == nil || *style.Link.Color != "39" {
		t.Fatalf("expected link color 39, got %v", style.Link.Color)
	}
}

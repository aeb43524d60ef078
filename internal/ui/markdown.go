package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

// RenderMarkdown renders a document body for terminal display using the
// Schemapad theme.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour adds trailing newlines; normalize to a single one.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// markdownStyle is the Schemapad document theme. Headings carry the same
// ▸ marker the grouped tree uses for its sections, quotes get a heavy
// gutter, and links take the configured accent.
func markdownStyle() ansi.StyleConfig {
	muted := stylePtr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = stylePtr(color)
	}

	cfg := ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockPrefix: "\n",
				BlockSuffix: "\n",
			},
			Margin: indentPtr(MarkdownRenderMargin),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Prefix:      "▸ ",
				Color:       accent,
				Bold:        flagPtr(true),
			},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  muted,
				Italic: flagPtr(true),
			},
			Indent:      indentPtr(1),
			IndentToken: stylePtr("┃ "),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "· ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ") ",
		},
		Task: ansi.StyleTask{
			Ticked:   "☑ ",
			Unticked: "☐ ",
		},
		Emph: ansi.StylePrimitive{
			Italic: flagPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: flagPtr(true),
		},
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: flagPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n· · ·\n",
		},
		Link: ansi.StylePrimitive{
			Color:     accent,
			Underline: flagPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: accent,
			Bold:  flagPtr(true),
		},
		Image: ansi.StylePrimitive{
			Underline: flagPtr(true),
		},
		ImageText: ansi.StylePrimitive{
			Color:  muted,
			Format: "[image: {{.text}}]",
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "`",
				Suffix: "`",
				Bold:   flagPtr(true),
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				Indent: indentPtr(1),
			},
		},
		Table: ansi.StyleTable{
			CenterSeparator: stylePtr("+"),
			ColumnSeparator: stylePtr("|"),
			RowSeparator:    stylePtr("-"),
		},
		DefinitionDescription: ansi.StylePrimitive{
			BlockPrefix: "\n: ",
		},
	}

	// Level markers: the deeper the heading, the quieter the row, the
	// same way nested tree rows fade next to their section header.
	cfg.H1 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Underline: flagPtr(true)}}
	cfg.H5 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Bold: flagPtr(false)}}
	cfg.H6 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Bold: flagPtr(false), Faint: flagPtr(true)}}

	return cfg
}

func flagPtr(v bool) *bool { return &v }

func stylePtr(v string) *string { return &v }

func indentPtr(v uint) *uint { return &v }

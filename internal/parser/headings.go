// Package parser extracts structure from document markdown. Only headings
// are interesting to Schemapad: they become referenceable entities and
// anchor targets for doc tokens.
package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/schemapad/schemapad/internal/slugs"
)

// Heading is one markdown heading found in a document.
type Heading struct {
	Level  int
	Text   string
	Line   int    // 1-indexed
	Anchor string // fragment anchor derived from the text
}

// ExtractHeadings parses markdown content with goldmark and returns its
// headings in document order. Empty headings are skipped.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	md := goldmark.New()
	reader := text.NewReader([]byte(content))
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(content)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var textBuilder strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				textBuilder.Write(textNode.Segment.Value([]byte(content)))
			}
		}

		headingText := strings.TrimSpace(textBuilder.String())
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		line := 1
		if heading.Lines().Len() > 0 {
			offset := heading.Lines().At(0).Start
			line = 1 + offsetToLine(lineStarts, offset)
		}

		headings = append(headings, Heading{
			Level:  heading.Level,
			Text:   headingText,
			Line:   line,
			Anchor: slugs.HeadingSlug(headingText),
		})

		return ast.WalkContinue, nil
	})

	return headings
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}

package ui

import (
	"fmt"
	"strings"

	"github.com/schemapad/schemapad/internal/chooser"
	"github.com/schemapad/schemapad/internal/model"
)

// Section toggle markers.
const (
	MarkerExpanded  = "▾"
	MarkerCollapsed = "▸"
)

// RenderTree draws a chooser view tree for the terminal. Every row in an
// expanded section gets a pick index; the returned slice maps index-1 to
// the row's entity so the caller can turn a typed number back into a
// pick. Collapsed sections render as a single header line.
func RenderTree(tree chooser.ViewTree) (string, []model.Entity) {
	if tree.Phase == chooser.Loading {
		return Hint("loading...") + "\n", nil
	}
	if len(tree.Sections) == 0 {
		return Hint("no matches") + "\n", nil
	}

	var sb strings.Builder
	var pickable []model.Entity

	for _, sec := range tree.Sections {
		marker := MarkerCollapsed
		if sec.Expanded {
			marker = MarkerExpanded
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			marker,
			Header(sec.Title),
			Muted.Render(fmt.Sprintf("(%d)", sec.Count)),
		))
		if !sec.Expanded {
			continue
		}
		for _, row := range sec.Rows {
			writeRow(&sb, row, 1, &pickable)
		}
	}
	return sb.String(), pickable
}

func writeRow(sb *strings.Builder, row chooser.Row, depth int, pickable *[]model.Entity) {
	*pickable = append(*pickable, row.Entity)

	label := row.Label
	if !row.Synthesized {
		label = EntityName(label)
	}
	line := fmt.Sprintf("%s[%d] %s",
		strings.Repeat("  ", depth), len(*pickable), label)
	if row.Detail != "" {
		line += " " + Muted.Render(row.Detail)
	}
	sb.WriteString(line + "\n")

	for _, child := range row.Children {
		writeRow(sb, child, depth+1, pickable)
	}
}

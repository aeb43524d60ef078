package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

const (
	// DefaultTermWidth is the fallback width when stdout is not a
	// terminal or size detection fails.
	DefaultTermWidth = 100

	// maxDocWidth caps the wrap width for rendered documents; prose
	// wrapped across a very wide terminal is hard to read.
	maxDocWidth = 110
)

// TermWidth returns the current terminal width or DefaultTermWidth.
func TermWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return DefaultTermWidth
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return DefaultTermWidth
}

// DocWidth returns the wrap width for rendered documents, leaving room
// for the markdown margin and clamping to the readability cap.
func DocWidth() int {
	w := TermWidth() - MarkdownRenderMargin
	if w > maxDocWidth {
		w = maxDocWidth
	}
	return w
}

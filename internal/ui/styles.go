package ui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA): Highlights, entity names, interactive rows
// - Muted (gray): Secondary info, paths, counts
// - No colored success/error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	// Accent style for entity names, reference tokens, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, document paths
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// accentColor holds the configured accent, empty when accent coloring is
// disabled. Defaults to the stock palette.
var accentColor = defaultAccent

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// normalizeAccentColor validates a user-supplied accent value. Accepts
// ANSI 256 codes ("39") and hex colors ("#7aa2f7", "#abc"); "none",
// "off", "default" and the empty string disable the accent.
func normalizeAccentColor(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}

	if hexColorRe.MatchString(s) {
		if len(s) == 4 {
			// Expand #abc to #aabbcc.
			s = "#" + strings.Repeat(string(s[1]), 2) +
				strings.Repeat(string(s[2]), 2) +
				strings.Repeat(string(s[3]), 2)
		}
		return s, true
	}
	return "", false
}

// ConfigureTheme applies the configured accent color to the shared
// styles. Invalid or disabled values fall back to uncolored accents.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the active accent color, ok=false when disabled.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

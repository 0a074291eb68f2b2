// Package format renders human-readable CLI output, styled when the
// destination is a terminal.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CLI style colors using lipgloss
var (
	// StatusOK styles success indicators
	StatusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // green

	// StatusError styles error indicators
	StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red

	// Muted styles secondary/less important text
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray

	// Bold styles emphasized text
	Bold = lipgloss.NewStyle().Bold(true)
)

// Symbols for status indicators
const (
	SymbolOK    = "✓"
	SymbolError = "✗"
	SymbolItem  = "•"
)

// Styler renders text with lipgloss styles, or as plain text when Color is false.
type Styler struct {
	Color bool
}

func (s Styler) render(style lipgloss.Style, text string) string {
	if !s.Color {
		return text
	}
	return style.Render(text)
}

// OK renders a success message with a green checkmark.
func (s Styler) OK(msg string) string {
	return s.render(StatusOK, SymbolOK) + " " + msg
}

// Error renders an error message with a red cross.
func (s Styler) Error(msg string) string {
	return s.render(StatusError, SymbolError) + " " + msg
}

// Label renders a dim label.
func (s Styler) Label(label string) string {
	return s.render(Muted, label)
}

// Violations renders a validation failure report: a header line naming the
// document and one bullet per violation.
func (s Styler) Violations(path string, violations []string) string {
	var b strings.Builder

	noun := "violations"
	if len(violations) == 1 {
		noun = "violation"
	}
	b.WriteString(s.Error(fmt.Sprintf("%s: %s", s.render(Bold, path), fmt.Sprintf("%d schema %s", len(violations), noun))))
	b.WriteString("\n")

	for _, v := range violations {
		b.WriteString("  ")
		b.WriteString(s.Label(SymbolItem))
		b.WriteString(" ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	return b.String()
}

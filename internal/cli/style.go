package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#A6E3A1")).Bold(true).Padding(0, 1)
)

// styles renders text with lipgloss when enabled and returns it unchanged
// otherwise, so piped output stays plain.
type styles struct {
	enabled bool
}

func newStyles(enabled bool) styles {
	return styles{enabled: enabled}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

func (s styles) header(text string) string { return s.render(headerStyle, text) }
func (s styles) title(text string) string  { return s.render(titleStyle, text) }
func (s styles) date(text string) string   { return s.render(dateStyle, text) }
func (s styles) muted(text string) string  { return s.render(mutedStyle, text) }

func (s styles) badge(text string) string {
	if !s.enabled {
		return "[" + text + "]"
	}
	return badgeStyle.Render(text)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

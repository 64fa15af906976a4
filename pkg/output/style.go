package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorEnabled reports whether styled output should be written to f
// Color requires a terminal, an unset NO_COLOR and a non-ASCII color profile
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// palette holds the styles used for tags and highlights
type palette struct {
	enabled bool

	title   lipgloss.Style
	keep    lipgloss.Style
	dupe    lipgloss.Style
	path    lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	count   lipgloss.Style
	size    lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
}

func newPalette(w io.Writer, enabled bool) palette {
	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return palette{
		enabled: enabled,
		title:   r.NewStyle().Bold(true),
		keep:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		dupe:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		path:    r.NewStyle().Foreground(lipgloss.Color("6")),
		header:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		label:   r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		count:   r.NewStyle().Foreground(lipgloss.Color("11")),
		size:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// render applies s only when color is enabled
func (p palette) render(s lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return s.Render(text)
}

package output

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

// Styles groups the styles used by the report. Without a TTY nothing is
// rendered and piped output stays plain text.
type Styles struct {
	enabled bool

	Title   lipgloss.Style
	Before  lipgloss.Style
	After   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns the palette, enabled only on a TTY.
func NewStyles(tty bool) Styles {
	return Styles{
		enabled: tty,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Before:  lipgloss.NewStyle().Foreground(ColorMuted),
		After:   lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// Paint renders text with st when styling is enabled.
func (s Styles) Paint(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

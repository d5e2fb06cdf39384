package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	gansi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// GlamourStyle returns a glamour style with zero margins so rendered prose
// lines up with the code boxes drawn next to it.
func GlamourStyle(dark bool) gansi.StyleConfig {
	style := styles.LightStyleConfig
	if dark {
		style = styles.DarkStyleConfig
	}
	zeroMargin := uint(0)
	style.Document.Margin = &zeroMargin
	style.CodeBlock.Margin = &zeroMargin
	style.Code.Prefix = ""
	style.Code.Suffix = ""
	return style
}

// DetectDark reports whether the terminal background is dark.
func DetectDark() bool {
	return termenv.HasDarkBackground()
}

// TerminalRenderer draws blocks for the TUI: prose through glamour, code in
// a themed lipgloss box.
type TerminalRenderer struct {
	Width   int
	Style   gansi.StyleConfig
	Profile termenv.Profile
}

// NewTerminalRenderer builds a renderer for the given width. The color
// profile is detected from stdout.
func NewTerminalRenderer(width int, dark bool) *TerminalRenderer {
	return &TerminalRenderer{
		Width:   width,
		Style:   GlamourStyle(dark),
		Profile: termenv.EnvColorProfile(),
	}
}

// Prose renders one prose block. Falls back to the raw lines if glamour
// fails.
func (r *TerminalRenderer) Prose(text string) string {
	g, err := glamour.NewTermRenderer(
		glamour.WithStyles(r.Style),
		glamour.WithWordWrap(r.wrapWidth()),
		glamour.WithPreservedNewLines(),
		glamour.WithColorProfile(r.Profile),
	)
	if err != nil {
		return r.truncate(text)
	}
	out, err := g.Render(text)
	if err != nil {
		return r.truncate(text)
	}
	return strings.Trim(out, "\n")
}

// Code renders a code body inside a box painted with theme.
func (r *TerminalRenderer) Code(text string, theme Theme) string {
	box := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Background)).
		Foreground(lipgloss.Color(theme.Foreground)).
		Padding(0, 1)
	if w := r.wrapWidth(); w > 0 {
		box = box.Width(w)
	}
	return box.Render(r.truncate(text))
}

// Block renders b with whichever of Prose or Code fits its kind.
func (r *TerminalRenderer) Block(b Block) string {
	if b.Kind == Code {
		return r.Code(b.Text, b.Theme)
	}
	return r.Prose(b.Text)
}

// Render lays out every block of text, separated by blank lines.
func (r *TerminalRenderer) Render(text string, editing bool) string {
	blocks := Blocks(text, editing, nil)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, r.Block(b))
	}
	return strings.Join(parts, "\n\n")
}

func (r *TerminalRenderer) wrapWidth() int {
	if r.Width <= 2 {
		return 0
	}
	return r.Width - 2
}

// truncate cuts each line to the box's inner width.
func (r *TerminalRenderer) truncate(text string) string {
	max := r.wrapWidth() - 2
	if max <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if runewidth.StringWidth(l) > max {
			lines[i] = runewidth.Truncate(l, max, "…")
		}
	}
	return strings.Join(lines, "\n")
}

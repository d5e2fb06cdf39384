package markdown

import (
	"fmt"
	"html"
	"strings"
)

// Theme is the color pair a code block is drawn with.
type Theme struct {
	Background string
	Foreground string
}

var (
	// ReadTheme is the dark palette for reviewing code.
	ReadTheme = Theme{Background: "#1a1a1a", Foreground: "#d4d4d4"}
	// EditTheme is the light palette used while a block is editable.
	EditTheme = Theme{Background: "#ffffff", Foreground: "#000000"}
)

// ChangeFunc receives the current text of an edited code block. endLine is
// the block's Segment.EndLine at the time the blocks were built.
type ChangeFunc func(endLine int, code string)

// Block is one renderable piece of a test case.
type Block struct {
	Kind    Kind
	Key     string
	Text    string
	Segment Segment

	// Code blocks only.
	Editable bool
	Theme    Theme
	OnChange func(code string)
}

// Blocks splits text into render-ready blocks in source order. In edit mode
// every code block gets the edit theme and, if onChange is non-nil, an
// OnChange hook bound to that block. Prose blocks never get a hook.
func Blocks(text string, editing bool, onChange ChangeFunc) []Block {
	segs := Lex(text)
	blocks := make([]Block, 0, len(segs))

	for _, seg := range segs {
		b := Block{
			Kind:    seg.Kind,
			Key:     seg.Key,
			Text:    seg.Text(),
			Segment: seg,
		}
		if seg.Kind == Code {
			b.Theme = ReadTheme
			if editing {
				b.Theme = EditTheme
				b.Editable = true
				if onChange != nil {
					end := seg.EndLine
					b.OnChange = func(code string) { onChange(end, code) }
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// BlockKey identifies a block across every test case on screen.
func BlockKey(testIndex int, b Block) string {
	return fmt.Sprintf("%d-%s", testIndex, b.Key)
}

// HTML renders the block as an HTML fragment. Prose lines are escaped and
// joined with <br/>. Code is escaped, and outside edit mode its newlines
// become <br/> too.
func (b Block) HTML() string {
	if b.Kind == Prose {
		return "<div>" + ProseHTML(b.Segment.Lines) + "</div>"
	}
	body := html.EscapeString(b.Text)
	if !b.Editable {
		body = strings.ReplaceAll(body, "\n", "<br/>")
	}
	return fmt.Sprintf(`<pre style="background-color:%s;color:%s"><code>%s</code></pre>`,
		b.Theme.Background, b.Theme.Foreground, body)
}

// ProseHTML escapes each line and joins them with <br/>.
func ProseHTML(lines []string) string {
	escaped := make([]string, len(lines))
	for i, l := range lines {
		escaped[i] = html.EscapeString(l)
	}
	return strings.Join(escaped, "<br/>")
}

// RenderHTML converts the whole text into one HTML fragment: prose lines
// end in <br/>, fences become <pre><code> with escaped content.
func RenderHTML(text string) string {
	var b strings.Builder
	for _, seg := range Lex(text) {
		if seg.Kind == Prose {
			for _, l := range seg.Lines {
				b.WriteString(html.EscapeString(l))
				b.WriteString("<br/>")
			}
			continue
		}
		b.WriteString("<pre><code>")
		for _, l := range seg.Lines {
			b.WriteString(html.EscapeString(l))
			b.WriteString("\n")
		}
		b.WriteString("</code></pre>")
	}
	return b.String()
}

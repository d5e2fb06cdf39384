package markdown

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestGlamourStyleZeroMargins(t *testing.T) {
	for _, dark := range []bool{true, false} {
		style := GlamourStyle(dark)
		if assert.NotNil(t, style.Document.Margin) {
			assert.Equal(t, uint(0), *style.Document.Margin)
		}
		if assert.NotNil(t, style.CodeBlock.Margin) {
			assert.Equal(t, uint(0), *style.CodeBlock.Margin)
		}
	}
}

func TestTerminalRendererTruncates(t *testing.T) {
	r := &TerminalRenderer{Width: 10, Style: GlamourStyle(true), Profile: termenv.Ascii}
	assert.Equal(t, "abcde…\nok", r.truncate("abcdefghij\nok"))
}

func TestTerminalRendererNoWidthKeepsText(t *testing.T) {
	r := &TerminalRenderer{Style: GlamourStyle(true), Profile: termenv.Ascii}
	assert.Equal(t, "abcdefghij", r.truncate("abcdefghij"))
}

func TestTerminalRendererRender(t *testing.T) {
	r := &TerminalRenderer{Width: 60, Style: GlamourStyle(true), Profile: termenv.Ascii}
	out := r.Render("Intro words\n```js\nit('works')\n```", false)
	assert.Contains(t, out, "Intro words")
	assert.Contains(t, out, "it('works')")
	assert.Less(t, strings.Index(out, "Intro"), strings.Index(out, "it('works')"))
}

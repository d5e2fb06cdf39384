package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexPureProse(t *testing.T) {
	segs := Lex("hello\nworld")
	require.Len(t, segs, 1)
	assert.Equal(t, Prose, segs[0].Kind)
	assert.Equal(t, "hello\nworld", segs[0].Text())
	assert.Equal(t, "last-text", segs[0].Key)
}

func TestLexProseCodeProse(t *testing.T) {
	segs := Lex("a\n```\nb\nc\n```\nd")
	require.Len(t, segs, 3)

	assert.Equal(t, Prose, segs[0].Kind)
	assert.Equal(t, "a", segs[0].Text())
	assert.Equal(t, "text-1", segs[0].Key)

	assert.Equal(t, Code, segs[1].Kind)
	assert.Equal(t, "b\nc", segs[1].Text())
	assert.Equal(t, "code-4", segs[1].Key)
	assert.True(t, segs[1].Closed)
	assert.Equal(t, 2, segs[1].StartLine)
	assert.Equal(t, 4, segs[1].EndLine)

	assert.Equal(t, Prose, segs[2].Kind)
	assert.Equal(t, "d", segs[2].Text())
	assert.Equal(t, "last-text", segs[2].Key)
}

func TestLexUnterminatedFence(t *testing.T) {
	segs := Lex("intro\n```js\nx()")
	require.Len(t, segs, 2)

	code := segs[1]
	assert.Equal(t, Code, code.Kind)
	assert.Equal(t, "last-code", code.Key)
	assert.Equal(t, "js", code.Lang)
	assert.False(t, code.Closed)
	assert.Equal(t, "x()", code.Text())
	assert.Equal(t, 3, code.EndLine)
}

func TestLexEmptyFenceStillEmits(t *testing.T) {
	segs := Lex("```\n```")
	require.Len(t, segs, 1)
	assert.Equal(t, Code, segs[0].Kind)
	assert.Equal(t, "", segs[0].Text())
	assert.Equal(t, "code-1", segs[0].Key)
}

func TestLexNormalizesEscapedNewlines(t *testing.T) {
	segs := Lex(`intro\n` + "```" + `\nit()\n` + "```")
	require.Len(t, segs, 2)
	assert.Equal(t, "intro", segs[0].Text())
	assert.Equal(t, "it()", segs[1].Text())
}

func TestLexIndentedFence(t *testing.T) {
	segs := Lex("  ```go\nx := 1\n  ```")
	require.Len(t, segs, 1)
	assert.Equal(t, "go", segs[0].Lang)
	assert.True(t, segs[0].Closed)
}

func TestLexInlineFindsMidLineFences(t *testing.T) {
	segs := LexInline("text ```js\ncode1\n``` more")
	require.Len(t, segs, 3)
	assert.Equal(t, Prose, segs[0].Kind)
	assert.Equal(t, "text ", segs[0].Text())
	assert.Equal(t, Code, segs[1].Kind)
	assert.Equal(t, "js", segs[1].Lang)
	assert.Equal(t, "code1\n", segs[1].Text())
	assert.Equal(t, " more", segs[2].Text())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "prose", Prose.String())
	assert.Equal(t, "code", Code.String())
}

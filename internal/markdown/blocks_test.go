package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "a\n```\nb\nc\n```\nd"

func TestBlocksReadMode(t *testing.T) {
	blocks := Blocks(sample, false, func(int, string) { t.Fatal("called") })
	require.Len(t, blocks, 3)

	code := blocks[1]
	assert.Equal(t, Code, code.Kind)
	assert.Equal(t, ReadTheme, code.Theme)
	assert.False(t, code.Editable)
	assert.Nil(t, code.OnChange)
}

func TestBlocksEditMode(t *testing.T) {
	var gotEnd int
	var gotCode string
	blocks := Blocks(sample, true, func(end int, code string) {
		gotEnd, gotCode = end, code
	})
	require.Len(t, blocks, 3)

	assert.Nil(t, blocks[0].OnChange)
	assert.Nil(t, blocks[2].OnChange)

	code := blocks[1]
	assert.Equal(t, EditTheme, code.Theme)
	assert.True(t, code.Editable)
	require.NotNil(t, code.OnChange)

	code.OnChange("q")
	assert.Equal(t, 4, gotEnd)
	assert.Equal(t, "q", gotCode)
}

func TestBlocksEditModeWithoutHook(t *testing.T) {
	blocks := Blocks(sample, true, nil)
	assert.True(t, blocks[1].Editable)
	assert.Nil(t, blocks[1].OnChange)
}

func TestBlockKey(t *testing.T) {
	blocks := Blocks(sample, false, nil)
	assert.Equal(t, "2-text-1", BlockKey(2, blocks[0]))
	assert.Equal(t, "2-code-4", BlockKey(2, blocks[1]))
	assert.Equal(t, "0-last-text", BlockKey(0, blocks[2]))
}

func TestBlockHTML(t *testing.T) {
	blocks := Blocks("<a>\nx\n```\n1<2\n3\n```", false, nil)
	require.Len(t, blocks, 2)
	assert.Equal(t, "<div>&lt;a&gt;<br/>x</div>", blocks[0].HTML())
	assert.Equal(t,
		`<pre style="background-color:#1a1a1a;color:#d4d4d4"><code>1&lt;2<br/>3</code></pre>`,
		blocks[1].HTML())

	edit := Blocks("```\n1\n2\n```", true, nil)
	assert.Equal(t,
		`<pre style="background-color:#ffffff;color:#000000"><code>1`+"\n"+`2</code></pre>`,
		edit[0].HTML())
}

func TestRenderHTML(t *testing.T) {
	got := RenderHTML("x\n```\n<b>\n```")
	assert.Equal(t, "x<br/><pre><code>&lt;b&gt;\n</code></pre>", got)
}

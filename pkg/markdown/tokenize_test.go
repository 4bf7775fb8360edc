package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeHTML(t *testing.T) {
	t.Run("partition has no gaps", func(t *testing.T) {
		inputs := []string{
			"plain text",
			"a <b>bold</b> c",
			`<img src="x>y.png"> tail`,
			"<!-- comment --> after",
			"<?pi data?> after",
			"broken < angle and <unclosed",
			"",
		}
		for _, in := range inputs {
			var b strings.Builder
			for _, tok := range tokenizeHTML(in) {
				b.WriteString(tok.value)
			}
			assert.Equal(t, in, b.String(), in)
		}
	})

	t.Run("kinds", func(t *testing.T) {
		toks := tokenizeHTML("a <em>b</em> c")
		require.Len(t, toks, 5)
		assert.Equal(t, tokenText, toks[0].kind)
		assert.Equal(t, tokenTag, toks[1].kind)
		assert.Equal(t, "<em>", toks[1].value)
		assert.Equal(t, tokenText, toks[2].kind)
		assert.Equal(t, "</em>", toks[3].value)
		assert.Equal(t, " c", toks[4].value)
	})

	t.Run("quoted gt stays inside the tag", func(t *testing.T) {
		toks := tokenizeHTML(`<a title="1 > 0">x</a>`)
		require.GreaterOrEqual(t, len(toks), 2)
		assert.Equal(t, tokenTag, toks[0].kind)
		assert.Equal(t, `<a title="1 > 0">`, toks[0].value)
	})

	t.Run("comment swallows tags", func(t *testing.T) {
		toks := tokenizeHTML("<!-- <div> -->")
		require.Len(t, toks, 1)
		assert.Equal(t, tokenTag, toks[0].kind)
	})

	t.Run("lone angle is text", func(t *testing.T) {
		toks := tokenizeHTML("1 < 2")
		require.Len(t, toks, 1)
		assert.Equal(t, tokenText, toks[0].kind)
	})
}

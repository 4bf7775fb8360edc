package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashHTMLBlocks(t *testing.T) {
	c := New(DefaultOptions())

	t.Run("div block is replaced by a placeholder", func(t *testing.T) {
		s := newSession(c)
		out := s.hashHTMLBlocks("<div>\nx\n</div>\n\npara\n")
		assert.NotContains(t, out, "<div>")
		assert.Contains(t, out, "para")
		require.Len(t, s.blocks, 1)
		for _, raw := range s.blocks {
			assert.Equal(t, "<div>\nx\n</div>", raw)
		}
	})

	t.Run("indented tag is not a block", func(t *testing.T) {
		s := newSession(c)
		in := " <div>\nx\n</div>\n"
		assert.Equal(t, in, s.hashHTMLBlocks(in))
	})

	t.Run("unknown tag is not a block", func(t *testing.T) {
		s := newSession(c)
		in := "<widget>\nx\n</widget>\n"
		assert.Equal(t, in, s.hashHTMLBlocks(in))
	})

	t.Run("comment needs a preceding blank line", func(t *testing.T) {
		s := newSession(c)
		in := "text\n<!-- c -->\n"
		assert.Equal(t, in, s.hashHTMLBlocks(in))

		out := s.hashHTMLBlocks("text\n\n<!-- c -->\n")
		assert.NotContains(t, out, "<!--")
	})

	t.Run("comment tolerates slight indentation", func(t *testing.T) {
		s := newSession(c)
		out := s.hashHTMLBlocks("a\n\n   <!-- c -->\n")
		assert.NotContains(t, out, "<!--")
	})

	t.Run("self closing hr", func(t *testing.T) {
		s := newSession(c)
		out := s.hashHTMLBlocks("a\n\n<hr />\n\nb\n")
		assert.NotContains(t, out, "<hr")
		assert.Contains(t, out, "a\n")
		assert.Contains(t, out, "b\n")
	})

	t.Run("same tag nesting within the bound", func(t *testing.T) {
		s := newSession(c)
		in := "<div>\n<div>\nx\n</div>\n</div>\n"
		out := s.hashHTMLBlocks(in)
		assert.NotContains(t, out, "<div>")
		for _, raw := range s.blocks {
			assert.Equal(t, strings.TrimRight(in, "\n"), raw)
		}
	})

	t.Run("nesting beyond the bound hashes the inner block", func(t *testing.T) {
		s := newSession(c)
		in := strings.Repeat("<div>\n", 8) + "x\n" + strings.Repeat("</div>\n", 8)
		out := s.hashHTMLBlocks(in)

		// The full construct exceeds the nesting bound, so the scan
		// retries on later lines and protects the deepest block that
		// still fits. The two outer tag pairs are left in the text.
		assert.Equal(t, 2, strings.Count(out, "<div>"))
		assert.Equal(t, 2, strings.Count(out, "</div>"))
		assert.Contains(t, out, string(placeholderControl))
		require.Len(t, s.blocks, 1)
		want := strings.Repeat("<div>\n", 6) + "x\n" + strings.Repeat("</div>\n", 6)
		for _, raw := range s.blocks {
			assert.Equal(t, strings.TrimRight(want, "\n"), raw)
		}
	})

	t.Run("unterminated block left alone", func(t *testing.T) {
		s := newSession(c)
		in := "<div>\nno close\n"
		assert.Equal(t, in, s.hashHTMLBlocks(in))
	})
}

func TestUnhashBlocks_Bounded(t *testing.T) {
	s := newSession(New(DefaultOptions()))

	key := strings.TrimSpace(s.hashBlock("<p>base</p>"))
	depth := maxUnhashRounds + 5
	for i := 0; i < depth; i++ {
		key = strings.TrimSpace(s.hashBlock("<div>" + key + "</div>"))
	}

	out := s.unhashBlocks(key)
	// The unwind stops at the round limit instead of resolving the
	// whole chain; whatever placeholder remains is left literal.
	assert.Contains(t, out, string(placeholderControl))
	assert.Equal(t, maxUnhashRounds, strings.Count(out, "<div>"))
}

func TestUnhashBlocks_ShallowChainResolves(t *testing.T) {
	s := newSession(New(DefaultOptions()))

	key := strings.TrimSpace(s.hashBlock("<p>base</p>"))
	for i := 0; i < 10; i++ {
		key = strings.TrimSpace(s.hashBlock("<div>" + key + "</div>"))
	}

	out := s.unhashBlocks(key)
	assert.NotContains(t, out, string(placeholderControl))
	assert.Contains(t, out, "<p>base</p>")
	assert.Equal(t, 10, strings.Count(out, "<div>"))
}

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLists_LoosenessPropagatesForward(t *testing.T) {
	c := New(DefaultOptions())

	// Item a is loose because of the blank line; b inherits that even
	// though its own run is tight; c starts a fresh run and stays tight.
	got := c.Transform("- a\n\n- b\n- c\n")
	assert.Contains(t, got, "<li><p>a</p></li>")
	assert.Contains(t, got, "<li><p>b</p></li>")
	assert.Contains(t, got, "<li>c</li>")
}

func TestLists_ContinuationParagraph(t *testing.T) {
	c := New(DefaultOptions())

	got := c.Transform("- a\n\n    cont\n- b\n")
	assert.Contains(t, got, "<p>a</p>")
	assert.Contains(t, got, "<p>cont</p>")
	assert.Contains(t, got, "<li><p>b</p></li>")
	assert.Equal(t, 1, strings.Count(got, "<ul>"))
}

func TestLists_OrderedNumbersDoNotMatter(t *testing.T) {
	c := New(DefaultOptions())

	got := c.Transform("3. c\n1. a\n8. b\n")
	assert.Equal(t, "<ol>\n<li>c</li>\n<li>a</li>\n<li>b</li>\n</ol>", got)
}

func TestLists_MixedMarkersShareList(t *testing.T) {
	c := New(DefaultOptions())

	// The first marker decides the list type for the whole run.
	got := c.Transform("* a\n+ b\n- c\n")
	assert.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n<li>c</li>\n</ul>", got)
}

func TestLists_DeeperMarkerBelongsToItemBody(t *testing.T) {
	c := New(DefaultOptions())

	got := c.Transform("- a\n  - b\n")
	assert.Contains(t, got, "<li>a\n<ul>\n<li>b</li>\n</ul></li>")
}

func TestLists_ItemWithSpans(t *testing.T) {
	c := New(DefaultOptions())

	got := c.Transform("- *em* and `code`\n")
	assert.Contains(t, got, "<li><em>em</em> and <code>code</code></li>")
}

func TestLists_BlockquoteInsideLooseItem(t *testing.T) {
	c := New(DefaultOptions())

	got := c.Transform("- a\n\n    > q\n")
	assert.Contains(t, got, "<blockquote>")
	assert.Contains(t, got, "<p>q</p>")
	assert.NotContains(t, got, "\x1a")
}

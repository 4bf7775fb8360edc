package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeAmpsAndAngles(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a & b", "a &amp; b"},
		{"&amp; stays", "&amp; stays"},
		{"&#169; stays", "&#169; stays"},
		{"&#x1F4A9; stays", "&#x1F4A9; stays"},
		{"&bogus no semi", "&amp;bogus no semi"},
		{"1 < 2", "1 &lt; 2"},
		{"<em>kept</em>", "<em>kept</em>"},
		{"<!-- kept", "<!-- kept"},
		{"<?kept", "<?kept"},
		{"a<1", "a&lt;1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, encodeAmpsAndAngles(tc.in), tc.in)
	}
}

func TestDoCodeSpans(t *testing.T) {
	s := newSession(New(DefaultOptions()))

	t.Run("basic", func(t *testing.T) {
		got := s.unescape(s.doCodeSpans("a `b` c"))
		assert.Equal(t, "a <code>b</code> c", got)
	})

	t.Run("padding trimmed", func(t *testing.T) {
		got := s.unescape(s.doCodeSpans("`` ` ``"))
		assert.Equal(t, "<code>`</code>", got)
	})

	t.Run("unbalanced run stays literal", func(t *testing.T) {
		assert.Equal(t, "a `b c", s.doCodeSpans("a `b c"))
	})

	t.Run("escaped opener is skipped", func(t *testing.T) {
		got := s.doCodeSpans(`a \` + "`b` c")
		assert.NotContains(t, got, "<code>")
	})

	t.Run("scheme separator shielded", func(t *testing.T) {
		got := s.doCodeSpans("`http://x`")
		assert.NotContains(t, got, "://")
		assert.Contains(t, got, autoLinkPreventionMarker)
	})
}

func TestDoItalicsAndBold_Strict(t *testing.T) {
	s := newSession(New(DefaultOptions()))

	cases := []struct{ in, want string }{
		{"*foo*", "<em>foo</em>"},
		{"**foo**", "<strong>foo</strong>"},
		{"_foo_", "<em>foo</em>"},
		{"__foo__", "<strong>foo</strong>"},
		{"a *b* c", "a <em>b</em> c"},
		{"*a* *b*", "<em>a</em> <em>b</em>"},
		{"un*frigging*believable", "un*frigging*believable"},
		{"snake_case_name", "snake_case_name"},
		{"* not emphasis", "* not emphasis"},
		{"**bold *and* nested**", "<strong>bold <em>and</em> nested</strong>"},
		{"_**bold italic**_", "<em><strong>bold italic</strong></em>"},
		{"*__x__*", "<em><strong>x</strong></em>"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.doItalicsAndBold(tc.in), tc.in)
	}
}

func TestDoItalicsAndBold_Relaxed(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictBoldItalic = false
	s := newSession(New(opts))

	cases := []struct{ in, want string }{
		{"un*frigging*believable", "un<em>frigging</em>believable"},
		{"**foo**", "<strong>foo</strong>"},
		{"a_b_c", "a<em>b</em>c"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.doItalicsAndBold(tc.in), tc.in)
	}
}

func TestEscapeSpecialCharsWithinTagAttributes(t *testing.T) {
	s := newSession(New(DefaultOptions()))

	t.Run("emphasis chars inside a tag are shielded", func(t *testing.T) {
		in := `<img src="a_b*c.png"> and *live* text`
		out := s.escapeSpecialCharsWithinTagAttributes(in)
		assert.NotContains(t, out, `a_b*c`)
		assert.Contains(t, out, "*live*")
		assert.Equal(t, in, s.unescape(out))
	})

	t.Run("comment slashes shielded when autolinking", func(t *testing.T) {
		in := "<!-- see http://example.com/ -->"
		out := s.escapeSpecialCharsWithinTagAttributes(in)
		assert.NotContains(t, out, "http://")
		assert.Equal(t, in, s.unescape(out))
	})

	t.Run("text outside tags untouched", func(t *testing.T) {
		in := "no tags *here* at all"
		assert.Equal(t, in, s.escapeSpecialCharsWithinTagAttributes(in))
	})
}

func TestSaveFromAutoLinking(t *testing.T) {
	got := saveFromAutoLinking("http://a and ftp://b")
	assert.NotContains(t, got, "://")
	restored := strings.ReplaceAll(got, autoLinkPreventionMarker, "://")
	assert.Equal(t, "http://a and ftp://b", restored)
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldLinkID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Foo", "foo"},
		{"Foo  Bar", "foo bar"},
		{"foo\nbar", "foo bar"},
		{"  padded  ", "padded"},
		{"a\t b", "a b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, foldLinkID(tc.in))
	}
}

func TestStripLinkDefinitions(t *testing.T) {
	c := New(DefaultOptions())

	t.Run("definition removed and recorded", func(t *testing.T) {
		s := newSession(c)
		out := s.stripLinkDefinitions("before\n\n[id]: http://example.com/ \"T\"\n\nafter\n")
		assert.NotContains(t, out, "[id]:")
		assert.Equal(t, "http://example.com/", s.urls["id"])
		assert.Equal(t, "T", s.titles["id"])
	})

	t.Run("angle bracketed url", func(t *testing.T) {
		s := newSession(c)
		s.stripLinkDefinitions("[x]: <http://example.com/a>\n")
		assert.Equal(t, "http://example.com/a", s.urls["x"])
	})

	t.Run("title on following line", func(t *testing.T) {
		s := newSession(c)
		s.stripLinkDefinitions("[x]: http://example.com/\n    \"Long Title\"\n")
		assert.Equal(t, "http://example.com/", s.urls["x"])
		assert.Equal(t, "Long Title", s.titles["x"])
	})

	t.Run("parenthesized title", func(t *testing.T) {
		s := newSession(c)
		s.stripLinkDefinitions("[x]: http://example.com/ (T)\n")
		assert.Equal(t, "T", s.titles["x"])
	})

	t.Run("redefinition overwrites and clears stale title", func(t *testing.T) {
		s := newSession(c)
		s.stripLinkDefinitions("[x]: http://old.example.com/ \"Old\"\n[x]: http://new.example.com/\n")
		assert.Equal(t, "http://new.example.com/", s.urls["x"])
		_, hasTitle := s.titles["x"]
		assert.False(t, hasTitle)
	})

	t.Run("url ampersand stored encoded", func(t *testing.T) {
		s := newSession(c)
		s.stripLinkDefinitions("[x]: http://example.com/?a=1&b=2\n")
		assert.Equal(t, "http://example.com/?a=1&amp;b=2", s.urls["x"])
	})

	t.Run("four space indent is not a definition", func(t *testing.T) {
		s := newSession(c)
		in := "    [x]: http://example.com/\n"
		out := s.stripLinkDefinitions(in)
		assert.Equal(t, in, out)
		assert.Empty(t, s.urls)
	})
}

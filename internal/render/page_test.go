package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePage(t *testing.T) {
	t.Run("default stylesheet when css empty", func(t *testing.T) {
		page := ComposePage("Doc", "", "<p>hi</p>")
		assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
		assert.Contains(t, page, "<title>Doc</title>")
		assert.Contains(t, page, DefaultStylesheet)
		assert.Contains(t, page, "<p>hi</p>\n</body>")
	})

	t.Run("title is escaped", func(t *testing.T) {
		page := ComposePage(`a<b>&"c"`, "", "")
		assert.Contains(t, page, "<title>a&lt;b&gt;&amp;&#34;c&#34;</title>")
	})

	t.Run("custom css verbatim", func(t *testing.T) {
		page := ComposePage("t", "body{color:red}", "<p>x</p>")
		assert.Contains(t, page, "<style>\nbody{color:red}\n</style>")
		assert.NotContains(t, page, DefaultStylesheet)
	})
}

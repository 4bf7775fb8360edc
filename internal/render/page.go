// Package render composes converted HTML fragments into standalone pages.
package render

import (
	"html"
	"strings"
)

// DefaultStylesheet is inlined into full pages when no style_path is
// configured.
const DefaultStylesheet = `body {
  max-width: 46rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font: 16px/1.6 system-ui, sans-serif;
  color: #1a1a1a;
}
pre {
  background: #f6f6f6;
  padding: 0.8rem;
  overflow-x: auto;
}
code { font-family: ui-monospace, monospace; }
blockquote {
  margin-left: 0;
  padding-left: 1rem;
  border-left: 3px solid #ccc;
  color: #555;
}
img { max-width: 100%; }
`

// ComposePage wraps a fragment in a minimal HTML5 document. The title is
// entity-escaped; the stylesheet and fragment are emitted verbatim.
func ComposePage(title, css, fragment string) string {
	if css == "" {
		css = DefaultStylesheet
	}
	var b strings.Builder
	b.Grow(len(css) + len(fragment) + 256)
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(css)
	if !strings.HasSuffix(css, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(fragment)
	if fragment != "" && !strings.HasSuffix(fragment, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

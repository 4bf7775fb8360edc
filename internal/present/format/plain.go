package format

import (
	"io"
	"strings"
)

// WriteHTML writes markup followed by exactly one trailing newline, so
// concatenated documents stay line-separated in a terminal or a file.
func WriteHTML(w io.Writer, html string) error {
	if _, err := io.WriteString(w, strings.TrimRight(html, "\n")); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

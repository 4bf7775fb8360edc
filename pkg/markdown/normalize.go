package markdown

import "strings"

// normalize canonicalizes the input in a single left-to-right scan:
// CRLF/CR become LF, tabs expand to the next tabWidth column, lines that
// contain only whitespace collapse to a bare LF, the placeholder control
// character is stripped so it can never collide with generated
// placeholders, and the result always ends with two LFs.
func normalize(text string) string {
	var out strings.Builder
	out.Grow(len(text) + 2)

	var line strings.Builder
	hasContent := false

	flush := func() {
		if hasContent {
			out.WriteString(line.String())
		}
		out.WriteByte('\n')
		line.Reset()
		hasContent = false
	}

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\n':
			flush()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flush()
		case '\t':
			width := tabWidth - line.Len()%tabWidth
			for n := 0; n < width; n++ {
				line.WriteByte(' ')
			}
		case placeholderControl:
			// stripped: reserved for internal placeholders
		default:
			if c != ' ' {
				hasContent = true
			}
			line.WriteByte(c)
		}
	}
	if hasContent {
		out.WriteString(line.String())
	}
	out.WriteString("\n\n")
	return out.String()
}

// outdent removes one level of indentation (up to tabWidth spaces) from
// every line.
func outdent(text string) string {
	return outdentRe.ReplaceAllLiteralString(text, "")
}

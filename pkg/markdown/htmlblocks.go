package markdown

import (
	"regexp"
	"strings"
)

// Block-level tag vocabulary. alwaysBlockTags are treated as blocks
// wherever their start tag opens a line; aloneBlockTags (ins/del) only
// count as blocks when the start tag is alone on its line, since they
// are legal inline too.
var alwaysBlockTags = map[string]bool{
	"p": true, "div": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "dl": true, "ol": true,
	"ul": true, "address": true, "script": true, "noscript": true,
	"form": true, "fieldset": true, "iframe": true,
}

var aloneBlockTags = map[string]bool{"ins": true, "del": true}

// tagScanRes holds a precompiled open-or-close matcher per known block
// tag. Group 1 is "/" for a closing tag.
var tagScanRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for tag := range alwaysBlockTags {
		m[tag] = regexp.MustCompile(`(?i)<(/?)` + tag + `\b`)
	}
	for tag := range aloneBlockTags {
		m[tag] = regexp.MustCompile(`(?i)<(/?)` + tag + `\b`)
	}
	return m
}()

var (
	tagNameRe = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9]*)`)
	hrLineRe  = regexp.MustCompile(`^<hr\b[^>]*/?>[ ]*`)
)

// hashHTMLBlocks finds already-valid block-level markup and replaces each
// occurrence with an opaque placeholder so later passes cannot mangle it.
// It runs twice per transform: once on raw input and once after the block
// passes generate new markup.
func (s *session) hashHTMLBlocks(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	var out strings.Builder
	pos := 0
	i := 0
	prevBlank := true // start of document is a boundary
	for i < len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}

		if end, ok := s.matchBlockAt(text, i, lineEnd, prevBlank); ok {
			out.WriteString(text[pos:i])
			out.WriteString(s.hashBlock(text[i:end]))
			pos = end
			i = end
			prevBlank = true // placeholder is padded with blank lines
			continue
		}

		prevBlank = i == lineEnd
		i = lineEnd + 1
	}
	if pos == 0 {
		return text
	}
	out.WriteString(text[pos:])
	return out.String()
}

// matchBlockAt reports whether a protectable construct starts at line
// offset i, and where it ends. Comments, processing instructions, and
// self-closing <hr> require a preceding blank line and tolerate up to
// three spaces of indentation; tag blocks must start the line.
func (s *session) matchBlockAt(text string, i, lineEnd int, prevBlank bool) (int, bool) {
	j := i
	for j < lineEnd && j-i < tabWidth-1 && text[j] == ' ' {
		j++
	}
	if j >= lineEnd || text[j] != '<' {
		return 0, false
	}
	rest := text[j:]

	if prevBlank {
		if strings.HasPrefix(rest, "<!--") {
			return matchToDelimiter(text, j+4, "-->")
		}
		if strings.HasPrefix(rest, "<?") {
			return matchToDelimiter(text, j+2, "?>")
		}
		if m := hrLineRe.FindString(rest); m != "" {
			return endOfBlockLine(text, j+len(m))
		}
	}

	// Tag blocks anchor at column 0.
	if j != i {
		return 0, false
	}
	m := tagNameRe.FindStringSubmatch(rest)
	if m == nil {
		return 0, false
	}
	name := strings.ToLower(m[1])
	switch {
	case alwaysBlockTags[name]:
		return s.matchTagBlock(text, i, name, false)
	case aloneBlockTags[name]:
		// The start tag must be alone on its line.
		tagEnd, ok := scanTag(text, i)
		if !ok {
			return 0, false
		}
		if _, ok := endOfBlockLine(text, tagEnd); !ok {
			return 0, false
		}
		return s.matchTagBlock(text, i, name, true)
	}
	return 0, false
}

// matchToDelimiter finds closer (for comments and processing
// instructions) and requires only trailing spaces after it on its line.
func matchToDelimiter(text string, from int, closer string) (int, bool) {
	k := strings.Index(text[from:], closer)
	if k < 0 {
		return 0, false
	}
	return endOfBlockLine(text, from+k+len(closer))
}

// endOfBlockLine consumes trailing spaces and reports success when the
// next character is a newline or end of input.
func endOfBlockLine(text string, p int) (int, bool) {
	for p < len(text) && text[p] == ' ' {
		p++
	}
	if p == len(text) || text[p] == '\n' {
		return p, true
	}
	return 0, false
}

// matchTagBlock matches from an opening block tag to its closing tag,
// tolerating nested occurrences of the same tag name up to nestDepth.
// The scan never backtracks; on strict matching the closing tag must
// also open a line. Structures nested beyond the bound simply fail to
// match and fall through to paragraph treatment.
func (s *session) matchTagBlock(text string, start int, name string, strict bool) (int, bool) {
	openEnd, ok := scanTag(text, start)
	if !ok {
		return 0, false
	}
	if strings.HasSuffix(text[start:openEnd], "/>") {
		return endOfBlockLine(text, openEnd)
	}

	re := tagScanRes[name]
	depth := 1
	pos := openEnd
	for pos < len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return 0, false
		}
		tagStart := pos + loc[0]
		closing := loc[3] > loc[2]
		tagEnd, ok := scanTag(text, tagStart)
		if !ok {
			return 0, false
		}
		if !closing {
			if !strings.HasSuffix(text[tagStart:tagEnd], "/>") {
				depth++
				if depth > nestDepth {
					return 0, false
				}
			}
			pos = tagEnd
			continue
		}
		if depth > 1 {
			depth--
			pos = tagEnd
			continue
		}
		depth = 1
		if strict && !(tagStart == 0 || text[tagStart-1] == '\n') {
			pos = tagEnd
			continue
		}
		if end, ok := endOfBlockLine(text, tagEnd); ok {
			return end, true
		}
		// Closing tag not at end of line; keep extending to a later
		// close of the same name.
		pos = tagEnd
	}
	return 0, false
}

// scanTag returns the index just past the '>' that closes the tag
// starting at '<'. Attribute values may contain '>' inside quotes, and
// stray '<' inside the tag is tolerated up to nestDepth.
func scanTag(text string, start int) (int, bool) {
	depth := 1
	var quote byte
	for p := start + 1; p < len(text); p++ {
		c := text[p]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '<':
			depth++
			if depth > nestDepth {
				return 0, false
			}
		case '>':
			depth--
			if depth == 0 {
				return p + 1, true
			}
		}
	}
	return 0, false
}

package markdown

import (
	"regexp"
	"strings"
)

var (
	anyMarkerLineRe = regexp.MustCompile(`^[ ]{0,3}(?:[*+-]|\d+\.)[ \t]+`)
	ulItemRe        = regexp.MustCompile(`(?m)^([ \t]*)([*+-])[ \t]+`)
	olItemRe        = regexp.MustCompile(`(?m)^([ \t]*)(\d+\.)[ \t]+`)
	trailingBlankRe = regexp.MustCompile(`\n{2,}\z`)
)

// doLists finds list bodies and hands them to the list processor. At the
// top level a list must be preceded by a blank line or start the
// document; inside a list (nesting counter > 0) a marker anchored at any
// line start begins a sub-list. The distinction is deliberate: a bare
// "8." mid-paragraph must not open a list unless we are already in one.
func (s *session) doLists(text string) string {
	var out strings.Builder
	pos := 0
	for pos < len(text) {
		start, ok := s.findListStart(text, pos)
		if !ok {
			break
		}
		end := findListEnd(text, start)
		out.WriteString(text[pos:start])

		list := text[start:end]
		marker, ordered := ulItemRe, false
		if c := strings.TrimLeft(list, " ")[0]; c >= '0' && c <= '9' {
			marker, ordered = olItemRe, true
		}
		items := s.processListItems(list, marker)
		if ordered {
			out.WriteString("<ol>\n" + items + "</ol>\n")
		} else {
			out.WriteString("<ul>\n" + items + "</ul>\n")
		}
		pos = end
	}
	if pos == 0 {
		return text
	}
	out.WriteString(text[pos:])
	return out.String()
}

// findListStart returns the offset of the first line from pos that opens
// a list under the current nesting rules.
func (s *session) findListStart(text string, pos int) (int, bool) {
	i := pos
	prevBlank := pos == 0 || strings.HasSuffix(text[:pos], "\n\n")
	for i < len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}
		if anyMarkerLineRe.MatchString(text[i:lineEnd]) {
			if s.listLevel > 0 || prevBlank {
				return i, true
			}
		}
		prevBlank = i == lineEnd
		i = lineEnd + 1
	}
	return 0, false
}

// findListEnd scans forward from the first marker line. The list runs
// until end of input, or until a blank-line gap is followed by a
// flush-left line that is not another item marker; indented lines after
// a gap are continuation content and keep the list open.
func findListEnd(text string, start int) int {
	i := start
	blanks := 0
	for i < len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}
		if i == lineEnd { // blank line
			blanks++
		} else {
			if blanks > 0 && text[i] != ' ' && text[i] != '\t' &&
				!anyMarkerLineRe.MatchString(text[i:lineEnd]) {
				// The gap's newlines belong to the list match.
				return i
			}
			blanks = 0
		}
		i = lineEnd + 1
	}
	return len(text)
}

// processListItems splits one list body into items and renders each.
// An item is loose when its run (up to the next sibling marker) contains
// a blank line, or when the previous item was loose; loose items get the
// whole block gamut, tight items recurse only for sub-lists and receive
// span treatment at the outermost level. The forward propagation is an
// explicit accumulator carried across the iteration.
func (s *session) processListItems(list string, marker *regexp.Regexp) string {
	s.listLevel++
	defer func() { s.listLevel-- }()

	list = trailingBlankRe.ReplaceAllLiteralString(list, "\n")

	matches := marker.FindAllStringSubmatchIndex(list, -1)
	if len(matches) == 0 {
		return ""
	}
	// Sibling items share the first item's exact indentation; deeper
	// markers belong to item bodies.
	indent := list[matches[0][2]:matches[0][3]]
	siblings := matches[:0:0]
	for _, m := range matches {
		if list[m[2]:m[3]] == indent {
			siblings = append(siblings, m)
		}
	}

	var out strings.Builder
	prevLoose := false
	for idx, m := range siblings {
		bodyStart := m[1]
		bodyEnd := len(list)
		if idx+1 < len(siblings) {
			bodyEnd = siblings[idx+1][0]
		}
		body := list[bodyStart:bodyEnd]

		loose := strings.Contains(body, "\n\n")
		item := body
		if loose || prevLoose {
			item = s.runBlockGamut(outdent(item)+"\n", false)
		} else {
			item = s.doLists(outdent(item))
			item = strings.TrimRight(item, "\n")
			if s.listLevel == 1 {
				item = s.runSpanGamut(item)
			}
		}
		prevLoose = loose

		out.WriteString("<li>")
		out.WriteString(item)
		out.WriteString("</li>\n")
	}
	return out.String()
}

package markdown

import (
	"regexp"
	"strings"
)

var backtickRunRe = regexp.MustCompile("`+")

// doCodeSpans converts backtick-delimited runs into code elements. The
// opening run's length picks the closing run, so longer fences can quote
// literal backticks. Content is literal-encoded and its "://" protected,
// keeping link and autolink passes out of code.
func (s *session) doCodeSpans(text string) string {
	if !strings.Contains(text, "`") {
		return text
	}
	runs := backtickRunRe.FindAllStringIndex(text, -1)
	var out strings.Builder
	pos := 0
	for i := 0; i < len(runs); i++ {
		open := runs[i]
		if open[0] < pos {
			continue
		}
		if open[0] > 0 && text[open[0]-1] == '\\' {
			continue
		}
		width := open[1] - open[0]
		for j := i + 1; j < len(runs); j++ {
			if runs[j][1]-runs[j][0] != width {
				continue
			}
			span := strings.Trim(text[open[1]:runs[j][0]], " \t")
			span = encodeCode(span)
			span = saveFromAutoLinking(span)
			out.WriteString(text[pos:open[0]])
			out.WriteString("<code>")
			out.WriteString(span)
			out.WriteString("</code>")
			pos = runs[j][1]
			break
		}
	}
	if pos == 0 {
		return text
	}
	out.WriteString(text[pos:])
	return out.String()
}

// saveFromAutoLinking shields a URL-looking string from the autolink
// pass; the marker is restored at the end of the span gamut.
func saveFromAutoLinking(text string) string {
	return strings.ReplaceAll(text, "://", autoLinkPreventionMarker)
}

var codeTagLiteralRe = regexp.MustCompile(`</?code>`)

// escapeSpecialCharsWithinTagAttributes tokenizes the text and escapes
// markdown-significant characters inside tag tokens only, so emphasis
// and escape passes cannot corrupt attributes. Slashes are escaped in
// comment openers when auto-hyperlinking is on, to keep autolinks out of
// comments; literal code tags adjacent to other characters inside a tag
// are neutralized as well.
func (s *session) escapeSpecialCharsWithinTagAttributes(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	var out strings.Builder
	for _, t := range tokenizeHTML(text) {
		v := t.value
		if t.kind == tokenTag {
			v = strings.ReplaceAll(v, `\`, escapeTable[`\`])
			if s.conv.opts.AutoHyperlink && strings.HasPrefix(v, "<!") {
				v = strings.ReplaceAll(v, "/", escapeTable["/"])
			}
			v = neutralizeCodeTags(v)
			v = escapeBoldItalic(v)
		}
		out.WriteString(v)
	}
	return out.String()
}

// neutralizeCodeTags replaces <code> and </code> substrings that have
// characters on both sides with the backtick placeholder.
func neutralizeCodeTags(v string) string {
	locs := codeTagLiteralRe.FindAllStringIndex(v, -1)
	if locs == nil {
		return v
	}
	var out strings.Builder
	pos := 0
	for _, loc := range locs {
		if loc[0] == 0 || loc[1] == len(v) {
			continue
		}
		out.WriteString(v[pos:loc[0]])
		out.WriteString(escapeTable["`"])
		pos = loc[1]
	}
	out.WriteString(v[pos:])
	return out.String()
}

var ampEntityRe = regexp.MustCompile(`^&#?[xX]?(?:[0-9a-fA-F]+|\w+);`)

// encodeAmpsAndAngles entity-encodes ampersands that are not part of an
// entity reference and angle brackets that do not open a tag.
func encodeAmpsAndAngles(text string) string {
	if !strings.ContainsAny(text, "&<") {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '&':
			if ampEntityRe.MatchString(text[i:]) {
				out.WriteByte(c)
			} else {
				out.WriteString("&amp;")
			}
		case '<':
			if i+1 < len(text) && isTagOpener(text[i+1]) {
				out.WriteByte(c)
			} else {
				out.WriteString("&lt;")
			}
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func isTagOpener(c byte) bool {
	return isASCIILetter(c) || c == '/' || c == '?' || c == '$' || c == '!'
}

// Emphasis patterns. RE2 has no lookaround or backreferences, so the
// boundary conditions are folded into explicit groups per delimiter and
// strict matches carry the surrounding non-word characters through the
// replacement.
var (
	// Underscore is a \w character but still bounds a span, so the
	// boundary classes spell it out.
	strongStrictStarRe  = regexp.MustCompile(`(^|[\W_])\*\*(\S(?:[^\r]*?\S)?[\*_]*)\*\*($|[\W_])`)
	strongStrictUnderRe = regexp.MustCompile(`(^|[\W_])__(\S(?:[^\r]*?\S)?[\*_]*)__($|[\W_])`)
	emStrictStarRe      = regexp.MustCompile(`(^|[\W_])\*([^\s\*_](?:[^\r\*_]*[^\s\*_])?)\*($|[\W_])`)
	emStrictUnderRe     = regexp.MustCompile(`(^|[\W_])_([^\s\*_](?:[^\r\*_]*[^\s\*_])?)_($|[\W_])`)

	strongRelaxedStarRe  = regexp.MustCompile(`\*\*(\S(?:.*?\S)?[\*_]*)\*\*`)
	strongRelaxedUnderRe = regexp.MustCompile(`__(\S(?:.*?\S)?[\*_]*)__`)
	emRelaxedStarRe      = regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`)
	emRelaxedUnderRe     = regexp.MustCompile(`_(\S(?:.*?\S)?)_`)
)

// doItalicsAndBold wraps emphasis, strong before italic so ** pairs are
// consumed first. Strict mode requires a non-word boundary around the
// markers; relaxed mode only requires non-blank content edges.
func (s *session) doItalicsAndBold(text string) string {
	if s.conv.opts.StrictBoldItalic {
		// The boundary groups consume a character, so a span starting
		// right after a previous match is skipped on the first pass. A
		// second pass sees the boundary the first one re-emitted.
		for i := 0; i < 2; i++ {
			text = strongStrictStarRe.ReplaceAllString(text, "$1<strong>$2</strong>$3")
			text = strongStrictUnderRe.ReplaceAllString(text, "$1<strong>$2</strong>$3")
			text = emStrictStarRe.ReplaceAllString(text, "$1<em>$2</em>$3")
			text = emStrictUnderRe.ReplaceAllString(text, "$1<em>$2</em>$3")
		}
		return text
	}
	text = strongRelaxedStarRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = strongRelaxedUnderRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = emRelaxedStarRe.ReplaceAllString(text, "<em>$1</em>")
	return emRelaxedUnderRe.ReplaceAllString(text, "<em>$1</em>")
}

package markdown

import (
	"regexp"
	"strings"
)

var (
	setextHeaderRe = regexp.MustCompile(`(?m)^(.+?)[ \t]*\n(=+|-+)[ \t]*\n+`)
	atxHeaderRe    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]*(.+?)[ \t]*#*\n+`)

	horizontalRuleRe = regexp.MustCompile(`(?m)^[ ]{0,3}(\*[ ]?){3,}[ \t]*$|^[ ]{0,3}(-[ ]?){3,}[ \t]*$|^[ ]{0,3}(_[ ]?){3,}[ \t]*$`)

	codeBlockRe = regexp.MustCompile(`(?:\n\n|\A\n?)((?:[ ]{4}.*\n+)+)`)

	blockQuoteRe  = regexp.MustCompile(`(?m)((?:^[ \t]*>[ \t]?.+\n(?:.+\n)*\n*)+)`)
	quotePrefixRe = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	quoteBlankRe  = regexp.MustCompile(`(?m)^[ \t]+$`)
	lineStartRe   = regexp.MustCompile(`(?m)^`)
	quotedPreRe   = regexp.MustCompile(`(?s)(\s*<pre>.+?</pre>)`)
	preIndentRe   = regexp.MustCompile(`(?m)^  `)

	paragraphSplitRe = regexp.MustCompile(`\n{2,}`)
	outdentRe        = regexp.MustCompile(`(?m)^[ ]{1,4}`)

	newlineRe   = regexp.MustCompile(`\n`)
	hardBreakRe = regexp.MustCompile(` {2,}\n`)
)

// doHeaders handles both header styles. Setext underlines run first so a
// "Title\n===" pair is consumed before the ATX pass sees it; header text
// goes through the span gamut before wrapping.
func (s *session) doHeaders(text string) string {
	text = setextHeaderRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := setextHeaderRe.FindStringSubmatch(m)
		level := "1"
		if parts[2][0] == '-' {
			level = "2"
		}
		return "<h" + level + ">" + s.runSpanGamut(parts[1]) + "</h" + level + ">\n\n"
	})
	return atxHeaderRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := atxHeaderRe.FindStringSubmatch(m)
		level := string(rune('0' + len(parts[1])))
		return "<h" + level + ">" + s.runSpanGamut(parts[2]) + "</h" + level + ">\n\n"
	})
}

// doHorizontalRules turns a line of three or more identical markers into
// a rule element.
func (s *session) doHorizontalRules(text string) string {
	return horizontalRuleRe.ReplaceAllLiteralString(text, "<hr"+s.conv.opts.EmptyElementSuffix+"\n")
}

// doCodeBlocks converts runs of tabWidth-indented lines, set off by
// blank lines, into preformatted blocks with literal-encoded content.
func (s *session) doCodeBlocks(text string) string {
	return codeBlockRe.ReplaceAllStringFunc(text, func(m string) string {
		code := encodeCode(outdent(m))
		code = strings.Trim(code, "\n")
		return "\n\n<pre><code>" + code + "\n</code></pre>\n\n"
	})
}

// doBlockQuotes groups contiguous >-prefixed lines, strips one level of
// quoting, and runs the entire block gamut on the body so quotes may
// contain headers, lists, and nested quotes. The rendered quote is
// indented two spaces for readability, with preformatted content
// corrected back, then protected as a raw HTML block so paragraph
// formation leaves it untouched.
func (s *session) doBlockQuotes(text string) string {
	return blockQuoteRe.ReplaceAllStringFunc(text, func(m string) string {
		bq := quotePrefixRe.ReplaceAllLiteralString(m, "")
		bq = quoteBlankRe.ReplaceAllLiteralString(bq, "")
		bq = s.runBlockGamut(bq, true)

		bq = lineStartRe.ReplaceAllLiteralString(bq, "  ")
		bq = quotedPreRe.ReplaceAllStringFunc(bq, func(pre string) string {
			return preIndentRe.ReplaceAllLiteralString(pre, "")
		})
		return s.hashBlock("<blockquote>\n" + bq + "\n</blockquote>")
	})
}

// maxUnhashRounds caps the recursive unwinding of block placeholders
// nested inside other block placeholders. Exceeding the cap stops the
// substitution and leaves the remaining placeholder as literal text
// rather than looping.
const maxUnhashRounds = 50

// formParagraphs splits the buffer on blank-line boundaries. A chunk
// that is a protected block placeholder is substituted back (recursively
// within the bounded round limit when unhash is set); any other chunk is
// span-transformed and wrapped in a paragraph element.
func (s *session) formParagraphs(text string, unhash bool) string {
	grafs := paragraphSplitRe.Split(strings.Trim(text, "\n"), -1)

	var out strings.Builder
	for i, graf := range grafs {
		if i > 0 {
			out.WriteString("\n\n")
		}
		if html, ok := s.blocks[graf]; ok {
			if unhash {
				html = s.unhashBlocks(html)
			} else {
				html = graf
			}
			out.WriteString(html)
			continue
		}
		graf = s.runSpanGamut(graf)
		out.WriteString("<p>")
		out.WriteString(strings.TrimLeft(graf, " "))
		out.WriteString("</p>")
	}
	return out.String()
}

// unhashBlocks substitutes block placeholders with their protected
// content, repeating for placeholders revealed by the substitution, up
// to maxUnhashRounds.
func (s *session) unhashBlocks(html string) string {
	for round := 0; round < maxUnhashRounds; round++ {
		replaced := false
		html = blockPlaceholderRe.ReplaceAllStringFunc(html, func(key string) string {
			if v, ok := s.blocks[key]; ok {
				replaced = true
				return v
			}
			return key
		})
		if !replaced {
			break
		}
	}
	return html
}

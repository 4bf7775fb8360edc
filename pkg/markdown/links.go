package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Fixed-depth patterns for balanced brackets and parens. RE2 cannot
// recurse, but a bounded nesting (nestDepth) unrolls into a plain
// alternation.
var (
	nestedBrackets = strings.Repeat(`(?:[^\[\]]+|\[`, nestDepth) +
		strings.Repeat(`\])*`, nestDepth)
	nestedParens = strings.Repeat(`(?:[^()\s]+|\(`, nestDepth) +
		strings.Repeat(`\))*`, nestDepth)

	anchorRefRe = regexp.MustCompile(
		`\[(` + nestedBrackets + `)\][ ]?(?:\n[ ]*)?\[(.*?)\]`)
	anchorInlineRe = regexp.MustCompile(
		`\[(` + nestedBrackets + `)\]\([ \t]*<?(` + nestedParens + `)>?[ \t]*(?:"([^"]*)"|'([^']*)')?[ \t]*\)`)
	anchorShortcutRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

	imageRefRe = regexp.MustCompile(
		`!\[(.*?)\][ ]?(?:\n[ ]*)?\[(.*?)\]`)
	imageInlineRe = regexp.MustCompile(
		`!\[(.*?)\]\([ \t]*<?(` + nestedParens + `)>?[ \t]*(?:"([^"]*)"|'([^']*)')?[ \t]*\)`)

	altSpecialRe = regexp.MustCompile(`[\[\]()]`)
)

func attributeEncode(s string) string {
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, "\"", "&quot;")
}

// doImages processes image syntax, reference-style first. It must run
// before doAnchors because ![alt](url) is a superset of link syntax.
func (s *session) doImages(text string) string {
	text = imageRefRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := imageRefRe.FindStringSubmatch(m)
		alt, id := parts[1], parts[2]
		if id == "" {
			id = alt
		}
		key := foldLinkID(id)
		url, ok := s.urls[key]
		if !ok {
			// No definition: degrade to the literal bracket text.
			return m
		}
		return s.imageTag(url, alt, s.titles[key])
	})
	return imageInlineRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := imageInlineRe.FindStringSubmatch(m)
		title := parts[3]
		if title == "" {
			title = parts[4]
		}
		return s.imageTag(parts[2], parts[1], title)
	})
}

func (s *session) imageTag(url, alt, title string) string {
	alt = attributeEncode(alt)
	alt = escapeBoldItalic(alt)
	alt = altSpecialRe.ReplaceAllStringFunc(alt, func(c string) string {
		return escapeTable[c]
	})
	url = escapeBoldItalic(s.encodeProblemURLChars(url))

	result := `<img src="` + url + `" alt="` + alt + `"`
	if title != "" {
		result += ` title="` + attributeEncode(escapeBoldItalic(title)) + `"`
	}
	return result + s.conv.opts.EmptyElementSuffix
}

// doAnchors processes link syntax: reference-style, then inline, then
// the bare [text] shortcut last so it never shadows the more specific
// forms. A reference with no matching definition emits the original
// bracket text unchanged.
func (s *session) doAnchors(text string) string {
	text = anchorRefRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := anchorRefRe.FindStringSubmatch(m)
		linkText, id := parts[1], parts[2]
		if id == "" {
			id = linkText
		}
		key := foldLinkID(id)
		url, ok := s.urls[key]
		if !ok {
			return m
		}
		return s.anchorTag(url, linkText, s.titles[key])
	})
	text = anchorInlineRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := anchorInlineRe.FindStringSubmatch(m)
		title := parts[3]
		if title == "" {
			title = parts[4]
		}
		return s.anchorTag(parts[2], parts[1], title)
	})
	return s.doAnchorShortcuts(text)
}

// doAnchorShortcuts resolves [text] against the link table, skipping
// image syntax and leaving unresolved references literal.
func (s *session) doAnchorShortcuts(text string) string {
	locs := anchorShortcutRe.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return text
	}
	var out strings.Builder
	pos := 0
	for _, loc := range locs {
		if loc[0] < pos || (loc[0] > 0 && text[loc[0]-1] == '!') {
			continue
		}
		linkText := text[loc[2]:loc[3]]
		url, ok := s.urls[foldLinkID(linkText)]
		if !ok {
			continue
		}
		out.WriteString(text[pos:loc[0]])
		out.WriteString(s.anchorTag(url, linkText, s.titles[foldLinkID(linkText)]))
		pos = loc[1]
	}
	if pos == 0 {
		return text
	}
	out.WriteString(text[pos:])
	return out.String()
}

func (s *session) anchorTag(url, linkText, title string) string {
	url = escapeBoldItalic(s.encodeProblemURLChars(url))
	result := `<a href="` + url + `"`
	if title != "" {
		result += ` title="` + escapeBoldItalic(attributeEncode(title)) + `"`
	}
	return result + ">" + saveFromAutoLinking(linkText) + "</a>"
}

// problemURLChars commonly break markup when they appear in a link
// target; they are percent-encoded when the option is on. A colon
// survives when it starts a port number or a scheme's "//".
const problemURLChars = `"'*()[]$:`

func (s *session) encodeProblemURLChars(url string) string {
	if !s.conv.opts.EncodeProblemURLCharacters {
		return url
	}
	if !strings.ContainsAny(url, problemURLChars) {
		return url
	}
	var out strings.Builder
	for i := 0; i < len(url); i++ {
		c := url[i]
		encode := strings.IndexByte(problemURLChars, c) >= 0
		if encode && c == ':' && i < len(url)-1 {
			next := url[i+1]
			encode = next != '/' && !(next >= '0' && next <= '9')
		}
		if encode {
			fmt.Fprintf(&out, "%%%x", c)
		} else {
			out.WriteByte(c)
		}
	}
	return out.String()
}

var (
	autoLinkBareRe = regexp.MustCompile(
		`(?i)(<|=")?\b(https?|ftp)(://[-A-Z0-9+&@#/%?=~_|\[\]()!:,.;]*[-A-Z0-9+&@#/%=~_|\[\]()])($|\W)`)
	autoLinkAngleRe = regexp.MustCompile(`(?i)<((?:https?|ftp):[^'">\s]+)>`)
	autoLinkEmailRe = regexp.MustCompile(
		`(?i)<(?:mailto:)?([-.\w]+@[-a-z0-9]+(?:\.[-a-z0-9]+)*\.[a-z]+)>`)
)

// doAutoLinks links bare URLs (when enabled), angle-bracketed URLs, and
// angle-bracketed email addresses.
func (s *session) doAutoLinks(text string) string {
	if s.conv.opts.AutoHyperlink {
		text = autoLinkBareRe.ReplaceAllStringFunc(text, s.wrapBareURL)
	}
	text = autoLinkAngleRe.ReplaceAllStringFunc(text, func(m string) string {
		link := autoLinkAngleRe.FindStringSubmatch(m)[1]
		href := escapeBoldItalic(s.encodeProblemURLChars(link))
		return `<a href="` + href + `">` + link + `</a>`
	})
	if s.conv.opts.LinkEmails {
		text = autoLinkEmailRe.ReplaceAllStringFunc(text, func(m string) string {
			addr := autoLinkEmailRe.FindStringSubmatch(m)[1]
			href := s.conv.encodeEmailAddress("mailto:" + addr)
			// The colon is always emitted literally, so the display
			// text is everything after it.
			display := href[strings.IndexByte(href, ':')+1:]
			return `<a href="` + href + `">` + display + `</a>`
		})
	}
	return text
}

// wrapBareURL rewrites a bare URL in markdown's angle form so the angle
// pass links it. URLs already inside an attribute or angle form pass
// through. A URL ending in unbalanced closing parens has the excess
// pulled back out and re-appended after the link; this tracks
// parenthesis balance, not mere trimming, so "(see http://x/y(z))"
// keeps "(z)" in the link.
func (s *session) wrapBareURL(m string) string {
	parts := autoLinkBareRe.FindStringSubmatch(m)
	if parts[1] != "" {
		return m
	}
	uri := parts[2] + parts[3]
	tail := ""
	if strings.HasSuffix(uri, ")") {
		level := 0
		excess := 0
		for i := 0; i < len(uri); i++ {
			switch uri[i] {
			case '(':
				level++
			case ')':
				level--
				if level < -excess {
					excess = -level
				}
			}
		}
		for excess > 0 && strings.HasSuffix(uri, ")") {
			uri = uri[:len(uri)-1]
			tail += ")"
			excess--
		}
	}
	return "<" + uri + ">" + tail + parts[4]
}

package markdown

import (
	"regexp"
	"strings"
)

// linkDefRe matches one reference definition: [id]: url "title", with up
// to three spaces of indentation, an angle-bracket-optional URL, and an
// optional quoted or parenthesized title that may sit on the next line.
var linkDefRe = regexp.MustCompile(
	`(?m)^[ ]{0,3}\[(.+)\]:[ \t]*\n?[ \t]*<?(\S+?)>?(?:[ \t\n][ \t]*["(](.+?)[")])?[ \t]*$\n?`)

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// foldLinkID canonicalizes a link id: case folding is ordinal (not
// locale-dependent) and internal whitespace runs collapse to single
// spaces, so "Foo  Bar" and "foo\nbar" share one table entry.
func foldLinkID(id string) string {
	return whitespaceRunRe.ReplaceAllLiteralString(strings.ToLower(strings.TrimSpace(id)), " ")
}

// stripLinkDefinitions removes reference definitions from the text and
// records them in the session's link table. A duplicate id overwrites
// the earlier definition.
func (s *session) stripLinkDefinitions(text string) string {
	return linkDefRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := linkDefRe.FindStringSubmatch(m)
		id := foldLinkID(parts[1])
		s.urls[id] = encodeAmpsAndAngles(parts[2])
		if parts[3] != "" {
			s.titles[id] = parts[3]
		} else {
			delete(s.titles, id)
		}
		return ""
	})
}

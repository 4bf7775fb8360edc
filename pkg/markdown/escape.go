package markdown

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"
)

// placeholderControl is a control character guaranteed absent from user
// text (normalize strips it), so placeholders can never be forged by
// input.
const placeholderControl = '\x1A'

// autoLinkPreventionMarker temporarily replaces "://" inside link text
// and code spans so the autolink pass cannot re-link them.
const autoLinkPreventionMarker = "\x1AP"

// escapedChars is the fixed set of characters with stable placeholders.
// These are the markdown-significant characters a backslash can escape,
// plus "/" which is only escaped inside HTML comment openers.
const escapedChars = `\` + "`" + `*_{}[]()>#+-.!/`

var (
	// escapeTable maps each escaped character to its placeholder. It is
	// process-wide and immutable after package init.
	escapeTable map[string]string

	backslashEscaper  *strings.Replacer
	unescaper         *strings.Replacer
	boldItalicEscaper *strings.Replacer
	codeEscaper       *strings.Replacer
)

func init() {
	escapeTable = make(map[string]string, len(escapedChars))

	var backslashPairs, unescapePairs []string
	for _, r := range escapedChars {
		ch := string(r)
		key := placeholder('E', ch)
		escapeTable[ch] = key
		backslashPairs = append(backslashPairs, `\`+ch, key)
		unescapePairs = append(unescapePairs, key, ch)
	}
	backslashEscaper = strings.NewReplacer(backslashPairs...)
	unescaper = strings.NewReplacer(unescapePairs...)

	boldItalicEscaper = strings.NewReplacer(
		"*", escapeTable["*"],
		"_", escapeTable["_"],
	)

	// Literal encoding for code spans and code blocks: HTML specials
	// become entities, markdown specials become placeholders so later
	// passes leave them alone and unescape restores the literals.
	codeEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`\`, escapeTable[`\`],
		"*", escapeTable["*"],
		"_", escapeTable["_"],
		"{", escapeTable["{"],
		"}", escapeTable["}"],
		"[", escapeTable["["],
		"]", escapeTable["]"],
	)
}

// placeholder builds the opaque token for protected content:
// control char, kind letter, digits derived from a BLAKE3 hash of the
// content, kind letter again. The digits depend only on the content, so
// the escape table is identical between runs.
func placeholder(kind byte, content string) string {
	sum := blake3.Sum256([]byte(content))
	return fmt.Sprintf("%c%c%d%c", placeholderControl, kind, binary.BigEndian.Uint64(sum[:8]), kind)
}

// blockPlaceholderRe matches H-kind placeholders standing in for
// protected raw HTML blocks.
var blockPlaceholderRe = regexp.MustCompile(`\x1AH\d+H`)

// hashBlock stores raw HTML in the session's block table and returns its
// placeholder, padded with blank lines so it forms its own paragraph
// chunk.
func (s *session) hashBlock(html string) string {
	key := placeholder('H', html)
	s.blocks[key] = html
	return "\n\n" + key + "\n\n"
}

// escapeBackslashes replaces backslash-escaped characters with their
// placeholders so no later pass can interpret them.
func escapeBackslashes(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	return backslashEscaper.Replace(text)
}

// escapeBoldItalic protects * and _ (inside URLs, titles, and tag
// attributes) from the emphasis pass.
func escapeBoldItalic(text string) string {
	return boldItalicEscaper.Replace(text)
}

// encodeCode literal-encodes a code span or code block body.
func encodeCode(code string) string {
	return codeEscaper.Replace(code)
}

// unescape restores every escaped-character placeholder. Block
// placeholders were already resolved during paragraph formation; one
// that survived the bounded unwind intentionally remains literal.
func (s *session) unescape(text string) string {
	if !strings.ContainsRune(text, placeholderControl) {
		return text
	}
	return unescaper.Replace(text)
}

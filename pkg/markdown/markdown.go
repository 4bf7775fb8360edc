// Package markdown converts Markdown-formatted plain text into an HTML
// fragment suitable for embedding in a document body.
//
// The converter follows the classic text-pipeline design: the input is
// normalized, raw HTML blocks are replaced by opaque placeholders, link
// reference definitions are stripped into a lookup table, block-level
// constructs are transformed (recursing for blockquotes and loose list
// items), span-level constructs are transformed inside each block, and a
// final pass restores every placeholder. Each Transform call owns its own
// session state, so a single Converter is safe for concurrent use.
package markdown

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// tabWidth is the column width a tab expands to during normalization and
// the indentation unit for code blocks and nested lists.
const tabWidth = 4

// nestDepth bounds how deeply same-name HTML tags, brackets, and parens
// may nest before a construct stops matching and falls through to plain
// paragraph treatment.
const nestDepth = 6

// Options control the optional behaviors of a Converter. The zero value
// is not useful; start from DefaultOptions.
type Options struct {
	// AutoHyperlink turns bare http/https/ftp URLs into links.
	AutoHyperlink bool

	// AutoNewlines treats every newline as a hard break instead of
	// requiring two trailing spaces.
	AutoNewlines bool

	// EmptyElementSuffix closes void elements: " />" (XHTML) or ">".
	EmptyElementSuffix string

	// EncodeProblemURLCharacters percent-encodes characters in link
	// targets that commonly break surrounding markup.
	EncodeProblemURLCharacters bool

	// LinkEmails converts <address@example.com> into an obfuscated
	// mailto link.
	LinkEmails bool

	// StrictBoldItalic requires a non-word boundary around * and _
	// emphasis markers.
	StrictBoldItalic bool

	// Rand is the randomness source for email address obfuscation.
	// Inject a seeded source in tests for reproducible output; when nil
	// a time-seeded source is used.
	Rand *rand.Rand
}

// DefaultOptions returns the standard converter behavior.
func DefaultOptions() Options {
	return Options{
		AutoHyperlink:              true,
		AutoNewlines:               false,
		EmptyElementSuffix:         " />",
		EncodeProblemURLCharacters: true,
		LinkEmails:                 true,
		StrictBoldItalic:           true,
	}
}

// Converter transforms plain text to HTML fragments. Construct with New;
// a Converter is immutable and safe for concurrent Transform calls.
type Converter struct {
	opts Options

	// rndMu serializes access to the shared random source during email
	// obfuscation, keeping concurrent Transform calls safe.
	rndMu sync.Mutex
}

// New returns a Converter for the given options.
func New(opts Options) *Converter {
	if opts.EmptyElementSuffix == "" {
		opts.EmptyElementSuffix = " />"
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Converter{opts: opts}
}

// Options returns a copy of the converter's options.
func (c *Converter) Options() Options { return c.opts }

// session is the mutable working set of one Transform call: the link
// reference table, the protected raw-HTML-block table, and the current
// list nesting depth. It is created fresh per call and never shared, so
// no state can leak between documents.
type session struct {
	conv      *Converter
	urls      map[string]string
	titles    map[string]string
	blocks    map[string]string
	listLevel int
}

func newSession(c *Converter) *session {
	return &session{
		conv:   c,
		urls:   make(map[string]string),
		titles: make(map[string]string),
		blocks: make(map[string]string),
	}
}

// Transform converts text to an HTML fragment. Empty or whitespace-only
// input yields an empty string. Malformed constructs never fail the
// call; they degrade to literal text.
func (c *Converter) Transform(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	s := newSession(c)
	text = normalize(text)
	text = s.hashHTMLBlocks(text)
	text = s.stripLinkDefinitions(text)
	text = s.runBlockGamut(text, true)
	return s.unescape(text)
}

// runBlockGamut applies the ordered block-level passes to the whole
// buffer. unhash controls whether paragraph formation resolves block
// placeholders; recursive calls for list items defer that to the
// outermost invocation.
func (s *session) runBlockGamut(text string, unhash bool) string {
	text = s.doHeaders(text)
	text = s.doHorizontalRules(text)
	text = s.doLists(text)
	text = s.doCodeBlocks(text)
	text = s.doBlockQuotes(text)

	// Markup generated by the passes above must itself be protected so
	// paragraph formation does not wrap block tags in <p>.
	text = s.hashHTMLBlocks(text)
	text = s.formParagraphs(text, unhash)
	return text
}

// runSpanGamut applies the ordered span-level passes to one
// inline-context string.
func (s *session) runSpanGamut(text string) string {
	text = s.doCodeSpans(text)
	text = s.escapeSpecialCharsWithinTagAttributes(text)
	text = escapeBackslashes(text)

	// Images before anchors: ![alt](url) is a superset of link syntax.
	text = s.doImages(text)
	text = s.doAnchors(text)
	text = s.doAutoLinks(text)

	text = strings.ReplaceAll(text, autoLinkPreventionMarker, "://")

	text = encodeAmpsAndAngles(text)
	text = s.doItalicsAndBold(text)
	return s.doHardBreaks(text)
}

func (s *session) doHardBreaks(text string) string {
	br := "<br" + s.conv.opts.EmptyElementSuffix + "\n"
	if s.conv.opts.AutoNewlines {
		return newlineRe.ReplaceAllString(text, br)
	}
	return hardBreakRe.ReplaceAllString(text, br)
}

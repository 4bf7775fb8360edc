package markdown

import "strings"

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenTag
)

// token is a slice of the input classified by the tokenizer. A token
// sequence partitions the original text with no gaps or overlaps.
type token struct {
	kind  tokenKind
	value string
}

// tokenizeHTML splits text into tag and text tokens. A tag token is a
// complete comment, processing instruction, or element tag; attribute
// values may contain '>' inside quotes. Anything between recognized tags
// is a single text token.
func tokenizeHTML(text string) []token {
	var tokens []token
	textStart := 0

	flushText := func(upto int) {
		if upto > textStart {
			tokens = append(tokens, token{tokenText, text[textStart:upto]})
		}
	}

	i := 0
	for i < len(text) {
		lt := strings.IndexByte(text[i:], '<')
		if lt < 0 {
			break
		}
		lt += i
		end, ok := tokenizeTagAt(text, lt)
		if !ok {
			i = lt + 1
			continue
		}
		flushText(lt)
		tokens = append(tokens, token{tokenTag, text[lt:end]})
		textStart = end
		i = end
	}
	flushText(len(text))
	return tokens
}

// tokenizeTagAt classifies the construct opening at the '<' and returns
// where it ends.
func tokenizeTagAt(text string, lt int) (int, bool) {
	rest := text[lt:]
	if strings.HasPrefix(rest, "<!--") {
		k := strings.Index(rest[4:], "-->")
		if k < 0 {
			return 0, false
		}
		return lt + 4 + k + 3, true
	}
	if strings.HasPrefix(rest, "<?") {
		k := strings.Index(rest[2:], "?>")
		if k < 0 {
			return 0, false
		}
		return lt + 2 + k + 2, true
	}
	// An element tag needs a name (or "/" + name) right after '<'.
	p := lt + 1
	if p < len(text) && text[p] == '/' {
		p++
	}
	if p >= len(text) || !isASCIILetter(text[p]) {
		return 0, false
	}
	return scanTag(text, lt)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

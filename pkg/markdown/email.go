package markdown

import (
	"fmt"
	"strings"
)

// encodeEmailAddress obfuscates an address for the page source: each
// character is emitted literally, as a decimal entity, or as a hex
// entity, chosen by the converter's random source. '@' is always an
// entity and ':' always literal, so the mailto scheme separator stays
// findable. Browsers decode the entities, so the rendered address is
// unchanged.
func (c *Converter) encodeEmailAddress(addr string) string {
	var out strings.Builder
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	for i := 0; i < len(addr); i++ {
		ch := addr[i]
		r := c.opts.Rand.Intn(99) + 1
		switch {
		case (r > 90 || ch == ':') && ch != '@':
			out.WriteByte(ch)
		case r < 45:
			fmt.Fprintf(&out, "&#x%x;", ch)
		default:
			fmt.Fprintf(&out, "&#%d;", ch)
		}
	}
	return out.String()
}

package format

import (
	"fmt"
	"strings"
)

// Path returns name in a form safe to print on a terminal. Names that start
// or end with whitespace or quotes, or that contain control characters, are
// quoted shell-style; control characters are then written as escape
// sequences.
func Path(name string) string {
	quote := false

	startsOrEnds := func(s string) bool {
		return strings.HasPrefix(name, s) || strings.HasSuffix(name, s)
	}
	if startsOrEnds(" ") || startsOrEnds(`"`) || startsOrEnds("'") {
		quote = true
	}
	if strings.ContainsFunc(name, isControl) {
		quote = true
	}

	if quote {
		q := "'"
		if strings.Contains(name, "'") {
			q = `"`
		}
		name = strings.ReplaceAll(name, `\`, `\\`)
		name = strings.ReplaceAll(name, q, `\`+q)
		name = q + name + q
	}

	// Escaping happens after quoting so the escapes themselves are never
	// re-escaped.
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case isControl(r):
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isControl reports whether r is a C0 or C1 control character.
func isControl(r rune) bool {
	return r < 0x20 || (r >= 0x7f && r < 0xa0)
}
